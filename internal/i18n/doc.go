// Package i18n holds translated message templates and renders them with
// positional arguments.
//
// Templates live in YAML bundle files named <bundle>.yaml (root, used when
// no locale matches) and <bundle>.<locale>.yaml. Nested maps are flattened
// with "." so
//
//	config-status:
//	  metadata:
//	    namespace: "Metadata in namespace {0}: {1}"
//
// defines the key "config-status.metadata.namespace".
//
// Lookups walk the locale's parent chain (de-CH, de, root) before giving up.
// Placeholders follow the MessageFormat subset {n}, {n,number[,integer|percent]},
// {n,date[,short|medium|long|full]} and {n,time[,...]}. Numbers are
// formatted for the locale with golang.org/x/text.
package i18n
