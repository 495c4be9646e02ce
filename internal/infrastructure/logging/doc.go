// Package logging provides structured logging for the config status service.
//
// It wraps log/slog with JSON or text output, level filtering, default
// fields (service, version) and optional size-rotated file output.
//
// Configuration:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr, file
//	  file:
//	    path: "./logs/graylogic-status.log"
//	    max_size: 50
//
// Never log secrets, tokens or passwords.
package logging
