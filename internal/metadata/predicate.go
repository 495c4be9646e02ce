package metadata

// Predicate selects metadata entries.
type Predicate func(Metadata) bool

// OfItem matches every namespace attached to itemName.
func OfItem(itemName string) Predicate {
	return func(m Metadata) bool { return m.Key.ItemName == itemName }
}

// HasNamespace matches entries in namespace.
func HasNamespace(namespace string) Predicate {
	return func(m Metadata) bool { return m.Key.Namespace == namespace }
}

// All matches entries accepted by every predicate. With no predicates it
// matches everything.
func All(preds ...Predicate) Predicate {
	return func(m Metadata) bool {
		for _, p := range preds {
			if !p(m) {
				return false
			}
		}
		return true
	}
}
