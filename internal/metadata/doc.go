// Package metadata manages namespaced metadata attached to items.
//
// A Metadata entry is addressed by Key{Namespace, ItemName} and carries a
// main string value plus a configuration map. Configuration values are one
// of string, bool or decimal (github.com/shopspring/decimal). Numbers are
// canonicalized on the way in and again on the way out: integers get
// exponent 0, other numbers keep the shortest exact form. Two writes of
// numerically equal configuration therefore store identical documents,
// whatever numeric types the caller or the storage backend used.
//
// The Store persists entries through storage.Storage and posts
// MetadataAdded/Updated/Removed events. The StatusTracker consumes those
// events and keeps an ItemStatusProvider registered with the config status
// service for every item that has metadata.
//
// Example:
//
//	store := metadata.NewStore(storage.NewSQLiteStorage(db.DB, "metadata"), publisher)
//	m, _ := metadata.New(metadata.NewKey("homekit", "Kitchen_Light"), "Lighting",
//	    map[string]any{"brightness": 5})
//	_, err := store.Add(ctx, m)
package metadata
