// Package storage provides the durable key/value backend beneath the
// metadata store.
//
// Documents are JSON. The backend does not promise that a number written
// as an integer comes back as one; readers normalize what they load.
//
// Implementations:
//   - SQLiteStorage: rows in storage_entries, one storage per name
//   - MemoryStorage: process memory, for tests and ephemeral runs
package storage
