// Package database provides the SQLite connection used by the persistent
// metadata storage.
//
// It manages:
//   - Opening the database file (or a private ":memory:" database) with
//     WAL mode and a busy timeout
//   - Versioned schema migrations read from any fs.FS
//
// All queries use parameterised statements. The database file is chmod 0600.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// Migrations are additive: new columns must be NULLABLE or have DEFAULT
// values, and each change ships as YYYYMMDD_HHMMSS_name.up.sql with an
// optional matching .down.sql.
package database
