// Package database opens the SQLite file behind the generation journal
// and applies its schema migrations.
//
// Migrations are plain SQL files named YYYYMMDD_HHMMSS_description.up.sql,
// embedded by the migrations package and passed to Migrate as an fs.FS.
// Applied versions are tracked in schema_migrations, so Migrate is safe to
// call on every start.
//
// Usage:
//
//	db, err := database.Open(cfg.Journal)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
package database
