package shared

import (
	"context"
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	ctx := context.Background()

	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		for _, m := range migrations {
			if m.Up == "" {
				t.Errorf("migration version %d missing up SQL", m.Version)
			}
			if m.Down == "" {
				t.Errorf("migration version %d missing down SQL", m.Version)
			}
			if m.Name == "" {
				t.Errorf("migration version %d missing name", m.Version)
			}
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(ctx, ":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		applied, err := RunMigrations(ctx, db)
		if err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
		if applied == 0 {
			t.Error("expected at least one migration to be applied")
		}

		for _, table := range []string{"artists", "albums", "tracks", "users"} {
			if _, err := db.Exec("SELECT 1 FROM " + table + " LIMIT 1"); err != nil {
				t.Errorf("%s table should exist after migrations: %v", table, err)
			}
		}

		version, err := RollbackMigration(ctx, db)
		if err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to query schema_migrations after rollback: %v", err)
		}
		if count != applied-1 {
			t.Errorf("expected %d applied migrations after rollback, got %d", applied-1, count)
		}

		if version == 1 {
			if _, err := db.Exec("SELECT 1 FROM users LIMIT 1"); err == nil {
				t.Error("users table should be dropped by rollback")
			}
		}
	})

	t.Run("Rollback Without Migrations", func(t *testing.T) {
		db, err := NewDatabase(ctx, ":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := createMigrationsTable(ctx, db); err != nil {
			t.Fatalf("failed to create migrations table: %v", err)
		}

		if _, err := RollbackMigration(ctx, db); err == nil {
			t.Error("expected error when nothing has been applied")
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := NewDatabase(ctx, ":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if _, err := RunMigrations(ctx, db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}

		applied, err := RunMigrations(ctx, db)
		if err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}
		if applied != 0 {
			t.Errorf("expected no migrations on second run, got %d", applied)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}

		migrations, _ := loadMigrations()
		if count != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), count)
		}
	})
}

func TestRemoveComments(t *testing.T) {
	got := removeComments("-- heading\nCREATE TABLE x (id TEXT) -- trailing\n\n")
	if got != "CREATE TABLE x (id TEXT)" {
		t.Errorf("removeComments() = %q", got)
	}
}
