package retention

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/database"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db.Conn()
}

func insertActivity(t *testing.T, db *sql.DB, userID int64, age time.Duration) {
	t.Helper()

	_, err := db.Exec(
		"INSERT INTO user_activity (user_id, activity_type, created_at) VALUES (?, 'rating', ?)",
		userID, time.Now().UTC().Add(-age),
	)
	if err != nil {
		t.Fatalf("insert activity: %v", err)
	}
}

func TestPrune(t *testing.T) {
	db := testDB(t)

	res, err := db.Exec("INSERT INTO users (username, email, password_hash) VALUES ('alice', 'alice@example.com', 'x')")
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	userID, _ := res.LastInsertId()

	insertActivity(t, db, userID, time.Hour)
	insertActivity(t, db, userID, 89*24*time.Hour)
	insertActivity(t, db, userID, 91*24*time.Hour)
	insertActivity(t, db, userID, 365*24*time.Hour)

	svc, err := NewService(db, 90, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.Prune(context.Background()); err != nil {
		t.Fatalf("Prune: %v", err)
	}

	var remaining int
	if err := db.QueryRow("SELECT COUNT(*) FROM user_activity").Scan(&remaining); err != nil {
		t.Fatalf("count: %v", err)
	}
	if remaining != 2 {
		t.Errorf("expected 2 rows after prune, got %d", remaining)
	}
}

func TestPruneEmpty(t *testing.T) {
	db := testDB(t)

	svc, err := NewService(db, 90, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if err := svc.Prune(context.Background()); err != nil {
		t.Errorf("prune of an empty table should succeed: %v", err)
	}
}
