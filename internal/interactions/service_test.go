package interactions

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/database"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db.Conn()
}

func insertUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()

	res, err := db.Exec(
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		username, username+"@example.com", "x",
	)
	if err != nil {
		t.Fatalf("failed to insert user: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func TestRateUpsert(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zerolog.Nop())
	userID := insertUser(t, db, "alice")

	first, err := svc.Rate(context.Background(), userID, RateInput{TmdbID: 550, ContentType: "movie", Rating: 3})
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}

	second, err := svc.Rate(context.Background(), userID, RateInput{TmdbID: 550, ContentType: "movie", Rating: 5})
	if err != nil {
		t.Fatalf("Rate again: %v", err)
	}

	if second.ID != first.ID {
		t.Error("re-rating should update the existing row, not create a new one")
	}
	if second.Rating != 5 {
		t.Errorf("expected updated rating 5, got %d", second.Rating)
	}

	all, err := svc.ListRatings(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListRatings: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 rating, got %d", len(all))
	}
}

func TestRateValidation(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zerolog.Nop())
	userID := insertUser(t, db, "alice")

	if _, err := svc.Rate(context.Background(), userID, RateInput{TmdbID: 1, ContentType: "movie", Rating: 0}); !errors.Is(err, ErrInvalidRating) {
		t.Errorf("expected ErrInvalidRating, got %v", err)
	}
	if _, err := svc.Rate(context.Background(), userID, RateInput{TmdbID: 1, ContentType: "book", Rating: 3}); !errors.Is(err, ErrInvalidContent) {
		t.Errorf("expected ErrInvalidContent, got %v", err)
	}
}

func TestWatchlistLifecycle(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zerolog.Nop())
	userID := insertUser(t, db, "alice")

	entry, err := svc.AddToWatchlist(context.Background(), userID, WatchlistInput{TmdbID: 550, ContentType: "movie"})
	if err != nil {
		t.Fatalf("AddToWatchlist: %v", err)
	}
	if entry.Status != StatusWantToWatch {
		t.Errorf("expected default status want_to_watch, got %q", entry.Status)
	}

	if _, err := svc.AddToWatchlist(context.Background(), userID, WatchlistInput{TmdbID: 550, ContentType: "movie"}); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	entry, err = svc.UpdateWatchlistStatus(context.Background(), userID, 550, "movie", StatusCompleted)
	if err != nil {
		t.Fatalf("UpdateWatchlistStatus: %v", err)
	}
	if entry.Status != StatusCompleted {
		t.Errorf("expected status completed, got %q", entry.Status)
	}

	filtered, err := svc.ListWatchlist(context.Background(), userID, StatusWatching)
	if err != nil {
		t.Fatalf("ListWatchlist: %v", err)
	}
	if len(filtered) != 0 {
		t.Errorf("expected empty watching list, got %d entries", len(filtered))
	}

	if err := svc.RemoveFromWatchlist(context.Background(), userID, 550, "movie"); err != nil {
		t.Fatalf("RemoveFromWatchlist: %v", err)
	}
	if err := svc.RemoveFromWatchlist(context.Background(), userID, 550, "movie"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFollowRules(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zerolog.Nop())
	alice := insertUser(t, db, "alice")
	bob := insertUser(t, db, "bob")

	if err := svc.Follow(context.Background(), alice, alice); !errors.Is(err, ErrSelfFollow) {
		t.Errorf("expected ErrSelfFollow, got %v", err)
	}
	if err := svc.Follow(context.Background(), alice, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := svc.Follow(context.Background(), alice, bob); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if err := svc.Follow(context.Background(), alice, bob); !errors.Is(err, ErrAlreadyFollows) {
		t.Errorf("expected ErrAlreadyFollows, got %v", err)
	}

	followers, err := svc.Followers(context.Background(), bob)
	if err != nil {
		t.Fatalf("Followers: %v", err)
	}
	if len(followers) != 1 || followers[0].Username != "alice" {
		t.Errorf("expected alice as bob's follower, got %+v", followers)
	}

	following, err := svc.Following(context.Background(), alice)
	if err != nil {
		t.Fatalf("Following: %v", err)
	}
	if len(following) != 1 || following[0].Username != "bob" {
		t.Errorf("expected bob in alice's following, got %+v", following)
	}

	if err := svc.Unfollow(context.Background(), alice, bob); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	if err := svc.Unfollow(context.Background(), alice, bob); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFeedShowsFollowedActivityOnly(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zerolog.Nop())
	alice := insertUser(t, db, "alice")
	bob := insertUser(t, db, "bob")
	carol := insertUser(t, db, "carol")

	if err := svc.Follow(context.Background(), alice, bob); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	if _, err := svc.Rate(context.Background(), bob, RateInput{TmdbID: 550, ContentType: "movie", Rating: 4}); err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if _, err := svc.Rate(context.Background(), carol, RateInput{TmdbID: 550, ContentType: "movie", Rating: 2}); err != nil {
		t.Fatalf("Rate: %v", err)
	}

	feed, err := svc.Feed(context.Background(), alice)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("expected 1 feed entry, got %d", len(feed))
	}
	if feed[0].Username != "bob" || feed[0].ActivityType != ActivityRating {
		t.Errorf("unexpected feed entry: %+v", feed[0])
	}
	if len(feed[0].Metadata) == 0 {
		t.Error("expected rating metadata in feed entry")
	}
}
