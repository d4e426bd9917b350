package reviews

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

func TestCreateAndGet(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zerolog.Nop())
	userID := insertUser(t, db, "alice")

	review, err := svc.Create(context.Background(), userID, CreateInput{
		TmdbID:      550,
		ContentType: ContentMovie,
		Title:       "A modern classic",
		Content:     "Holds up on every rewatch.",
		Rating:      5,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if review.Username != "alice" {
		t.Errorf("expected joined username alice, got %q", review.Username)
	}
	if !review.IsApproved {
		t.Error("new reviews should be approved by default")
	}
	if review.LikesCount != 0 || review.DislikesCount != 0 {
		t.Errorf("expected zero counters, got %d/%d", review.LikesCount, review.DislikesCount)
	}
}

func TestCreateDuplicate(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zerolog.Nop())
	userID := insertUser(t, db, "alice")

	input := CreateInput{TmdbID: 550, ContentType: ContentMovie, Title: "t", Content: "c", Rating: 4}
	if _, err := svc.Create(context.Background(), userID, input); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), userID, input); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	// The same title with a different content type is a distinct review.
	input.ContentType = ContentSeries
	if _, err := svc.Create(context.Background(), userID, input); err != nil {
		t.Errorf("Create with different content type: %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zerolog.Nop())
	userID := insertUser(t, db, "alice")

	_, err := svc.Create(context.Background(), userID, CreateInput{
		TmdbID: 1, ContentType: "documentary", Title: "t", Content: "c", Rating: 3,
	})
	if !errors.Is(err, ErrInvalidContent) {
		t.Errorf("expected ErrInvalidContent, got %v", err)
	}

	_, err = svc.Create(context.Background(), userID, CreateInput{
		TmdbID: 1, ContentType: ContentMovie, Title: "t", Content: "c", Rating: 6,
	})
	if !errors.Is(err, ErrInvalidRating) {
		t.Errorf("expected ErrInvalidRating, got %v", err)
	}
}

func TestReactFlip(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zerolog.Nop())
	author := insertUser(t, db, "alice")
	voter := insertUser(t, db, "bob")

	review, err := svc.Create(context.Background(), author, CreateInput{
		TmdbID: 550, ContentType: ContentMovie, Title: "t", Content: "c", Rating: 4,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	check := func(r *Review, likes, dislikes int) {
		t.Helper()
		if r.LikesCount != likes || r.DislikesCount != dislikes {
			t.Fatalf("expected %d likes / %d dislikes, got %d/%d", likes, dislikes, r.LikesCount, r.DislikesCount)
		}
	}

	r, err := svc.React(context.Background(), review.ID, voter, true)
	if err != nil {
		t.Fatalf("React: %v", err)
	}
	check(r, 1, 0)

	// Same reaction again removes it.
	r, err = svc.React(context.Background(), review.ID, voter, true)
	if err != nil {
		t.Fatalf("React: %v", err)
	}
	check(r, 0, 0)

	// Like then dislike flips both counters.
	if _, err = svc.React(context.Background(), review.ID, voter, true); err != nil {
		t.Fatalf("React: %v", err)
	}
	r, err = svc.React(context.Background(), review.ID, voter, false)
	if err != nil {
		t.Fatalf("React: %v", err)
	}
	check(r, 0, 1)
}

func TestReactUnknownReview(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zerolog.Nop())
	voter := insertUser(t, db, "bob")

	if _, err := svc.React(context.Background(), 999, voter, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListByContentFiltersUnapproved(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zerolog.Nop())
	alice := insertUser(t, db, "alice")
	bob := insertUser(t, db, "bob")

	approved, err := svc.Create(context.Background(), alice, CreateInput{
		TmdbID: 550, ContentType: ContentMovie, Title: "t1", Content: "c", Rating: 4,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rejected, err := svc.Create(context.Background(), bob, CreateInput{
		TmdbID: 550, ContentType: ContentMovie, Title: "t2", Content: "c", Rating: 2,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.SetApproved(context.Background(), rejected.ID, false); err != nil {
		t.Fatalf("SetApproved: %v", err)
	}

	result, err := svc.ListByContent(context.Background(), 550, ContentMovie)
	if err != nil {
		t.Fatalf("ListByContent: %v", err)
	}
	if len(result) != 1 || result[0].ID != approved.ID {
		t.Errorf("expected only the approved review, got %d reviews", len(result))
	}
}

func TestComments(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zerolog.Nop())
	alice := insertUser(t, db, "alice")
	bob := insertUser(t, db, "bob")

	review, err := svc.Create(context.Background(), alice, CreateInput{
		TmdbID: 550, ContentType: ContentMovie, Title: "t", Content: "c", Rating: 4,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	top, err := svc.AddComment(context.Background(), review.ID, bob, CommentInput{Content: "Agreed!"})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if top.Username != "bob" {
		t.Errorf("expected joined username bob, got %q", top.Username)
	}

	reply, err := svc.AddComment(context.Background(), review.ID, alice, CommentInput{
		Content:  "Thanks!",
		ParentID: &top.ID,
	})
	if err != nil {
		t.Fatalf("AddComment reply: %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != top.ID {
		t.Error("reply should reference its parent comment")
	}

	// A parent from another review is rejected.
	other, err := svc.Create(context.Background(), bob, CreateInput{
		TmdbID: 551, ContentType: ContentMovie, Title: "t", Content: "c", Rating: 3,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.AddComment(context.Background(), other.ID, alice, CommentInput{
		Content:  "x",
		ParentID: &top.ID,
	}); !errors.Is(err, ErrCommentNotFound) {
		t.Errorf("expected ErrCommentNotFound, got %v", err)
	}

	list, err := svc.ListComments(context.Background(), review.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(list))
	}

	if err := svc.DeleteComment(context.Background(), top.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	list, err = svc.ListComments(context.Background(), review.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected cascade delete of replies, got %d comments", len(list))
	}
}
