package session

import (
	"strings"
	"testing"
	"time"

	"github.com/emredev/devai/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store
}

func TestCreateAndGet(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sess.ID == "" {
		t.Error("session should receive an id")
	}
	if len(sess.Messages) != 0 {
		t.Error("new session should start empty")
	}

	loaded, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded.ID != sess.ID || loaded.Title != sess.Title {
		t.Errorf("loaded session differs: %+v vs %+v", loaded, sess)
	}
}

func TestGet_NotFound(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Get("missing"); err == nil {
		t.Error("Get should fail for an unknown id")
	}
}

func TestAppend_DerivesTitleFromFirstUserMessage(t *testing.T) {
	store := newTestStore(t)
	sess, _ := store.Create()

	updated, err := store.Append(sess.ID,
		models.Message{Role: models.RoleUser, Content: "kısa soru"},
		models.Message{Role: models.RoleAssistant, Content: "kısa cevap"},
	)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if updated.Title != "kısa soru" {
		t.Errorf("Title = %q, want the first user message", updated.Title)
	}
	if len(updated.Messages) != 2 {
		t.Errorf("Messages = %d, want 2", len(updated.Messages))
	}

	// A later user message must not retitle the session.
	updated, _ = store.Append(sess.ID, models.Message{Role: models.RoleUser, Content: "ikinci mesaj"})
	if updated.Title != "kısa soru" {
		t.Errorf("Title changed on second message: %q", updated.Title)
	}
}

func TestAppend_TitleTruncatesOnRunes(t *testing.T) {
	store := newTestStore(t)
	sess, _ := store.Create()

	long := strings.Repeat("ş", 40)
	updated, err := store.Append(sess.ID, models.Message{Role: models.RoleUser, Content: long})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	want := strings.Repeat("ş", 30) + "…"
	if updated.Title != want {
		t.Errorf("Title = %q, want %q", updated.Title, want)
	}
}

func TestList_MostRecentFirst(t *testing.T) {
	store := newTestStore(t)

	first, _ := store.Create()
	second, _ := store.Create()

	// Touch the older session so it sorts first.
	time.Sleep(10 * time.Millisecond)
	if _, err := store.Append(first.ID, models.Message{Role: models.RoleUser, Content: "hi"}); err != nil {
		t.Fatal(err)
	}

	sessions, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("List returned %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != first.ID {
		t.Error("most recently updated session should sort first")
	}
	_ = second
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	sess, _ := store.Create()

	if err := store.Delete(sess.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(sess.ID); err == nil {
		t.Error("deleted session should not load")
	}
	if err := store.Delete(sess.ID); err == nil {
		t.Error("deleting twice should fail")
	}
}

func TestActivePointer(t *testing.T) {
	store := newTestStore(t)

	if id, err := store.ActiveID(); err != nil || id != "" {
		t.Errorf("fresh store should have no active session, got %q, %v", id, err)
	}

	sess, _ := store.Create()
	if err := store.SetActive(sess.ID); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if id, _ := store.ActiveID(); id != sess.ID {
		t.Errorf("ActiveID = %q, want %q", id, sess.ID)
	}

	if err := store.SetActive("missing"); err == nil {
		t.Error("SetActive should reject unknown ids")
	}

	// Deleting the active session clears the pointer.
	if err := store.Delete(sess.ID); err != nil {
		t.Fatal(err)
	}
	if id, _ := store.ActiveID(); id != "" {
		t.Errorf("active pointer should clear on delete, got %q", id)
	}
}

func TestClearAll(t *testing.T) {
	store := newTestStore(t)
	store.Create()
	store.Create()

	if err := store.ClearAll(); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	sessions, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("ClearAll left %d sessions", len(sessions))
	}
}
