// Package session provides chat session persistence and the send
// pipeline that drives a conversation through the orchestrator.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emredev/devai/internal/models"
)

// titleRuneLimit bounds auto-derived session titles.
const titleRuneLimit = 30

// Session represents a persisted chat conversation
type Session struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Messages  []models.Message `json:"messages"`
}

// Store manages session persistence. Each session is one JSON file
// under the base directory; the active-session pointer lives next to
// them in active.json.
type Store struct {
	baseDir string
	mu      sync.RWMutex
}

// NewStore creates a session store rooted at baseDir
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	return &Store{
		baseDir: baseDir,
	}, nil
}

// Create creates a new empty session
func (s *Store) Create() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		Title:     fmt.Sprintf("Chat %s", now.Format("2006-01-02 15:04")),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []models.Message{},
	}

	if err := s.saveSession(sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// Get retrieves a session by ID
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadSession(id)
}

// List returns all sessions, most recently updated first.
func (s *Store) List() ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessions []*Session
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if entry.Name() == "active.json" {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		sess, err := s.loadSession(id)
		if err != nil {
			continue // Skip corrupted files
		}
		sessions = append(sessions, sess)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	return sessions, nil
}

// Append adds messages to a session and persists it. The title is
// derived from the first user message the first time one arrives.
func (s *Store) Append(id string, messages ...models.Message) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.loadSession(id)
	if err != nil {
		return nil, err
	}

	hadUserMessage := hasUserMessage(sess.Messages)
	sess.Messages = append(sess.Messages, messages...)
	sess.UpdatedAt = time.Now()

	if !hadUserMessage {
		for _, msg := range messages {
			if msg.Role == models.RoleUser {
				sess.Title = deriveTitle(msg.Content)
				break
			}
		}
	}

	if err := s.saveSession(sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// Delete removes a session. Deleting the active session clears the
// active pointer.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.sessionPath(id)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("session not found: %s", id)
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if active, _ := s.loadActiveID(); active == id {
		_ = os.Remove(s.activePath())
	}

	return nil
}

// ClearAll deletes all sessions and the active pointer.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to read sessions directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		path := filepath.Join(s.baseDir, entry.Name())
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// SetActive records which session new chat input goes to.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.loadSession(id); err != nil {
		return err
	}

	data, err := json.Marshal(map[string]string{"id": id})
	if err != nil {
		return fmt.Errorf("failed to marshal active pointer: %w", err)
	}
	if err := os.WriteFile(s.activePath(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write active pointer: %w", err)
	}

	return nil
}

// ActiveID returns the active session id, or empty when none is set.
func (s *Store) ActiveID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadActiveID()
}

// Internal methods

func (s *Store) sessionPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *Store) activePath() string {
	return filepath.Join(s.baseDir, "active.json")
}

func (s *Store) loadActiveID() (string, error) {
	data, err := os.ReadFile(s.activePath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read active pointer: %w", err)
	}

	var pointer struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &pointer); err != nil {
		return "", fmt.Errorf("failed to parse active pointer: %w", err)
	}
	return pointer.ID, nil
}

func (s *Store) loadSession(id string) (*Session, error) {
	path := s.sessionPath(id)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("session not found: %s", id)
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	return &sess, nil
}

func (s *Store) saveSession(sess *Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	path := s.sessionPath(sess.ID)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}

func hasUserMessage(messages []models.Message) bool {
	for _, msg := range messages {
		if msg.Role == models.RoleUser {
			return true
		}
	}
	return false
}

// deriveTitle truncates on rune boundaries so Turkish input doesn't
// split mid-character.
func deriveTitle(content string) string {
	trimmed := strings.TrimSpace(content)
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	runes := []rune(trimmed)
	if len(runes) <= titleRuneLimit {
		return trimmed
	}
	return string(runes[:titleRuneLimit]) + "…"
}
