// Package workspace holds the in-memory virtual file system the editor
// renders: a keyed collection of files plus the active-file pointer.
package workspace

import (
	"sync"

	"github.com/google/uuid"

	"github.com/emredev/devai/internal/models"
)

// Store is the in-memory workspace. At most one file exists per name;
// applying content for an existing name overwrites it in place and the
// file keeps its id. All operations are synchronous and touch only the
// in-memory collection.
type Store struct {
	mu       sync.Mutex
	files    []*models.VirtualFile
	byName   map[string]*models.VirtualFile
	activeID string
}

// NewStore creates an empty workspace
func NewStore() *Store {
	return &Store{
		byName: make(map[string]*models.VirtualFile),
	}
}

// AddOrUpdate upserts a file by name. An existing file keeps its id and
// gets the new content; a new file receives a freshly generated id when
// none is set. The touched file becomes active. Returns the stored file.
func (s *Store) AddOrUpdate(file models.VirtualFile) *models.VirtualFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byName[file.Name]; ok {
		existing.Content = file.Content
		if file.Language != "" {
			existing.Language = file.Language
		}
		s.activeID = existing.ID
		return existing
	}

	stored := file
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Language == "" {
		stored.Language = models.LanguageFromName(stored.Name)
	}

	s.files = append(s.files, &stored)
	s.byName[stored.Name] = &stored
	s.activeID = stored.ID
	return &stored
}

// UpdateContent replaces the content of the file with the given id.
// Returns false when no such file exists.
func (s *Store) UpdateContent(id, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.files {
		if f.ID == id {
			f.Content = content
			return true
		}
	}
	return false
}

// Delete removes the file with the given id. The active pointer is
// cleared when it referenced the deleted file. Returns false when no
// such file exists.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.files {
		if f.ID == id {
			s.files = append(s.files[:i], s.files[i+1:]...)
			delete(s.byName, f.Name)
			if s.activeID == id {
				s.activeID = ""
			}
			return true
		}
	}
	return false
}

// SetActive points the active-file reference at the given file id, or
// clears it when id is empty. Returns false for an unknown id.
func (s *Store) SetActive(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		s.activeID = ""
		return true
	}
	for _, f := range s.files {
		if f.ID == id {
			s.activeID = id
			return true
		}
	}
	return false
}

// Active returns a copy of the active file, or nil when none is set.
func (s *Store) Active() *models.VirtualFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == "" {
		return nil
	}
	for _, f := range s.files {
		if f.ID == s.activeID {
			clone := *f
			return &clone
		}
	}
	return nil
}

// Get returns a copy of the file with the given name, or nil.
func (s *Store) Get(name string) *models.VirtualFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.byName[name]; ok {
		clone := *f
		return &clone
	}
	return nil
}

// Files returns copies of all files in insertion order.
func (s *Store) Files() []models.VirtualFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.VirtualFile, len(s.files))
	for i, f := range s.files {
		out[i] = *f
	}
	return out
}

// Len returns the number of files in the workspace
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Reset drops all files and clears the active pointer.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files = nil
	s.byName = make(map[string]*models.VirtualFile)
	s.activeID = ""
}

// ApplySegments writes the code segments of a parsed response into the
// workspace in order; later segments for the same filename override
// earlier ones. Returns the number of segments applied so callers can
// report "N files updated".
func (s *Store) ApplySegments(segments []models.Segment) int {
	applied := 0
	for _, seg := range segments {
		if seg.Type != models.SegmentCode {
			continue
		}
		name := seg.FileName
		if name == "" {
			name = "untitled"
		}
		language := seg.Language
		if language == "" {
			language = models.LanguageFromName(name)
		}
		s.AddOrUpdate(models.VirtualFile{
			Name:     name,
			Language: language,
			Content:  seg.Code,
		})
		applied++
	}
	return applied
}
