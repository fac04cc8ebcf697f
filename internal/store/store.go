package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"minotes/internal/note"
)

const (
	// CanonicalExt is written for new files. Legacy .md files are still
	// read and deleted so pre-existing content keeps working.
	CanonicalExt = ".mdx"
	LegacyExt    = ".md"
)

// FileError records one file that failed to parse during a listing. A
// corrupt file must not hide the rest of the catalog.
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("list note file %q: %v", e.Name, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Store persists one note per file in a content directory.
type Store struct {
	dir    string
	locker *locker
	now    func() time.Time
}

func New(dir string) *Store {
	return &Store{dir: dir, locker: newLocker(), now: time.Now}
}

// Dir returns the content directory the store writes into.
func (s *Store) Dir() string { return s.dir }

func validSlug(slug string) error {
	if strings.TrimSpace(slug) == "" {
		return &note.ValidationError{Field: "slug"}
	}
	if strings.ContainsAny(slug, "/\\") || strings.Contains(slug, "..") {
		return &note.ValidationError{Field: "slug"}
	}
	return nil
}

// Save creates or replaces the note file for n.Slug. The slug is derived
// from the title when absent. On overwrite the stored date wins: a note's
// date is stamped once at creation and never re-derived. Summary and
// category defaults are filled in, and n is updated to the stored form.
func (s *Store) Save(n *note.Note) error {
	if strings.TrimSpace(n.Slug) == "" && n.Title != "" {
		n.Slug = note.Slugify(n.Title)
	}
	if err := n.Validate(); err != nil {
		return err
	}
	if err := validSlug(n.Slug); err != nil {
		return err
	}

	unlock := s.locker.lock(n.Slug)
	defer unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create content dir: %w", err)
	}

	if prev, err := s.read(n.Slug); err == nil {
		n.Date = prev.Date
	} else if !errors.Is(err, note.ErrNotFound) {
		var pe *note.ParseError
		if !errors.As(err, &pe) {
			return err
		}
		// A corrupt previous file cannot yield its date; overwriting it
		// repairs the note with a fresh creation stamp.
	}
	if n.Date == "" {
		n.Date = s.now().UTC().Format(time.RFC3339)
	}
	if n.Summary == "" {
		n.Summary = note.DefaultSummary(n.Content)
	}
	if n.Category == "" {
		n.Category = note.DefaultCategory
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}

	data, err := note.Encode(n)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(s.dir, n.Slug+CanonicalExt), data, 0o644); err != nil {
		return fmt.Errorf("write note %q: %w", n.Slug, err)
	}
	// One slug, one file: a legacy copy is superseded by the canonical write.
	_ = os.Remove(filepath.Join(s.dir, n.Slug+LegacyExt))
	return nil
}

// Get returns the note for slug, trying the canonical extension first and
// the legacy one second. note.ErrNotFound when neither exists.
func (s *Store) Get(slug string) (*note.Note, error) {
	if err := validSlug(slug); err != nil {
		return nil, err
	}
	return s.read(slug)
}

func (s *Store) read(slug string) (*note.Note, error) {
	for _, ext := range []string{CanonicalExt, LegacyExt} {
		data, err := os.ReadFile(filepath.Join(s.dir, slug+ext))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read note %q: %w", slug, err)
		}
		return note.Decode(slug, data)
	}
	return nil, note.ErrNotFound
}

// Delete removes the backing file for slug under either extension.
func (s *Store) Delete(slug string) error {
	if err := validSlug(slug); err != nil {
		return err
	}

	unlock := s.locker.lock(slug)
	defer unlock()

	removed := false
	for _, ext := range []string{CanonicalExt, LegacyExt} {
		err := os.Remove(filepath.Join(s.dir, slug+ext))
		if err == nil {
			removed = true
			continue
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete note %q: %w", slug, err)
		}
	}
	if !removed {
		return note.ErrNotFound
	}
	return nil
}

// ListAll enumerates every note file in the directory. A missing directory
// is created and yields an empty listing. Files that fail to parse are
// collected into the returned FileError slice; they never abort the
// enumeration of the others.
func (s *Store) ListAll() ([]*note.Note, []FileError, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		if mkErr := os.MkdirAll(s.dir, 0o755); mkErr != nil {
			return nil, nil, fmt.Errorf("create content dir: %w", mkErr)
		}
		return []*note.Note{}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read content dir: %w", err)
	}

	notes := make([]*note.Note, 0, len(entries))
	bySlug := make(map[string]int)
	var fileErrs []FileError

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext != CanonicalExt && ext != LegacyExt {
			continue
		}
		slug := strings.TrimSuffix(name, filepath.Ext(name))

		if i, ok := bySlug[slug]; ok {
			// Both extensions on disk for one slug: the canonical file wins.
			if ext != CanonicalExt {
				continue
			}
			n, err := s.parseFile(slug, name)
			if err != nil {
				fileErrs = append(fileErrs, FileError{Name: name, Err: err})
				continue
			}
			notes[i] = n
			continue
		}

		n, err := s.parseFile(slug, name)
		if err != nil {
			fileErrs = append(fileErrs, FileError{Name: name, Err: err})
			continue
		}
		bySlug[slug] = len(notes)
		notes = append(notes, n)
	}
	return notes, fileErrs, nil
}

func (s *Store) parseFile(slug, name string) (*note.Note, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	return note.Decode(slug, data)
}
