package store

import (
	"context"
	"errors"
	"log/slog"

	"minotes/internal/note"
)

// Mirror is the secondary, non-authoritative note cache. It masks store
// misses; it never overrides the filesystem on conflict.
type Mirror interface {
	Upsert(ctx context.Context, n *note.Note) error
	Delete(ctx context.Context, slug string) error
	Get(ctx context.Context, slug string) (*note.Note, error)
	ListAll(ctx context.Context) ([]*note.Note, error)
}

// Tiered composes the filesystem store with the mirror. Conflict policy:
// the store wins on read-through, the mirror serves slugs the store cannot.
// Writes go to both; a store failure is reported, a mirror failure is only
// logged.
type Tiered struct {
	store  *Store
	mirror Mirror
	log    *slog.Logger
}

func NewTiered(s *Store, m Mirror, log *slog.Logger) *Tiered {
	if log == nil {
		log = slog.Default()
	}
	return &Tiered{store: s, mirror: m, log: log}
}

func (t *Tiered) Save(ctx context.Context, n *note.Note) error {
	if err := t.store.Save(n); err != nil {
		return err
	}
	if t.mirror == nil {
		return nil
	}
	if err := t.mirror.Upsert(ctx, n); err != nil {
		t.log.Warn("mirror upsert failed", "slug", n.Slug, "err", err)
	}
	return nil
}

func (t *Tiered) Get(ctx context.Context, slug string) (*note.Note, error) {
	n, err := t.store.Get(slug)
	if err == nil {
		return n, nil
	}
	if t.mirror == nil {
		return nil, err
	}
	// Not-found and read failures both fall through to the mirror; the
	// original error is surfaced when the mirror misses too.
	if m, merr := t.mirror.Get(ctx, slug); merr == nil {
		if !errors.Is(err, note.ErrNotFound) {
			t.log.Warn("serving note from mirror", "slug", slug, "err", err)
		}
		return m, nil
	}
	return nil, err
}

func (t *Tiered) Delete(ctx context.Context, slug string) error {
	err := t.store.Delete(slug)
	if t.mirror != nil {
		// Deleting the mirror entry even on a store miss keeps a stale
		// mirror from resurrecting the note.
		if merr := t.mirror.Delete(ctx, slug); merr != nil {
			t.log.Warn("mirror delete failed", "slug", slug, "err", merr)
		}
	}
	return err
}

// ListAll merges both tiers: store entries win per slug, mirror-only slugs
// are appended. Per-file parse failures from the store are returned for
// the caller to log.
func (t *Tiered) ListAll(ctx context.Context) ([]*note.Note, []FileError, error) {
	notes, fileErrs, err := t.store.ListAll()
	if err != nil {
		if t.mirror == nil {
			return nil, nil, err
		}
		t.log.Warn("store listing failed, serving mirror", "err", err)
		mirrored, merr := t.mirror.ListAll(ctx)
		if merr != nil {
			return nil, nil, err
		}
		return mirrored, nil, nil
	}
	if t.mirror == nil {
		return notes, fileErrs, nil
	}

	mirrored, merr := t.mirror.ListAll(ctx)
	if merr != nil {
		t.log.Warn("mirror listing failed", "err", merr)
		return notes, fileErrs, nil
	}
	seen := make(map[string]bool, len(notes))
	for _, n := range notes {
		seen[n.Slug] = true
	}
	for _, m := range mirrored {
		if !seen[m.Slug] {
			notes = append(notes, m)
		}
	}
	return notes, fileErrs, nil
}
