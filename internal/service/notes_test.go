package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/netigo/netigo-go/internal/domain"
	"github.com/netigo/netigo-go/internal/service"
	"github.com/netigo/netigo-go/internal/version"

	"go.uber.org/zap"
)

type fakeNoteStore struct {
	notes  []domain.Note
	nextID int64
}

func (f *fakeNoteStore) ListNotes(ctx context.Context) ([]domain.Note, error) {
	return f.notes, nil
}

func (f *fakeNoteStore) InsertNote(ctx context.Context, note *domain.Note) error {
	f.nextID++
	note.ID = f.nextID
	note.CreatedAt = time.Now().UTC()
	f.notes = append(f.notes, *note)
	return nil
}

func (f *fakeNoteStore) ToggleNote(ctx context.Context, id int64) (*domain.Note, error) {
	for i := range f.notes {
		if f.notes[i].ID == id {
			f.notes[i].Done = !f.notes[i].Done
			if f.notes[i].Done {
				now := time.Now().UTC()
				f.notes[i].DoneAt = &now
			} else {
				f.notes[i].DoneAt = nil
			}
			note := f.notes[i]
			return &note, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "note", ID: "?"}
}

func (f *fakeNoteStore) DeleteNote(ctx context.Context, id int64) error {
	for i, n := range f.notes {
		if n.ID == id {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "note", ID: "?"}
}

func (f *fakeNoteStore) DeleteDoneBefore(ctx context.Context, cutoff domain.Date) (int64, error) {
	var kept []domain.Note
	var removed int64
	for _, n := range f.notes {
		if n.Done && n.DoneAt != nil && n.DoneAt.Before(cutoff.Time) {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	f.notes = kept
	return removed, nil
}

func newNotesService(store *fakeNoteStore, retention time.Duration) (*service.NotesService, *version.Counter) {
	logger := zap.NewNop()
	counter := version.NewCounter()
	svc := service.NewNotesService(store, service.NewAuditService(&fakeAuditStore{}, logger), counter, retention, logger)
	return svc, counter
}

func TestAddNote(t *testing.T) {
	store := &fakeNoteStore{}
	svc, counter := newNotesService(store, 30*24*time.Hour)

	note, err := svc.Add(context.Background(), "  renew TLS cert  ", "admin")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if note.Content != "renew TLS cert" {
		t.Errorf("expected trimmed content, got %q", note.Content)
	}
	if note.CreatedBy != "admin" {
		t.Errorf("expected created_by admin, got %q", note.CreatedBy)
	}
	if counter.Current() != 2 {
		t.Errorf("expected version 2, got %d", counter.Current())
	}

	_, err = svc.Add(context.Background(), "   ", "admin")
	var vErr *domain.ErrValidation
	if !errors.As(err, &vErr) {
		t.Errorf("expected validation error for blank content, got %v", err)
	}
}

func TestToggleNote(t *testing.T) {
	store := &fakeNoteStore{}
	svc, _ := newNotesService(store, 30*24*time.Hour)

	note, err := svc.Add(context.Background(), "task", "admin")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	toggled, err := svc.Toggle(context.Background(), note.ID, "admin")
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !toggled.Done || toggled.DoneAt == nil {
		t.Errorf("expected done with timestamp, got %+v", toggled)
	}

	toggled, err = svc.Toggle(context.Background(), note.ID, "admin")
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if toggled.Done || toggled.DoneAt != nil {
		t.Errorf("expected reopened note with done_at cleared, got %+v", toggled)
	}

	var nfErr *domain.ErrNotFound
	if _, err := svc.Toggle(context.Background(), 9999, "admin"); !errors.As(err, &nfErr) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestSweep(t *testing.T) {
	old := time.Now().UTC().Add(-60 * 24 * time.Hour)
	recent := time.Now().UTC().Add(-time.Hour)
	store := &fakeNoteStore{
		nextID: 3,
		notes: []domain.Note{
			{ID: 1, Content: "stale", Done: true, DoneAt: &old},
			{ID: 2, Content: "fresh", Done: true, DoneAt: &recent},
			{ID: 3, Content: "open", Done: false},
		},
	}
	svc, counter := newNotesService(store, 30*24*time.Hour)

	if err := svc.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(store.notes) != 2 {
		t.Fatalf("expected 2 notes after sweep, got %d", len(store.notes))
	}
	for _, n := range store.notes {
		if n.Content == "stale" {
			t.Error("stale done note survived the sweep")
		}
	}
	if counter.Current() != 2 {
		t.Errorf("sweep that removed rows must bump once, got %d", counter.Current())
	}

	// Second sweep removes nothing and must not bump.
	if err := svc.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if counter.Current() != 2 {
		t.Errorf("no-op sweep must not bump, got %d", counter.Current())
	}
}
