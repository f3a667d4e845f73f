package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/netigo/netigo-go/internal/domain"
	"github.com/netigo/netigo-go/internal/port"
	"github.com/netigo/netigo-go/internal/version"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var notesTracer = otel.Tracer("service/notes")

// NotesService owns the shared notes/tasks plus the retention sweep that
// removes old completed notes.
type NotesService struct {
	store     port.NoteStore
	audit     *AuditService
	counter   port.ChangeCounter
	retention time.Duration
	logger    *zap.Logger
}

// NewNotesService creates a new notes service.
func NewNotesService(store port.NoteStore, audit *AuditService, counter port.ChangeCounter, retention time.Duration, logger *zap.Logger) *NotesService {
	return &NotesService{
		store:     store,
		audit:     audit,
		counter:   counter,
		retention: retention,
		logger:    logger,
	}
}

// List returns all notes, newest first.
func (s *NotesService) List(ctx context.Context) ([]domain.Note, error) {
	ctx, span := notesTracer.Start(ctx, "NotesService.List")
	defer span.End()

	return s.store.ListNotes(ctx)
}

// Add inserts a note.
func (s *NotesService) Add(ctx context.Context, content, performedBy string) (*domain.Note, error) {
	ctx, span := notesTracer.Start(ctx, "NotesService.Add")
	defer span.End()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &domain.ErrValidation{Field: "content", Message: "required"}
	}

	note := &domain.Note{Content: content, CreatedBy: performedBy}
	if err := s.store.InsertNote(ctx, note); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "add_note", content, performedBy)
	s.counter.Bump(version.ScopeNotes)
	return note, nil
}

// Toggle flips a note's done flag.
func (s *NotesService) Toggle(ctx context.Context, id int64, performedBy string) (*domain.Note, error) {
	ctx, span := notesTracer.Start(ctx, "NotesService.Toggle")
	defer span.End()

	note, err := s.store.ToggleNote(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "toggle_note", fmt.Sprintf("note %d done=%t", id, note.Done), performedBy)
	s.counter.Bump(version.ScopeNotes)
	return note, nil
}

// Delete removes a note by id.
func (s *NotesService) Delete(ctx context.Context, id int64, performedBy string) error {
	ctx, span := notesTracer.Start(ctx, "NotesService.Delete")
	defer span.End()

	if err := s.store.DeleteNote(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, "delete_note", fmt.Sprintf("note %d", id), performedBy)
	s.counter.Bump(version.ScopeNotes)
	return nil
}

// Sweep deletes done notes older than the retention window. Idempotent and
// safe to run concurrently with user requests: it only deletes rows
// matching the age predicate. The cleanup itself does not bump the change
// counter unless rows were actually removed.
func (s *NotesService) Sweep(ctx context.Context) error {
	ctx, span := notesTracer.Start(ctx, "NotesService.Sweep")
	defer span.End()

	cutoff := domain.NewDate(time.Now().UTC().Add(-s.retention))
	removed, err := s.store.DeleteDoneBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.logger.Info("note cleanup sweep",
			zap.Int64("removed", removed),
			zap.String("cutoff", cutoff.String()),
		)
		s.counter.Bump(version.ScopeNotes)
	}
	return nil
}

// RunSweeper runs Sweep on a fixed interval until ctx is cancelled.
func (s *NotesService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Warn("note cleanup sweep failed", zap.Error(err))
			}
		}
	}
}
