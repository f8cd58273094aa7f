package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/shelfexam/internal/store"
)

// ErrEmptySubject is returned when a blank subject tag is added.
var ErrEmptySubject = errors.New("subject is empty")

// Subjects manages the subject tags recommended to each participant.
// Tags are stored lower-cased.
type Subjects struct {
	repo store.SubjectRepo
}

// NewSubjects creates a Subjects backed by repo.
func NewSubjects(repo store.SubjectRepo) *Subjects {
	return &Subjects{repo: repo}
}

// Tags returns the participant's recommended subjects in sorted order.
func (s *Subjects) Tags(ctx context.Context, participantID string) ([]string, error) {
	tags, err := s.repo.List(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("list subject tags: %w", err)
	}
	return tags, nil
}

// Add tags participantID with subject.
func (s *Subjects) Add(ctx context.Context, participantID, subject string) error {
	subject = normalize(subject)
	if subject == "" {
		return ErrEmptySubject
	}
	if err := s.repo.Add(ctx, participantID, subject); err != nil {
		return fmt.Errorf("add subject tag: %w", err)
	}
	return nil
}

// Remove deletes a subject tag. Removing an absent tag is not an error.
func (s *Subjects) Remove(ctx context.Context, participantID, subject string) error {
	if err := s.repo.Remove(ctx, participantID, normalize(subject)); err != nil {
		return fmt.Errorf("remove subject tag: %w", err)
	}
	return nil
}

func normalize(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}
