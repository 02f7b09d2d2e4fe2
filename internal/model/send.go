package model

import (
	"fmt"
	"time"
)

// Send is the record of a finished submission.
type Send struct {
	ID          string
	Destination Destination
	FilePath    string
	Status      SendStatus
	URL         string
	Error       string
	CreatedAt   time.Time
}

// Validate validates the send model.
func (s Send) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("send id is required: %w", ErrNotValid)
	}

	if err := s.Destination.Validate(); err != nil {
		return err
	}

	if s.FilePath == "" {
		return fmt.Errorf("send file path is required: %w", ErrNotValid)
	}

	if s.Status != SendStatusDone && s.Status != SendStatusError {
		return fmt.Errorf("send status must be terminal, got %q: %w", s.Status, ErrNotValid)
	}

	if s.CreatedAt.IsZero() {
		return fmt.Errorf("created at is required: %w", ErrNotValid)
	}

	return nil
}
