package analytics

import (
	"errors"
	"time"

	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/models"
)

// ErrInvalidRange is returned when a window's start is after its end. It is
// the only error the analytics components report; empty inputs always yield
// zero-valued results instead.
var ErrInvalidRange = errors.New("analytics: window start is after end")

// Window is an inclusive [Start, End] time range. A nil bound leaves that
// side unbounded.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// NewWindow builds a window and validates it.
func NewWindow(start, end *time.Time) (Window, error) {
	w := Window{Start: start, End: end}
	return w, w.Validate()
}

// Between is shorthand for a fully bounded window.
func Between(start, end time.Time) Window {
	return Window{Start: &start, End: &end}
}

// Validate reports ErrInvalidRange when both bounds are set and inverted.
func (w Window) Validate() error {
	if w.Start != nil && w.End != nil && w.Start.After(*w.End) {
		return ErrInvalidRange
	}
	return nil
}

// Contains reports whether t falls inside the window, both ends inclusive.
func (w Window) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}

// SelectDosages returns the dosage records whose administration time falls in
// the window. Input order is preserved and the input slice is not mutated.
func SelectDosages(records []models.DosageRecord, w Window) ([]models.DosageRecord, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	selected := make([]models.DosageRecord, 0, len(records))
	for _, r := range records {
		if w.Contains(r.AdministrationTime) {
			selected = append(selected, r)
		}
	}
	return selected, nil
}

// SelectEvents returns the medical events whose event time falls in the
// window. Input order is preserved and the input slice is not mutated.
func SelectEvents(records []models.MedicalEvent, w Window) ([]models.MedicalEvent, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	selected := make([]models.MedicalEvent, 0, len(records))
	for _, r := range records {
		if w.Contains(r.EventTime) {
			selected = append(selected, r)
		}
	}
	return selected, nil
}
