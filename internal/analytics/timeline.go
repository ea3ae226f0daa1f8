package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/models"
)

// PointKind discriminates timeline points.
type PointKind string

const (
	KindDosage PointKind = "DOSAGE"
	KindEvent  PointKind = "EVENT"
)

// TimelinePoint is one typed point in a merged dosage/event timeline,
// suitable for overlay visualization. Dosage points carry a quantitative
// value and unit; event points carry a severity.
type TimelinePoint struct {
	Timestamp   time.Time       `json:"timestamp"`
	Kind        PointKind       `json:"kind"`
	Description string          `json:"description"`
	Value       *float64        `json:"value,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Severity    models.Severity `json:"severity,omitempty"`
}

// Timeline is a chronologically ordered sequence of points.
type Timeline []TimelinePoint

// BuildTimeline merges dosage and event records into one sequence sorted
// ascending by timestamp. On identical timestamps the DOSAGE point sorts
// before the EVENT point: when times collide to the second, the dose is
// assumed to precede the reaction. The function is pure and deterministic;
// identical inputs always produce an identical sequence.
func BuildTimeline(dosages []models.DosageRecord, events []models.MedicalEvent) Timeline {
	points := make(Timeline, 0, len(dosages)+len(events))

	for _, d := range dosages {
		amount := d.Amount
		points = append(points, TimelinePoint{
			Timestamp:   d.AdministrationTime,
			Kind:        KindDosage,
			Description: dosageDescription(d),
			Value:       &amount,
			Unit:        d.Unit,
		})
	}
	for _, e := range events {
		points = append(points, TimelinePoint{
			Timestamp:   e.EventTime,
			Kind:        KindEvent,
			Description: e.Title,
			Severity:    e.Severity,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Timestamp.Equal(points[j].Timestamp) {
			return points[i].Kind == KindDosage && points[j].Kind == KindEvent
		}
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	return points
}

func dosageDescription(d models.DosageRecord) string {
	label := "dose"
	if d.Schedule != "" {
		label = fmt.Sprintf("%s dose", d.Schedule)
	}
	if !d.Administered {
		label += " (not administered)"
	}
	return fmt.Sprintf("%s: %g %s", label, d.Amount, d.Unit)
}

// Dosages returns the dosage-only subsequence, order preserved.
func (t Timeline) Dosages() Timeline {
	return t.filter(func(p TimelinePoint) bool { return p.Kind == KindDosage })
}

// Events returns the event-only subsequence, order preserved.
func (t Timeline) Events() Timeline {
	return t.filter(func(p TimelinePoint) bool { return p.Kind == KindEvent })
}

// HighSeverity returns the SEVERE/CRITICAL event points, order preserved.
func (t Timeline) HighSeverity() Timeline {
	return t.filter(func(p TimelinePoint) bool {
		return p.Kind == KindEvent && p.Severity.High()
	})
}

func (t Timeline) filter(keep func(TimelinePoint) bool) Timeline {
	out := make(Timeline, 0, len(t))
	for _, p := range t {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// PeriodDays is the period length in whole days, rounded up. Inverted or
// zero-length periods yield 0.
func PeriodDays(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}
