package analytics

import (
	"time"

	"github.com/google/uuid"

	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/models"
)

// normalizationDays is the fixed denominator for per-day averages. A constant
// window keeps the averages comparable across patients with different
// observation periods; it is not a sliding average.
const normalizationDays = 30.0

// recentWindow is the trailing period counted as "recent" activity.
const recentWindow = 7 * 24 * time.Hour

// increasedActivityRatio is the recent/total share above which a patient's
// activity is flagged as increased.
const increasedActivityRatio = 0.30

// DashboardSummary is the patient-level roll-up over a full record set.
// Ratios and argmax views are derived on demand from the stored counts and
// never persisted separately.
type DashboardSummary struct {
	PatientID             uuid.UUID               `json:"patientId"`
	TotalEvents           int                     `json:"totalEvents"`
	TotalDosages          int                     `json:"totalDosages"`
	EventsByCategory      map[models.Category]int `json:"eventsByCategory"`
	EventsBySeverity      map[models.Severity]int `json:"eventsBySeverity"`
	RecentEventsLast7Days int                     `json:"recentEventsLast7Days"`
	GeneratedAt           time.Time               `json:"generatedAt"`
}

// Summarize rolls up the full supplied record set. No time filtering happens
// here; callers window the inputs upstream if they want a bounded summary.
// Recent activity counts events at or after asOf minus seven days.
func Summarize(patientID uuid.UUID, events []models.MedicalEvent, dosages []models.DosageRecord, asOf time.Time) DashboardSummary {
	recentCutoff := asOf.Add(-recentWindow)
	recent := 0
	for _, e := range events {
		if !e.EventTime.Before(recentCutoff) {
			recent++
		}
	}

	return DashboardSummary{
		PatientID:             patientID,
		TotalEvents:           len(events),
		TotalDosages:          len(dosages),
		EventsByCategory:      tallyCategories(events),
		EventsBySeverity:      tallySeverities(events),
		RecentEventsLast7Days: recent,
		GeneratedAt:           time.Now().UTC(),
	}
}

// AverageEventsPerDay normalizes the event total over the fixed 30-day window.
func (s DashboardSummary) AverageEventsPerDay() float64 {
	return float64(s.TotalEvents) / normalizationDays
}

// AverageDosagesPerDay normalizes the dosage total over the fixed 30-day window.
func (s DashboardSummary) AverageDosagesPerDay() float64 {
	return float64(s.TotalDosages) / normalizationDays
}

// HasIncreasedRecentActivity reports whether more than 30% of all events fall
// in the trailing seven days.
func (s DashboardSummary) HasIncreasedRecentActivity() bool {
	if s.TotalEvents == 0 {
		return false
	}
	return float64(s.RecentEventsLast7Days)/float64(s.TotalEvents) > increasedActivityRatio
}

// MostCommonEventCategory is the argmax over the category tally. Ties resolve
// to the first-declared category; an empty tally yields the empty string.
func (s DashboardSummary) MostCommonEventCategory() models.Category {
	var best models.Category
	bestCount := 0
	for _, c := range models.Categories {
		if n := s.EventsByCategory[c]; n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

// MostCommonEventSeverity is the argmax over the severity tally. Ties resolve
// to the first-declared severity; an empty tally yields the empty string.
func (s DashboardSummary) MostCommonEventSeverity() models.Severity {
	var best models.Severity
	bestCount := 0
	for _, sev := range models.Severities {
		if n := s.EventsBySeverity[sev]; n > bestCount {
			best, bestCount = sev, n
		}
	}
	return best
}

// HighSeverityEventPercentage is the share of SEVERE and CRITICAL events,
// zero when there are no events.
func (s DashboardSummary) HighSeverityEventPercentage() float64 {
	if s.TotalEvents == 0 {
		return 0
	}
	high := s.EventsBySeverity[models.SeveritySevere] + s.EventsBySeverity[models.SeverityCritical]
	return float64(high) / float64(s.TotalEvents) * 100
}
