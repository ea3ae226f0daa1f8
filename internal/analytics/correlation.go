package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/models"
)

// Lookahead is the fixed window after an administered dosage during which a
// medical event is considered associated with it. Kept as a constant, not
// configuration: the clinical assumption is documented, not tunable.
const Lookahead = 24 * time.Hour

// confidenceSampleSize is the dosage count at which the sample-size
// confidence factor saturates at 1.0.
const confidenceSampleSize = 10.0

// RiskLevel is the presentation banding of a correlation strength.
type RiskLevel string

const (
	RiskCritical RiskLevel = "CRITICAL"
	RiskHigh     RiskLevel = "HIGH"
	RiskModerate RiskLevel = "MODERATE"
	RiskLow      RiskLevel = "LOW"
)

// RiskLevelFor bands a correlation strength in [0,1].
func RiskLevelFor(strength float64) RiskLevel {
	switch {
	case strength >= 0.8:
		return RiskCritical
	case strength >= 0.6:
		return RiskHigh
	case strength >= 0.4:
		return RiskModerate
	default:
		return RiskLow
	}
}

// CorrelationResult quantifies how often a medication's administration was
// followed by a qualifying medical event within the lookahead window.
// Computed fresh on every call, never persisted.
type CorrelationResult struct {
	MedicationID          uuid.UUID               `json:"medicationId"`
	MedicationName        string                  `json:"medicationName"`
	TotalDosages          int                     `json:"totalDosages"`
	EventsAfterDosage     int                     `json:"eventsAfterDosage"`
	CorrelationPercentage float64                 `json:"correlationPercentage"`
	CorrelationStrength   float64                 `json:"correlationStrength"`
	EventsByCategory      map[models.Category]int `json:"eventsByCategory"`
	EventsBySeverity      map[models.Severity]int `json:"eventsBySeverity"`
	GeneratedAt           time.Time               `json:"generatedAt"`
}

// RiskLevel bands the result's strength for presentation.
func (r CorrelationResult) RiskLevel() RiskLevel {
	return RiskLevelFor(r.CorrelationStrength)
}

// AnalyzeCorrelation measures the temporal association between a medication's
// administered dosages and the patient's medical events. Dosages should
// already be the medication's own records for the analysis range; events are
// the patient's full event list. Empty inputs yield a zero-valued result.
func AnalyzeCorrelation(med models.Medication, dosages []models.DosageRecord, events []models.MedicalEvent) CorrelationResult {
	credited := CreditEvents(dosages, events)

	total := administeredCount(dosages)
	pct := 0.0
	if total > 0 {
		pct = clamp(float64(len(credited))/float64(total)*100, 0, 100)
	}

	result := CorrelationResult{
		MedicationID:          med.ID,
		MedicationName:        med.Name,
		TotalDosages:          total,
		EventsAfterDosage:     len(credited),
		CorrelationPercentage: pct,
		CorrelationStrength:   correlationStrength(pct, total),
		EventsByCategory:      tallyCategories(credited),
		EventsBySeverity:      tallySeverities(credited),
		GeneratedAt:           time.Now().UTC(),
	}
	return result
}

// correlationStrength scales the percentage into [0,1] and discounts it by a
// sample-size confidence factor so a single dosage cannot yield strength 1.0.
func correlationStrength(pct float64, totalDosages int) float64 {
	if totalDosages <= 0 {
		return 0
	}
	scaled := minFloat(pct/100, 1.0)
	confidence := minFloat(float64(totalDosages)/confidenceSampleSize, 1.0)
	return scaled * confidence
}

// CreditEvents attributes each event to at most one administered dosage: the
// nearest preceding dosage (latest administration time not after the event)
// whose lookahead window still contains the event. On identical
// administration timestamps the earliest record in input order wins. The
// returned slice preserves the events' input order.
func CreditEvents(dosages []models.DosageRecord, events []models.MedicalEvent) []models.MedicalEvent {
	administered := make([]models.DosageRecord, 0, len(dosages))
	for _, d := range dosages {
		if d.Administered {
			administered = append(administered, d)
		}
	}
	if len(administered) == 0 || len(events) == 0 {
		return nil
	}
	sort.SliceStable(administered, func(i, j int) bool {
		return administered[i].AdministrationTime.Before(administered[j].AdministrationTime)
	})

	var credited []models.MedicalEvent
	for _, e := range events {
		best := -1
		for i, d := range administered {
			if d.AdministrationTime.After(e.EventTime) {
				break
			}
			// Strict comparison keeps the first record on equal timestamps.
			if best == -1 || d.AdministrationTime.After(administered[best].AdministrationTime) {
				best = i
			}
		}
		if best == -1 {
			continue
		}
		deadline := administered[best].AdministrationTime.Add(Lookahead)
		if !e.EventTime.After(deadline) {
			credited = append(credited, e)
		}
	}
	return credited
}

func administeredCount(dosages []models.DosageRecord) int {
	n := 0
	for _, d := range dosages {
		if d.Administered {
			n++
		}
	}
	return n
}

func tallyCategories(events []models.MedicalEvent) map[models.Category]int {
	tally := make(map[models.Category]int)
	for _, e := range events {
		tally[e.Category]++
	}
	return tally
}

func tallySeverities(events []models.MedicalEvent) map[models.Severity]int {
	tally := make(map[models.Severity]int)
	for _, e := range events {
		tally[e.Severity]++
	}
	return tally
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
