package analytics

import (
	"time"

	"github.com/google/uuid"

	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/models"
)

// Labels for weekly trend buckets, relative to the medication's start date.
// The before/after split is the clinically meaningful one, so the buckets are
// labeled against it rather than by calendar week.
const (
	TrendBeforeMedication = "before_medication"
	TrendAfterMedication  = "after_medication"
)

const (
	trendBucket = 7 * 24 * time.Hour

	// Weights of the effectiveness score components.
	reductionWeight = 0.6
	adverseWeight   = 0.4
)

// EffectivenessRating is the presentation banding of an effectiveness score.
type EffectivenessRating string

const (
	EffectivenessExcellent   EffectivenessRating = "EXCELLENT"
	EffectivenessGood        EffectivenessRating = "GOOD"
	EffectivenessModerate    EffectivenessRating = "MODERATE"
	EffectivenessPoor        EffectivenessRating = "POOR"
	EffectivenessIneffective EffectivenessRating = "INEFFECTIVE"
)

// EffectivenessRatingFor bands an effectiveness score in [0,1].
func EffectivenessRatingFor(score float64) EffectivenessRating {
	switch {
	case score >= 0.8:
		return EffectivenessExcellent
	case score >= 0.6:
		return EffectivenessGood
	case score >= 0.4:
		return EffectivenessModerate
	case score >= 0.2:
		return EffectivenessPoor
	default:
		return EffectivenessIneffective
	}
}

// WeeklyTrend is one 7-day bucket of credited events, labeled relative to the
// medication's start date.
type WeeklyTrend struct {
	WeekIndex  int       `json:"weekIndex"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Label      string    `json:"label"`
	EventCount int       `json:"eventCount"`
}

// ImpactAnalysis measures whether a medication changed event frequency and
// severity across an analysis window. Computed fresh on every call.
type ImpactAnalysis struct {
	MedicationID               uuid.UUID     `json:"medicationId"`
	MedicationName             string        `json:"medicationName"`
	WindowStart                time.Time     `json:"windowStart"`
	WindowEnd                  time.Time     `json:"windowEnd"`
	TotalDosages               int           `json:"totalDosages"`
	EventsWithin24Hours        int           `json:"eventsWithin24Hours"`
	EventRatePercentage        float64       `json:"eventRatePercentage"`
	SymptomEvents              int           `json:"symptomEvents"`
	AdverseReactionEvents      int           `json:"adverseReactionEvents"`
	SymptomReductionPercentage float64       `json:"symptomReductionPercentage"`
	EffectivenessScore         float64       `json:"effectivenessScore"`
	WeeklyTrends               []WeeklyTrend `json:"weeklyTrends"`
	GeneratedAt                time.Time     `json:"generatedAt"`
}

// EffectivenessRating bands the analysis score for presentation.
func (a ImpactAnalysis) EffectivenessRating() EffectivenessRating {
	return EffectivenessRatingFor(a.EffectivenessScore)
}

// AnalyzeImpact splits the analysis window around a medication's usage and
// derives symptom-reduction and effectiveness metrics. Dosages and events are
// windowed to [start, end] before crediting, using the same attribution rule
// as the correlation analysis. Empty inputs yield a zero-valued analysis; the
// only error is an inverted window.
func AnalyzeImpact(med models.Medication, dosages []models.DosageRecord, events []models.MedicalEvent, start, end time.Time) (ImpactAnalysis, error) {
	window := Between(start, end)
	windowedDosages, err := SelectDosages(dosages, window)
	if err != nil {
		return ImpactAnalysis{}, err
	}
	windowedEvents, err := SelectEvents(events, window)
	if err != nil {
		return ImpactAnalysis{}, err
	}

	credited := CreditEvents(windowedDosages, windowedEvents)
	total := administeredCount(windowedDosages)

	rate := 0.0
	if total > 0 {
		rate = float64(len(credited)) / float64(total) * 100
	}

	symptoms := 0
	adverse := 0
	for _, e := range credited {
		switch e.Category {
		case models.CategorySymptom:
			symptoms++
		case models.CategoryAdverseReaction:
			adverse++
		}
	}

	reduction := symptomReduction(credited, start, end)

	// Without any administered dosage there is nothing to score; the analysis
	// stays zero-valued rather than reporting the formula's no-change baseline.
	score := 0.0
	if total > 0 {
		score = effectivenessScore(reduction, adverse, len(credited))
	}

	analysis := ImpactAnalysis{
		MedicationID:               med.ID,
		MedicationName:             med.Name,
		WindowStart:                start,
		WindowEnd:                  end,
		TotalDosages:               total,
		EventsWithin24Hours:        len(credited),
		EventRatePercentage:        rate,
		SymptomEvents:              symptoms,
		AdverseReactionEvents:      adverse,
		SymptomReductionPercentage: reduction,
		EffectivenessScore:         score,
		WeeklyTrends:               weeklyTrends(med, credited, start, end),
		GeneratedAt:                time.Now().UTC(),
	}
	return analysis, nil
}

// symptomReduction compares the credited symptom-event rate (events per day)
// of the window's first half against its second half, clamped to [-100, 100].
// A zero first-half rate yields 0 rather than a division error.
func symptomReduction(credited []models.MedicalEvent, start, end time.Time) float64 {
	halfDays := end.Sub(start).Hours() / 24 / 2
	if halfDays <= 0 {
		return 0
	}
	mid := start.Add(end.Sub(start) / 2)

	firstHalf := 0
	secondHalf := 0
	for _, e := range credited {
		if e.Category != models.CategorySymptom {
			continue
		}
		if e.EventTime.Before(mid) {
			firstHalf++
		} else {
			secondHalf++
		}
	}

	firstRate := float64(firstHalf) / halfDays
	secondRate := float64(secondHalf) / halfDays
	if firstRate == 0 {
		return 0
	}
	return clamp((firstRate-secondRate)/firstRate*100, -100, 100)
}

// effectivenessScore combines the normalized symptom reduction (60%) with the
// inverse adverse-reaction rate (40%), both zero-safe, into [0,1].
func effectivenessScore(reduction float64, adverse, credited int) float64 {
	normalized := (reduction + 100) / 200
	adverseRate := 0.0
	if credited > 0 {
		adverseRate = float64(adverse) / float64(credited)
	}
	return clamp(reductionWeight*normalized+adverseWeight*(1-adverseRate), 0, 1)
}

// weeklyTrends buckets the window into 7-day segments from its start and
// counts credited events per bucket. A bucket starting before the
// medication's start date is labeled before_medication, otherwise
// after_medication.
func weeklyTrends(med models.Medication, credited []models.MedicalEvent, start, end time.Time) []WeeklyTrend {
	var trends []WeeklyTrend
	index := 0
	for bucketStart := start; bucketStart.Before(end); bucketStart = bucketStart.Add(trendBucket) {
		bucketEnd := bucketStart.Add(trendBucket)
		last := !bucketEnd.Before(end)
		if last {
			bucketEnd = end
		}

		count := 0
		for _, e := range credited {
			if e.EventTime.Before(bucketStart) {
				continue
			}
			// The final bucket is closed on the right; earlier buckets are
			// half-open so no event lands in two buckets.
			if last {
				if !e.EventTime.After(bucketEnd) {
					count++
				}
			} else if e.EventTime.Before(bucketEnd) {
				count++
			}
		}

		label := TrendAfterMedication
		if bucketStart.Before(med.StartDate) {
			label = TrendBeforeMedication
		}
		trends = append(trends, WeeklyTrend{
			WeekIndex:  index,
			Start:      bucketStart,
			End:        bucketEnd,
			Label:      label,
			EventCount: count,
		})
		index++
	}
	return trends
}
