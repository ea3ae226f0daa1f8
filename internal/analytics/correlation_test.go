package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/models"
)

func namedMedication(name string) models.Medication {
	return models.Medication{ID: uuid.New(), Name: name, StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Two dosages at T0 and T0+12h with one symptom at T0+2h: the event is
// credited to the T0 dose and correlation is 50%.
func TestAnalyzeCorrelationCreditsNearestPrecedingDosage(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	med := namedMedication("Lamotrigine")
	dosages := []models.DosageRecord{
		{MedicationID: med.ID, AdministrationTime: t0, Administered: true},
		{MedicationID: med.ID, AdministrationTime: t0.Add(12 * time.Hour), Administered: true},
	}
	events := []models.MedicalEvent{
		{EventTime: t0.Add(2 * time.Hour), Category: models.CategorySymptom, Severity: models.SeverityMild},
	}

	res := AnalyzeCorrelation(med, dosages, events)
	if res.TotalDosages != 2 {
		t.Fatalf("expected 2 dosages, got %d", res.TotalDosages)
	}
	if res.EventsAfterDosage != 1 {
		t.Fatalf("expected 1 credited event, got %d", res.EventsAfterDosage)
	}
	if res.CorrelationPercentage != 50.0 {
		t.Fatalf("expected 50%%, got %f", res.CorrelationPercentage)
	}
	if res.EventsByCategory[models.CategorySymptom] != 1 {
		t.Fatalf("expected credited symptom tally of 1, got %v", res.EventsByCategory)
	}
}

func TestAnalyzeCorrelationEmptyInputs(t *testing.T) {
	med := namedMedication("Keppra")
	res := AnalyzeCorrelation(med, nil, nil)
	if res.TotalDosages != 0 || res.EventsAfterDosage != 0 {
		t.Fatalf("expected zero counts, got %+v", res)
	}
	if res.CorrelationPercentage != 0 || res.CorrelationStrength != 0 {
		t.Fatalf("expected zero percentage and strength, got %+v", res)
	}
	if res.RiskLevel() != RiskLow {
		t.Fatalf("expected LOW risk on empty data, got %s", res.RiskLevel())
	}
}

func TestAnalyzeCorrelationIgnoresUnadministeredDosages(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	med := namedMedication("Topiramate")
	dosages := []models.DosageRecord{
		{AdministrationTime: t0, Administered: false},
	}
	events := []models.MedicalEvent{
		{EventTime: t0.Add(time.Hour), Category: models.CategorySymptom, Severity: models.SeverityMild},
	}

	res := AnalyzeCorrelation(med, dosages, events)
	if res.TotalDosages != 0 || res.EventsAfterDosage != 0 {
		t.Fatalf("skipped dose must not count or be credited: %+v", res)
	}
}

func TestCreditEventsSingleCreditPerEvent(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	// Both windows contain the event; only the nearer (later) dose is credited.
	dosages := []models.DosageRecord{
		{AdministrationTime: t0, Administered: true},
		{AdministrationTime: t0.Add(6 * time.Hour), Administered: true},
	}
	events := []models.MedicalEvent{
		{EventTime: t0.Add(8 * time.Hour), Category: models.CategorySymptom},
	}

	credited := CreditEvents(dosages, events)
	if len(credited) != 1 {
		t.Fatalf("one event must be credited exactly once, got %d", len(credited))
	}
}

func TestCreditEventsOutsideLookahead(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	dosages := []models.DosageRecord{
		{AdministrationTime: t0, Administered: true},
	}
	cases := []struct {
		name     string
		at       time.Time
		credited bool
	}{
		{"before dose", t0.Add(-time.Minute), false},
		{"at dose time", t0, true},
		{"at window edge", t0.Add(Lookahead), true},
		{"past window", t0.Add(Lookahead + time.Second), false},
	}
	for _, tc := range cases {
		got := CreditEvents(dosages, []models.MedicalEvent{{EventTime: tc.at}})
		if (len(got) == 1) != tc.credited {
			t.Fatalf("%s: credited=%v, want %v", tc.name, len(got) == 1, tc.credited)
		}
	}
}

// An event landing past the nearest dose's window is not rescued by an
// earlier dose whose window has also expired.
func TestCreditEventsNearestWindowOnly(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	dosages := []models.DosageRecord{
		{AdministrationTime: t0, Administered: true},
		{AdministrationTime: t0.Add(30 * time.Hour), Administered: true},
	}
	events := []models.MedicalEvent{
		{EventTime: t0.Add(60 * time.Hour), Category: models.CategorySymptom},
	}
	if got := CreditEvents(dosages, events); len(got) != 0 {
		t.Fatalf("expected no credit, got %d", len(got))
	}
}

func TestCorrelationPercentageClamped(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	med := namedMedication("Valproate")
	dosages := []models.DosageRecord{
		{AdministrationTime: t0, Administered: true},
	}
	// Three events credited to one dose: raw ratio is 300%.
	events := []models.MedicalEvent{
		{EventTime: t0.Add(1 * time.Hour), Category: models.CategorySymptom},
		{EventTime: t0.Add(2 * time.Hour), Category: models.CategorySymptom},
		{EventTime: t0.Add(3 * time.Hour), Category: models.CategoryAdverseReaction},
	}

	res := AnalyzeCorrelation(med, dosages, events)
	if res.CorrelationPercentage != 100.0 {
		t.Fatalf("expected clamp to 100, got %f", res.CorrelationPercentage)
	}
	sum := 0
	for _, n := range res.EventsByCategory {
		sum += n
	}
	if sum != res.EventsAfterDosage {
		t.Fatalf("category tally %d does not sum to credited events %d", sum, res.EventsAfterDosage)
	}
}

func TestCorrelationStrengthMonotonic(t *testing.T) {
	// Non-decreasing in percentage with dosage count fixed.
	prev := -1.0
	for pct := 0.0; pct <= 100; pct += 10 {
		s := correlationStrength(pct, 5)
		if s < prev {
			t.Fatalf("strength decreased at pct=%f: %f < %f", pct, s, prev)
		}
		prev = s
	}

	// Non-decreasing in dosage count with percentage fixed.
	prev = -1.0
	for n := 0; n <= 20; n++ {
		s := correlationStrength(80, n)
		if s < prev {
			t.Fatalf("strength decreased at n=%d: %f < %f", n, s, prev)
		}
		prev = s
	}

	// A single dosage cannot reach full strength.
	if s := correlationStrength(100, 1); s >= 1.0 {
		t.Fatalf("single dosage must not produce strength 1.0, got %f", s)
	}
	if s := correlationStrength(100, 10); s != 1.0 {
		t.Fatalf("saturated sample at full percentage should be 1.0, got %f", s)
	}
}

func TestRiskLevelBands(t *testing.T) {
	cases := []struct {
		strength float64
		want     RiskLevel
	}{
		{0.85, RiskCritical},
		{0.8, RiskCritical},
		{0.7, RiskHigh},
		{0.5, RiskModerate},
		{0.39, RiskLow},
		{0, RiskLow},
	}
	for _, tc := range cases {
		if got := RiskLevelFor(tc.strength); got != tc.want {
			t.Fatalf("RiskLevelFor(%f) = %s, want %s", tc.strength, got, tc.want)
		}
	}
}
