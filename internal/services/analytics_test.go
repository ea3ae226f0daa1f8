package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/analytics"
	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/models"
)

type sourceStub struct {
	medications []models.Medication
	dosages     map[uuid.UUID][]models.DosageRecord
	events      []models.MedicalEvent
	failFetch   error
}

func (s *sourceStub) FetchDosages(ctx context.Context, patientID uuid.UUID, medicationID *uuid.UUID, w analytics.Window) ([]models.DosageRecord, error) {
	if s.failFetch != nil {
		return nil, s.failFetch
	}
	if medicationID == nil {
		var all []models.DosageRecord
		for _, d := range s.dosages {
			all = append(all, d...)
		}
		return all, nil
	}
	return s.dosages[*medicationID], nil
}

func (s *sourceStub) FetchEvents(ctx context.Context, patientID uuid.UUID, medicationID *uuid.UUID, w analytics.Window) ([]models.MedicalEvent, error) {
	if s.failFetch != nil {
		return nil, s.failFetch
	}
	return s.events, nil
}

func (s *sourceStub) GetMedication(ctx context.Context, id uuid.UUID) (*models.Medication, error) {
	for _, m := range s.medications {
		if m.ID == id {
			med := m
			return &med, nil
		}
	}
	return nil, nil
}

func (s *sourceStub) ListMedications(ctx context.Context, patientID uuid.UUID) ([]models.Medication, error) {
	return s.medications, nil
}

func newTestService(stub *sourceStub) *AnalyticsService {
	return NewAnalyticsService(zap.NewNop(), stub)
}

func TestCorrelationUnknownMedicationYieldsZeroResult(t *testing.T) {
	svc := newTestService(&sourceStub{dosages: map[uuid.UUID][]models.DosageRecord{}})

	res, err := svc.Correlation(context.Background(), uuid.New(), uuid.New(), analytics.Window{})
	if err != nil {
		t.Fatalf("unknown medication must not fail: %v", err)
	}
	if res.TotalDosages != 0 || res.CorrelationPercentage != 0 || res.CorrelationStrength != 0 {
		t.Fatalf("expected zero-valued result, got %+v", res)
	}
}

func TestCorrelationInvalidWindow(t *testing.T) {
	svc := newTestService(&sourceStub{})
	now := time.Now()
	earlier := now.Add(-time.Hour)

	_, err := svc.Correlation(context.Background(), uuid.New(), uuid.New(), analytics.Between(now, earlier))
	if !errors.Is(err, analytics.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestCorrelationBatchOrdersByStrength(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	strong := models.Medication{ID: uuid.New(), Name: "Strong", StartDate: t0}
	weak := models.Medication{ID: uuid.New(), Name: "Weak", StartDate: t0}

	stub := &sourceStub{
		medications: []models.Medication{weak, strong},
		dosages: map[uuid.UUID][]models.DosageRecord{
			strong.ID: {
				{MedicationID: strong.ID, AdministrationTime: t0, Administered: true},
				{MedicationID: strong.ID, AdministrationTime: t0.Add(48 * time.Hour), Administered: true},
			},
			weak.ID: {
				{MedicationID: weak.ID, AdministrationTime: t0.Add(200 * time.Hour), Administered: true},
			},
		},
		events: []models.MedicalEvent{
			{EventTime: t0.Add(time.Hour), Category: models.CategorySymptom, Severity: models.SeverityMild},
			{EventTime: t0.Add(49 * time.Hour), Category: models.CategorySymptom, Severity: models.SeverityMild},
		},
	}
	svc := newTestService(stub)

	results, err := svc.CorrelationBatch(context.Background(), uuid.New(), analytics.Window{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].MedicationName != "Strong" || results[1].MedicationName != "Weak" {
		t.Fatalf("expected strength-descending order, got %s then %s", results[0].MedicationName, results[1].MedicationName)
	}
	if results[0].CorrelationStrength <= results[1].CorrelationStrength {
		t.Fatalf("ordering does not match strengths: %f vs %f", results[0].CorrelationStrength, results[1].CorrelationStrength)
	}
}

func TestCorrelationBatchPropagatesFetchErrors(t *testing.T) {
	boom := errors.New("connection reset")
	med := models.Medication{ID: uuid.New(), Name: "Keppra"}
	svc := newTestService(&sourceStub{medications: []models.Medication{med}, failFetch: boom})

	_, err := svc.CorrelationBatch(context.Background(), uuid.New(), analytics.Window{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
}

func TestTimelineMergesBothStreams(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	med := models.Medication{ID: uuid.New(), Name: "Keppra"}
	stub := &sourceStub{
		dosages: map[uuid.UUID][]models.DosageRecord{
			med.ID: {{MedicationID: med.ID, AdministrationTime: t0, Amount: 500, Unit: "mg", Administered: true}},
		},
		events: []models.MedicalEvent{
			{EventTime: t0.Add(time.Hour), Title: "Dizziness", Category: models.CategorySymptom, Severity: models.SeverityMild},
		},
	}
	svc := newTestService(stub)

	tl, err := svc.Timeline(context.Background(), uuid.New(), analytics.Window{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tl) != 2 || tl[0].Kind != analytics.KindDosage || tl[1].Kind != analytics.KindEvent {
		t.Fatalf("unexpected timeline: %+v", tl)
	}
}

func TestDashboardEmptyPatient(t *testing.T) {
	svc := newTestService(&sourceStub{})

	summary, err := svc.Dashboard(context.Background(), uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalEvents != 0 || summary.TotalDosages != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}

func TestImpactInvalidWindow(t *testing.T) {
	svc := newTestService(&sourceStub{})
	now := time.Now()

	_, err := svc.Impact(context.Background(), uuid.New(), uuid.New(), now, now.Add(-time.Hour))
	if !errors.Is(err, analytics.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}
