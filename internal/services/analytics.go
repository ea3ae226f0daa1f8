package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/analytics"
	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/metrics"
	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/models"
)

// RecordSource is the persistence collaborator supplying raw record lists.
// Analytics never reaches the database directly.
type RecordSource interface {
	FetchDosages(ctx context.Context, patientID uuid.UUID, medicationID *uuid.UUID, w analytics.Window) ([]models.DosageRecord, error)
	FetchEvents(ctx context.Context, patientID uuid.UUID, medicationID *uuid.UUID, w analytics.Window) ([]models.MedicalEvent, error)
	GetMedication(ctx context.Context, id uuid.UUID) (*models.Medication, error)
	ListMedications(ctx context.Context, patientID uuid.UUID) ([]models.Medication, error)
}

// AnalyticsService wires the record source to the pure analytics components.
// It holds no per-patient state; concurrent calls do not interact.
type AnalyticsService struct {
	log    *zap.Logger
	source RecordSource
}

func NewAnalyticsService(log *zap.Logger, source RecordSource) *AnalyticsService {
	return &AnalyticsService{log: log, source: source}
}

// Correlation analyzes one medication's temporal association with the
// patient's events inside the window. An unknown medication id behaves like
// an empty record set and yields a zero-valued result.
func (s *AnalyticsService) Correlation(ctx context.Context, patientID, medicationID uuid.UUID, w analytics.Window) (*analytics.CorrelationResult, error) {
	start := time.Now()
	result, err := s.correlation(ctx, patientID, medicationID, w)
	metrics.ObserveAnalysis("correlation", time.Since(start), outcome(err))
	return result, err
}

func (s *AnalyticsService) correlation(ctx context.Context, patientID, medicationID uuid.UUID, w analytics.Window) (*analytics.CorrelationResult, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	med, err := s.medication(ctx, medicationID)
	if err != nil {
		return nil, err
	}

	dosages, err := s.source.FetchDosages(ctx, patientID, &medicationID, w)
	if err != nil {
		return nil, err
	}
	events, err := s.source.FetchEvents(ctx, patientID, nil, w)
	if err != nil {
		return nil, err
	}

	result := analytics.AnalyzeCorrelation(med, dosages, events)
	s.log.Debug("correlation computed",
		zap.String("patientID", patientID.String()),
		zap.String("medication", med.Name),
		zap.Int("dosages", result.TotalDosages),
		zap.Float64("percentage", result.CorrelationPercentage),
	)
	return &result, nil
}

// CorrelationBatch runs the correlation analysis for every one of the
// patient's medications in parallel. Each analysis reads its own dosage
// subset and the shared read-only event list, so no synchronization beyond
// the join is needed. Results are ordered by descending strength.
func (s *AnalyticsService) CorrelationBatch(ctx context.Context, patientID uuid.UUID, w analytics.Window) ([]analytics.CorrelationResult, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	meds, err := s.source.ListMedications(ctx, patientID)
	if err != nil {
		return nil, err
	}
	events, err := s.source.FetchEvents(ctx, patientID, nil, w)
	if err != nil {
		return nil, err
	}

	results := make([]analytics.CorrelationResult, len(meds))
	errs := make([]error, len(meds))
	var wg sync.WaitGroup
	for i, med := range meds {
		wg.Add(1)
		go func(i int, med models.Medication) {
			defer wg.Done()
			medID := med.ID
			dosages, err := s.source.FetchDosages(ctx, patientID, &medID, w)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = analytics.AnalyzeCorrelation(med, dosages, events)
		}(i, med)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("correlation batch: %w", err)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].CorrelationStrength == results[j].CorrelationStrength {
			return results[i].MedicationName < results[j].MedicationName
		}
		return results[i].CorrelationStrength > results[j].CorrelationStrength
	})
	return results, nil
}

// Timeline merges the patient's dosages and events inside the window into one
// chronological sequence.
func (s *AnalyticsService) Timeline(ctx context.Context, patientID uuid.UUID, w analytics.Window) (analytics.Timeline, error) {
	start := time.Now()
	tl, err := s.timeline(ctx, patientID, w)
	metrics.ObserveAnalysis("timeline", time.Since(start), outcome(err))
	return tl, err
}

func (s *AnalyticsService) timeline(ctx context.Context, patientID uuid.UUID, w analytics.Window) (analytics.Timeline, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	dosages, err := s.source.FetchDosages(ctx, patientID, nil, w)
	if err != nil {
		return nil, err
	}
	events, err := s.source.FetchEvents(ctx, patientID, nil, w)
	if err != nil {
		return nil, err
	}
	return analytics.BuildTimeline(dosages, events), nil
}

// Dashboard rolls up the patient's full record set as of the supplied time.
func (s *AnalyticsService) Dashboard(ctx context.Context, patientID uuid.UUID, asOf time.Time) (*analytics.DashboardSummary, error) {
	start := time.Now()
	summary, err := s.dashboard(ctx, patientID, asOf)
	metrics.ObserveAnalysis("dashboard", time.Since(start), outcome(err))
	return summary, err
}

func (s *AnalyticsService) dashboard(ctx context.Context, patientID uuid.UUID, asOf time.Time) (*analytics.DashboardSummary, error) {
	dosages, err := s.source.FetchDosages(ctx, patientID, nil, analytics.Window{})
	if err != nil {
		return nil, err
	}
	events, err := s.source.FetchEvents(ctx, patientID, nil, analytics.Window{})
	if err != nil {
		return nil, err
	}
	summary := analytics.Summarize(patientID, events, dosages, asOf)
	return &summary, nil
}

// Impact runs the before/after impact analysis for one medication across
// [windowStart, windowEnd].
func (s *AnalyticsService) Impact(ctx context.Context, patientID, medicationID uuid.UUID, windowStart, windowEnd time.Time) (*analytics.ImpactAnalysis, error) {
	start := time.Now()
	a, err := s.impact(ctx, patientID, medicationID, windowStart, windowEnd)
	metrics.ObserveAnalysis("impact", time.Since(start), outcome(err))
	return a, err
}

func (s *AnalyticsService) impact(ctx context.Context, patientID, medicationID uuid.UUID, windowStart, windowEnd time.Time) (*analytics.ImpactAnalysis, error) {
	w := analytics.Between(windowStart, windowEnd)
	if err := w.Validate(); err != nil {
		return nil, err
	}
	med, err := s.medication(ctx, medicationID)
	if err != nil {
		return nil, err
	}

	dosages, err := s.source.FetchDosages(ctx, patientID, &medicationID, w)
	if err != nil {
		return nil, err
	}
	events, err := s.source.FetchEvents(ctx, patientID, nil, w)
	if err != nil {
		return nil, err
	}

	analysis, err := analytics.AnalyzeImpact(med, dosages, events, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

// medication resolves the medication record. A missing row is treated like an
// empty record set: the analysis proceeds with a bare id and comes back
// zero-valued, since "no data yet" and "unknown id" are indistinguishable
// here by design.
func (s *AnalyticsService) medication(ctx context.Context, id uuid.UUID) (models.Medication, error) {
	med, err := s.source.GetMedication(ctx, id)
	if err != nil {
		return models.Medication{}, err
	}
	if med == nil {
		s.log.Debug("medication not found, analyzing as empty record set", zap.String("medicationID", id.String()))
		return models.Medication{ID: id}, nil
	}
	return *med, nil
}

func outcome(err error) string {
	if err != nil {
		return metrics.OutcomeError
	}
	return metrics.OutcomeSuccess
}
