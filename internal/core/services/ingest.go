// Package services contains the core orchestration logic.
package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/float-ritual-stack/floatd/internal/chunker"
	"github.com/float-ritual-stack/floatd/internal/classifier"
	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/core/ports/driven"
	"github.com/float-ritual-stack/floatd/internal/core/ports/driving"
	"github.com/float-ritual-stack/floatd/internal/dedup"
	"github.com/float-ritual-stack/floatd/internal/disgen"
	"github.com/float-ritual-stack/floatd/internal/logger"
	"github.com/float-ritual-stack/floatd/internal/patterns"
	"github.com/float-ritual-stack/floatd/internal/routing"
)

var _ driving.Ingestor = (*IngestService)(nil)

var log = logger.Named("ingest")

// extractor is what the service needs from the extractor registry.
type extractor interface {
	Supports(path string) bool
	Extract(ctx context.Context, path string) (string, error)
}

// IngestService runs the full pipeline: dedup gate, pattern detection,
// classification, chunking, manifest routing, and record keeping.
type IngestService struct {
	settings   domain.Settings
	store      driven.StateStore
	sink       driven.CollectionStore
	source     driven.FileSource
	extractor  extractor
	summarizer driven.Summarizer

	detector   *patterns.Detector
	classifier *classifier.Classifier
	chunker    *chunker.Chunker
	gate       *dedup.Gate
	builder    *routing.Builder
	notes      *disgen.Generator

	now   func() time.Time
	runID string

	mu         sync.RWMutex
	processed  int
	skipped    int
	failed     int
	inFlight   int
	lastError  string
	lastOutput string
}

// Option configures an IngestService.
type Option func(*IngestService)

// WithSummarizer attaches an optional summarizer for sidecar notes.
func WithSummarizer(s driven.Summarizer) Option {
	return func(svc *IngestService) { svc.summarizer = s }
}

// WithNotes enables sidecar note writing.
func WithNotes(g *disgen.Generator) Option {
	return func(svc *IngestService) { svc.notes = g }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(svc *IngestService) { svc.now = now }
}

// NewIngestService creates the service. source may be nil when the service
// is only used for one-shot processing.
func NewIngestService(
	settings domain.Settings,
	store driven.StateStore,
	sink driven.CollectionStore,
	source driven.FileSource,
	ext extractor,
	opts ...Option,
) *IngestService {
	svc := &IngestService{
		settings:   settings,
		store:      store,
		sink:       sink,
		source:     source,
		extractor:  ext,
		detector:   patterns.NewDetector(),
		classifier: classifier.New(settings.Thresholds, settings.Collections),
		chunker:    chunker.New(settings.Chunks),
		builder:    routing.NewBuilder(settings.Collections),
		now:        time.Now,
		runID:      uuid.NewString(),
	}
	svc.gate = dedup.NewGate(store, dedup.WithClock(func() time.Time { return svc.now() }))
	for _, o := range opts {
		o(svc)
	}
	return svc
}

// Classify runs detection and classification without touching the state
// store. Used by the one-shot CLI path and by ProcessFile.
func (s *IngestService) Classify(ctx context.Context, item *domain.ContentItem) (*domain.RoutingDecision, *domain.SignalProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	matches, err := s.detector.Detect(item)
	if err != nil {
		return nil, nil, err
	}
	profile := patterns.BuildProfile(item.Text, matches, s.settings.Thresholds)
	decision, err := s.classifier.Classify(profile)
	if err != nil {
		return nil, nil, err
	}
	return decision, profile, nil
}

// PlanChunks produces the chunk plans an item routes under: one plan per
// routed domain, or a single concept-sized plan for ambiguous content.
func (s *IngestService) PlanChunks(item *domain.ContentItem, decision *domain.RoutingDecision) ([]domain.ChunkPlan, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if decision == nil {
		return nil, fmt.Errorf("plan chunks: %w: nil decision", domain.ErrInvalidInput)
	}

	matches := s.detector.DetectText(item.Text)

	targets := decision.Routes()
	if decision.Ambiguous {
		targets = []domain.Domain{domain.DomainConcept}
	}

	plans := make([]domain.ChunkPlan, 0, len(targets))
	for _, d := range targets {
		plan, err := s.chunker.Plan(item.Text, d, matches)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// ProcessFile runs the full pipeline for one file.
func (s *IngestService) ProcessFile(ctx context.Context, path string) (*driving.ProcessResult, error) {
	s.track(+1)
	defer s.track(-1)

	result, err := s.processFile(ctx, path)

	s.mu.Lock()
	switch {
	case err != nil:
		s.failed++
		s.lastError = err.Error()
	case result.Skipped:
		s.skipped++
		s.lastOutput = fmt.Sprintf("skipped %s (%s)", path, result.SkipReason)
	default:
		s.processed++
		s.lastOutput = fmt.Sprintf("processed %s -> %s (%d entries)", path, result.FloatID, len(result.Entries))
	}
	s.mu.Unlock()

	return result, err
}

func (s *IngestService) processFile(ctx context.Context, path string) (*driving.ProcessResult, error) {
	if !s.extractor.Supports(path) {
		return nil, fmt.Errorf("process %s: %w", path, domain.ErrUnsupportedType)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", path, err)
	}

	item := &domain.ContentItem{
		SourcePath: path,
		Size:       info.Size(),
		ModTime:    info.ModTime(),
	}

	// Stage one works from the stat alone. A restart rescan of an already
	// handled dropzone must not re-read every file.
	verdict, err := s.gate.CheckFingerprint(ctx, item)
	if err != nil {
		return nil, err
	}
	if verdict.Skip {
		log.Info("skipping %s: %s", path, verdict.Reason)
		return &driving.ProcessResult{
			FloatID:    verdict.FloatID,
			Skipped:    true,
			SkipReason: verdict.Reason,
		}, nil
	}

	item.Text, err = s.extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", path, err)
	}

	verdict, err = s.gate.CheckContent(ctx, item)
	if err != nil {
		return nil, err
	}
	if verdict.Skip {
		if err := s.gate.RememberSkip(ctx, item, verdict); err != nil {
			return nil, err
		}
		log.Info("skipping %s: %s", path, verdict.Reason)
		return &driving.ProcessResult{
			FloatID:    verdict.FloatID,
			Skipped:    true,
			SkipReason: verdict.Reason,
		}, nil
	}

	decision, profile, err := s.Classify(ctx, item)
	if err != nil {
		return nil, err
	}

	plans, err := s.PlanChunks(item, decision)
	if err != nil {
		return nil, err
	}

	matches := s.detector.DetectText(item.Text)
	entries, err := s.builder.Build(verdict.FloatID, path, decision, plans, matches)
	if err != nil {
		return nil, err
	}

	// A file deleted mid-classification counts as a retracted drop; nothing
	// is stored for it.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("process %s: file removed before routing: %w", path, err)
	}

	if err := s.sink.StoreBatch(ctx, entries); err != nil {
		return nil, fmt.Errorf("process %s: storing manifest: %w", path, err)
	}

	rec := &domain.ProcessingRecord{
		FingerprintKey: item.Fingerprint().Key(),
		ContentHash:    verdict.ContentHash,
		FloatID:        verdict.FloatID,
		SourcePath:     path,
		ProcessedAt:    s.now(),
		Status:         domain.StatusCompleted,
	}
	if err := s.store.Record(ctx, rec); err != nil {
		return nil, fmt.Errorf("process %s: recording: %w", path, err)
	}

	s.writeNote(ctx, item, verdict.FloatID, decision, profile, plans)

	log.Info("processed %s: %s -> %s", path, verdict.FloatID, decision.Primary)
	return &driving.ProcessResult{
		FloatID:  verdict.FloatID,
		Decision: decision,
		Entries:  entries,
	}, nil
}

// writeNote renders the sidecar. Note failures never fail the pipeline; the
// content is already routed and recorded.
func (s *IngestService) writeNote(
	ctx context.Context,
	item *domain.ContentItem,
	floatID domain.FloatID,
	decision *domain.RoutingDecision,
	profile *domain.SignalProfile,
	plans []domain.ChunkPlan,
) {
	if s.notes == nil {
		return
	}

	summary := ""
	if s.summarizer != nil {
		sctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		var err error
		summary, err = s.summarizer.Summarize(sctx, item.Text)
		if err != nil {
			log.Warn("summarizer: %v", err)
			summary = ""
		}
	}
	if summary == "" {
		summary = basicSummary(item.Text)
	}

	chunkCount := 0
	if len(plans) > 0 {
		chunkCount = len(plans[0].Chunks)
	}
	if err := s.notes.Write(item, floatID, decision, profile, chunkCount, summary, s.now()); err != nil {
		log.Warn("sidecar note: %v", err)
	}
}

// basicSummary is the fallback note summary when no summarizer is
// configured: the first substantial line plus word and line counts.
func basicSummary(text string) string {
	lines := strings.Split(text, "\n")
	first := ""
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if len(t) >= 10 {
			first = t
			break
		}
	}
	if len(first) > 120 {
		first = first[:120] + "..."
	}
	words := len(strings.Fields(text))
	if first == "" {
		return fmt.Sprintf("%d words, %d lines", words, len(lines))
	}
	return fmt.Sprintf("%s (%d words, %d lines)", first, words, len(lines))
}

// Run watches the dropzone and processes events with a bounded worker pool
// until ctx is cancelled.
func (s *IngestService) Run(ctx context.Context) error {
	if s.source == nil {
		return fmt.Errorf("run: %w: no file source configured", domain.ErrInvalidInput)
	}

	events, err := s.source.Watch(ctx)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	logger.Section("floatd watching")
	log.Info("run %s: watching %s with %d workers", s.runID, s.settings.Dropzone, s.settings.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.settings.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ev := range events {
				if _, err := s.ProcessFile(ctx, ev.Path); err != nil {
					log.Error("processing %s: %v", ev.Path, err)
				}
			}
		}()
	}
	wg.Wait()
	return ctx.Err()
}

// Status returns a snapshot of the service counters.
func (s *IngestService) Status() driving.RunStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return driving.RunStatus{
		RunID:      s.runID,
		Watching:   s.settings.Dropzone,
		Processed:  s.processed,
		Skipped:    s.skipped,
		Failed:     s.failed,
		InFlight:   s.inFlight,
		LastError:  s.lastError,
		LastOutput: s.lastOutput,
	}
}

func (s *IngestService) track(delta int) {
	s.mu.Lock()
	s.inFlight += delta
	s.mu.Unlock()
}
