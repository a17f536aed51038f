package cleaning

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"scrub/internal/logging"
	"scrub/internal/services"
	"scrub/internal/textutil"
	"scrub/internal/transcript"
)

// Backend submits one prompt pair to the external service and returns the
// raw response text. Both service clients satisfy this.
type Backend interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Drift guard bounds: a statement whose cleaned text shares almost no
// vocabulary with its original was rewritten, not cleaned. Short statements
// are exempt; their fingerprints are too sparse to compare.
const (
	driftWarnThreshold = 0.3
	driftMinTokens     = 4
)

// Warning flags a reconciliation anomaly worth surfacing to the user.
type Warning struct {
	Batch   int
	Marker  int
	Message string
}

// BatchOutcome reports how one batch reconciled.
type BatchOutcome struct {
	Batch   int
	Err     error // request failed or batch was skipped; originals kept
	Applied int   // statements whose cleaned text was applied
	Missing []int // markers absent from the response
	Unknown []int // response markers that are not in this batch
}

// Result of cleaning a statement list. Statements is a copy of the input
// with cleaned text applied wherever the service returned a usable block.
type Result struct {
	Statements []transcript.Statement
	Outcomes   []BatchOutcome
	Warnings   []Warning
}

// FailedBatches lists the batches whose requests failed or were skipped.
func (r *Result) FailedBatches() []int {
	var failed []int
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			failed = append(failed, outcome.Batch)
		}
	}
	return failed
}

// AppliedCount totals the statements that received cleaned text.
func (r *Result) AppliedCount() int {
	total := 0
	for _, outcome := range r.Outcomes {
		total += outcome.Applied
	}
	return total
}

// ProgressFunc observes batch completion. It runs under the service's lock:
// statements is the live reconciled slice and must not be retained after the
// call returns.
type ProgressFunc func(completed, total int, statements []transcript.Statement)

// Options tunes a Service.
type Options struct {
	// Concurrency bounds how many batches are in flight at once.
	Concurrency int
	Logger      *slog.Logger
}

// Service cleans transcripts through a Backend.
type Service struct {
	backend     Backend
	concurrency int
	logger      *slog.Logger
}

// NewService wires a cleaning service around the given backend.
func NewService(backend Backend, opts Options) *Service {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 2
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{backend: backend, concurrency: concurrency, logger: logger}
}

// Clean submits every batch and reconciles the responses. The returned
// result always holds len(statements) statements in order. The error is
// non-nil only when the context was cancelled; batches finished before the
// cancellation stay reconciled.
func (s *Service) Clean(ctx context.Context, statements []transcript.Statement, batches []transcript.Batch, onProgress ProgressFunc) (*Result, error) {
	result := &Result{
		Statements: make([]transcript.Statement, len(statements)),
		Outcomes:   make([]BatchOutcome, len(batches)),
	}
	copy(result.Statements, statements)
	for i := range result.Outcomes {
		result.Outcomes[i].Batch = i
	}
	if len(batches) == 0 {
		return result, nil
	}

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		completed int
	)
	sem := make(chan struct{}, s.concurrency)

submit:
	for i := range batches {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			mu.Lock()
			for j := i; j < len(batches); j++ {
				result.Outcomes[j].Err = ctx.Err()
			}
			mu.Unlock()
			break submit
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			outcome, updates, warnings := s.cleanBatch(ctx, idx, statements, batches[idx])
			mu.Lock()
			defer mu.Unlock()
			for marker, text := range updates {
				result.Statements[marker].Text = text
			}
			result.Outcomes[idx] = outcome
			result.Warnings = append(result.Warnings, warnings...)
			completed++
			if onProgress != nil {
				onProgress(completed, len(batches), result.Statements)
			}
		}(i)
	}
	wg.Wait()

	sort.Slice(result.Warnings, func(i, j int) bool {
		a, b := result.Warnings[i], result.Warnings[j]
		if a.Batch != b.Batch {
			return a.Batch < b.Batch
		}
		return a.Marker < b.Marker
	})
	return result, ctx.Err()
}

// cleanBatch runs one request and computes the reconciliation for its batch.
// It only reads the original statements; the caller applies updates under
// its lock so a batch lands atomically.
func (s *Service) cleanBatch(ctx context.Context, idx int, statements []transcript.Statement, batch transcript.Batch) (BatchOutcome, map[int]string, []Warning) {
	outcome := BatchOutcome{Batch: idx}
	ctx = services.WithRequestID(ctx, uuid.NewString())
	log := logging.WithContext(ctx, s.logger).With(
		logging.Int(logging.FieldBatch, idx),
		logging.Int("statements", len(batch.Statements)),
	)

	log.Debug("submitting batch", logging.Int("estimated_tokens", batch.EstimatedTokens))
	raw, err := s.backend.Complete(ctx, systemPrompt, BuildPrompt(statements, batch))
	if err != nil {
		outcome.Err = err
		log.Warn("batch cleaning failed; keeping original text", logging.Error(err))
		return outcome, nil, nil
	}

	cleaned := ParseResponse(raw)
	updates := make(map[int]string, len(batch.Statements))
	var warnings []Warning

	expected := make(map[int]struct{}, len(batch.Statements))
	for _, marker := range batch.Statements {
		expected[marker] = struct{}{}
		text, ok := cleaned[marker]
		if !ok {
			outcome.Missing = append(outcome.Missing, marker)
			warnings = append(warnings, Warning{
				Batch:   idx,
				Marker:  marker,
				Message: "statement missing from response; original text kept",
			})
			continue
		}
		updates[marker] = text
		if warning, drifted := driftWarning(idx, marker, statements[marker].Text, text); drifted {
			warnings = append(warnings, warning)
		}
	}
	for marker := range cleaned {
		if _, ok := expected[marker]; !ok {
			outcome.Unknown = append(outcome.Unknown, marker)
			warnings = append(warnings, Warning{
				Batch:   idx,
				Marker:  marker,
				Message: "response contains a marker not in this batch; ignored",
			})
		}
	}
	sort.Ints(outcome.Missing)
	sort.Ints(outcome.Unknown)
	outcome.Applied = len(updates)
	log.Debug("batch reconciled",
		logging.Int("applied", outcome.Applied),
		logging.Int("missing", len(outcome.Missing)),
		logging.Int("unknown", len(outcome.Unknown)))
	return outcome, updates, warnings
}

func driftWarning(batch, marker int, original, cleaned string) (Warning, bool) {
	origFP := textutil.NewFingerprint(original)
	if origFP.TokenCount() < driftMinTokens {
		return Warning{}, false
	}
	similarity := textutil.CosineSimilarity(origFP, textutil.NewFingerprint(cleaned))
	if similarity >= driftWarnThreshold {
		return Warning{}, false
	}
	return Warning{
		Batch:   batch,
		Marker:  marker,
		Message: fmt.Sprintf("cleaned text diverges from original (similarity %.2f); possible rewrite", similarity),
	}, true
}
