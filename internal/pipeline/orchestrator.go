package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ishankgp/brainstorming-agent/internal/catalog"
	"github.com/ishankgp/brainstorming-agent/internal/gemini"
	"github.com/ishankgp/brainstorming-agent/internal/logging"
	"github.com/ishankgp/brainstorming-agent/internal/model"
)

// ResearchResolver turns stored document references into long-context file
// attachments for the generation calls.
type ResearchResolver interface {
	Resolve(ctx context.Context, ids []string) ([]gemini.FileRef, error)
}

// RunInput describes one pipeline run. SessionID is optional; a fresh id is
// assigned when empty.
type RunInput struct {
	SessionID       string
	Brief           string
	IncludeResearch bool
	ResearchRefs    []string
}

// Orchestrator drives a full run: one classification, then five concurrent
// generate-evaluate tasks whose results stream out in completion order.
type Orchestrator struct {
	classifier *Classifier
	generator  *StatementGenerator
	evaluator  *Evaluator
	resolver   ResearchResolver
	log        zerolog.Logger
}

// NewOrchestrator wires the pipeline components around a single shared
// generation capability. The resolver may be nil when research context is
// not available.
func NewOrchestrator(invoker gemini.Invoker, resolver ResearchResolver) *Orchestrator {
	return &Orchestrator{
		classifier: NewClassifier(invoker),
		generator:  NewStatementGenerator(invoker),
		evaluator:  NewEvaluator(invoker),
		resolver:   resolver,
		log:        logging.Component("orchestrator"),
	}
}

// Run starts the pipeline and returns its event stream. The channel is
// closed after exactly one terminal event. Event order: diagnostic first,
// then one challenge_result per task in completion order, then
// timing_metrics, then complete. An error event replaces the tail only for
// failures outside the per-task boundaries (the per-component fallbacks make
// those unreachable in normal operation, so in practice this means context
// cancellation before the fan-out).
func (o *Orchestrator) Run(ctx context.Context, in RunInput) <-chan Event {
	out := make(chan Event)
	go o.run(ctx, in, out)
	return out
}

func (o *Orchestrator) run(ctx context.Context, in RunInput, out chan<- Event) {
	defer close(out)

	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	retrievalStart := time.Now()
	files := o.resolveResearch(ctx, in)
	retrievalMS := time.Since(retrievalStart).Milliseconds()

	if err := ctx.Err(); err != nil {
		o.emit(ctx, out, Event{Type: EventError, Data: ErrorData{Message: err.Error()}})
		return
	}

	start := time.Now()
	diag := o.classifier.Classify(ctx, in.Brief)
	selectedIDs := make([]catalog.FormatID, 0, len(diag.SelectedFormats))
	for _, sel := range diag.SelectedFormats {
		selectedIDs = append(selectedIDs, sel.FormatID)
	}
	if !o.emit(ctx, out, Event{Type: EventDiagnostic, Data: DiagnosticData{
		DiagnosticSummary: diag.DiagnosticSummary,
		DiagnosticPath:    diag.DiagnosticPath,
		SelectedFormats:   selectedIDs,
	}}) {
		return
	}
	diagnosticMS := time.Since(start).Milliseconds()
	o.log.Info().Int64("diagnostic_ms", diagnosticMS).Int("formats", len(selectedIDs)).Msg("diagnostic complete")

	// Fan out one task per selected format. The results channel is buffered
	// to task count so no task ever blocks on a slow consumer, and emission
	// order is pure completion order.
	results := make(chan model.Statement, len(diag.SelectedFormats))
	for i, sel := range diag.SelectedFormats {
		go func(position int, sel model.FormatSelection) {
			results <- o.runTask(ctx, position, sel, in, files)
		}(i+1, sel)
	}
	for range diag.SelectedFormats {
		if !o.emit(ctx, out, Event{Type: EventChallengeResult, Data: <-results}) {
			return
		}
	}

	metrics := model.TimingMetrics{
		TotalLatencyMS: time.Since(start).Milliseconds() + retrievalMS,
		DiagnosticMS:   diagnosticMS,
		RetrievalMS:    retrievalMS,
	}
	if !o.emit(ctx, out, Event{Type: EventTimingMetrics, Data: metrics}) {
		return
	}
	o.emit(ctx, out, Event{Type: EventComplete, Data: CompleteData{SessionID: sessionID}})
}

// runTask executes one generate-then-evaluate unit. It always returns a
// well-formed statement: a panic inside the task degrades to the fallback
// text plus the default evaluation, tagged with the same position.
func (o *Orchestrator) runTask(ctx context.Context, position int, sel model.FormatSelection, in RunInput, files []gemini.FileRef) (st model.Statement) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error().Any("panic", r).Int("position", position).Msg("task panicked, returning degraded result")
			st = degradedStatement(position, sel)
		}
	}()

	generated := o.generator.Generate(ctx, in.Brief, sel, files)
	evaluation := o.evaluator.Evaluate(ctx, generated.Text, in.Brief, in.IncludeResearch)
	return model.Statement{
		ID:             position,
		Text:           generated.Text,
		SelectedFormat: sel.FormatID,
		Reasoning:      sel.Reasoning,
		Evaluation:     &evaluation,
		Position:       position,
	}
}

func degradedStatement(position int, sel model.FormatSelection) model.Statement {
	format, ok := catalog.FormatByID(sel.FormatID)
	if !ok {
		format, _ = catalog.FormatByID(catalog.DefaultFormatID)
	}
	evaluation := DefaultEvaluation()
	return model.Statement{
		ID:             position,
		Text:           fallbackStatement(format).Text,
		SelectedFormat: sel.FormatID,
		Reasoning:      sel.Reasoning,
		Evaluation:     &evaluation,
		Position:       position,
	}
}

// resolveResearch loads research context attachments. Resolver failures are
// logged and the run proceeds without context.
func (o *Orchestrator) resolveResearch(ctx context.Context, in RunInput) []gemini.FileRef {
	if !in.IncludeResearch || o.resolver == nil || len(in.ResearchRefs) == 0 {
		return nil
	}
	files, err := o.resolver.Resolve(ctx, in.ResearchRefs)
	if err != nil {
		o.log.Error().Err(err).Msg("research resolution failed, continuing without context")
		return nil
	}
	o.log.Info().Int("files", len(files)).Msg("research context resolved")
	return files
}

// emit delivers an event unless the consumer has gone away. A false return
// means the run context was cancelled and the stream is abandoned.
func (o *Orchestrator) emit(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		o.log.Warn().Str("event", string(ev.Type)).Msg("stream consumer gone, dropping event")
		return false
	}
}
