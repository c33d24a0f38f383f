package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ishankgp/brainstorming-agent/internal/logging"
	"github.com/ishankgp/brainstorming-agent/internal/model"
	"github.com/ishankgp/brainstorming-agent/internal/pipeline"
)

// Recorder persists pipeline events for one session as they stream past.
// Persistence failures are logged and swallowed; the live stream must never
// stall on a write.
type Recorder struct {
	store     *Store
	sessionID string
	log       zerolog.Logger
}

// NewRecorder creates a recorder bound to one session.
func NewRecorder(store *Store, sessionID string) *Recorder {
	return &Recorder{
		store:     store,
		sessionID: sessionID,
		log:       logging.Component("recorder"),
	}
}

// Record persists one event. It never returns an error.
func (r *Recorder) Record(ctx context.Context, ev pipeline.Event) {
	var err error
	switch data := ev.Data.(type) {
	case pipeline.DiagnosticData:
		err = r.store.SaveDiagnostic(ctx, r.sessionID, data.DiagnosticSummary, data.DiagnosticPath)
	case model.Statement:
		err = r.store.AppendStatement(ctx, r.sessionID, data)
	case model.TimingMetrics:
		err = r.store.SaveTiming(ctx, r.sessionID, data)
	case pipeline.CompleteData:
		err = r.store.MarkCompleted(ctx, r.sessionID)
	case pipeline.ErrorData:
		err = r.store.MarkErrored(ctx, r.sessionID, data.Message)
	}
	if err != nil {
		r.log.Warn().Err(err).
			Str("session_id", r.sessionID).
			Str("event", string(ev.Type)).
			Msg("persist event failed")
	}
}
