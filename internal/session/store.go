// Package session persists challenge generation runs: the session record,
// its statements, and their evaluations. Writes from the streaming pipeline
// arrive one statement per position; each position has exactly one writer.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ishankgp/brainstorming-agent/internal/catalog"
	"github.com/ishankgp/brainstorming-agent/internal/model"
)

// Store manages session persistence.
type Store struct {
	db *sql.DB
}

// NewStore creates a session store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Session is a stored run with its statements.
type Session struct {
	ID                  string                 `json:"id"`
	BriefText           string                 `json:"brief_text"`
	IncludeResearch     bool                   `json:"include_research"`
	SelectedResearchIDs []string               `json:"selected_research_ids"`
	DiagnosticSummary   string                 `json:"diagnostic_summary"`
	DiagnosticPath      []model.DiagnosticStep `json:"diagnostic_path"`
	Timing              *model.TimingMetrics   `json:"timing_metrics,omitempty"`
	Status              model.SessionStatus    `json:"status"`
	ErrorMessage        string                 `json:"error_message,omitempty"`
	CreatedAt           string                 `json:"created_at"`
	Statements          []model.Statement      `json:"challenge_statements"`
}

// Summary is the list view of a stored session.
type Summary struct {
	ID             string              `json:"id"`
	BriefPreview   string              `json:"brief_preview"`
	CreatedAt      string              `json:"created_at"`
	Status         model.SessionStatus `json:"status"`
	StatementCount int                 `json:"statement_count"`
}

const briefPreviewLen = 80

// Create inserts a new session in the generating state.
func (s *Store) Create(ctx context.Context, id, briefText string, includeResearch bool, researchIDs []string) error {
	if researchIDs == nil {
		researchIDs = []string{}
	}
	idsJSON, err := json.Marshal(researchIDs)
	if err != nil {
		return fmt.Errorf("marshal research ids: %w", err)
	}
	createdAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, `INSERT INTO challenge_sessions(id, brief_text, include_research, selected_research_ids, status, created_at)
		VALUES(?, ?, ?, ?, ?, ?)`,
		id, briefText, includeResearch, string(idsJSON), string(model.StatusGenerating), createdAt); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// SaveDiagnostic records the classifier output on the session.
func (s *Store) SaveDiagnostic(ctx context.Context, id, summary string, path []model.DiagnosticStep) error {
	if path == nil {
		path = []model.DiagnosticStep{}
	}
	pathJSON, err := json.Marshal(path)
	if err != nil {
		return fmt.Errorf("marshal diagnostic path: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE challenge_sessions SET diagnostic_summary=?, diagnostic_path=? WHERE id=?`,
		summary, string(pathJSON), id); err != nil {
		return fmt.Errorf("update diagnostic: %w", err)
	}
	return nil
}

// AppendStatement inserts a statement with its evaluation and dimension
// scores in one transaction.
func (s *Store) AppendStatement(ctx context.Context, sessionID string, st model.Statement) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin append statement: %w", err)
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO challenge_statements(session_id, text, selected_format, reasoning, position)
		VALUES(?, ?, ?, ?, ?)`,
		sessionID, st.Text, string(st.SelectedFormat), st.Reasoning, st.Position)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert statement: %w", err)
	}
	statementID, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("read statement id: %w", err)
	}
	if st.Evaluation != nil {
		if err := insertEvaluation(ctx, tx, statementID, *st.Evaluation); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append statement: %w", err)
	}
	return nil
}

func insertEvaluation(ctx context.Context, tx *sql.Tx, statementID int64, ev model.Evaluation) error {
	failed := ev.FailedNonNegotiables
	if failed == nil {
		failed = []string{}
	}
	failedJSON, err := json.Marshal(failed)
	if err != nil {
		return fmt.Errorf("marshal failed non-negotiables: %w", err)
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO challenge_evaluations(statement_id, total_score, weighted_score, passes_non_negotiables, failed_non_negotiables, recommendation, detected_format_id, degraded)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		statementID, ev.TotalScore, ev.WeightedScore, ev.PassesNonNegotiables, string(failedJSON),
		string(ev.Recommendation), string(ev.DetectedFormatID), ev.Degraded)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}
	evaluationID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read evaluation id: %w", err)
	}
	for _, ds := range ev.DimensionScores {
		if _, err := tx.ExecContext(ctx, `INSERT INTO dimension_scores(evaluation_id, dimension_id, score, notes, has_red_flags)
			VALUES(?, ?, ?, ?, ?)`,
			evaluationID, string(ds.DimensionID), ds.Score, ds.Notes, ds.HasRedFlags); err != nil {
			return fmt.Errorf("insert dimension score: %w", err)
		}
	}
	return nil
}

// SaveTiming records the run's timing metrics.
func (s *Store) SaveTiming(ctx context.Context, id string, metrics model.TimingMetrics) error {
	timingJSON, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("marshal timing: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE challenge_sessions SET timing=? WHERE id=?`,
		string(timingJSON), id); err != nil {
		return fmt.Errorf("update timing: %w", err)
	}
	return nil
}

// MarkCompleted transitions the session to its terminal completed state.
func (s *Store) MarkCompleted(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE challenge_sessions SET status=? WHERE id=?`,
		string(model.StatusCompleted), id); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

// MarkErrored transitions the session to its terminal error state.
func (s *Store) MarkErrored(ctx context.Context, id, message string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE challenge_sessions SET status=?, error_message=? WHERE id=?`,
		string(model.StatusError), message, id); err != nil {
		return fmt.Errorf("mark errored: %w", err)
	}
	return nil
}

// Get loads a session with its statements, evaluations, and scores.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, brief_text, include_research, selected_research_ids, diagnostic_summary, diagnostic_path, timing, status, error_message, created_at
		FROM challenge_sessions WHERE id=?`, id)

	var sess Session
	var idsJSON string
	var summary, pathJSON, timingJSON, errMsg sql.NullString
	if err := row.Scan(&sess.ID, &sess.BriefText, &sess.IncludeResearch, &idsJSON,
		&summary, &pathJSON, &timingJSON, &sess.Status, &errMsg, &sess.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("scan session: %w", err)
	}
	sess.DiagnosticSummary = summary.String
	sess.ErrorMessage = errMsg.String
	if err := json.Unmarshal([]byte(idsJSON), &sess.SelectedResearchIDs); err != nil {
		return Session{}, fmt.Errorf("parse research ids: %w", err)
	}
	if pathJSON.Valid {
		if err := json.Unmarshal([]byte(pathJSON.String), &sess.DiagnosticPath); err != nil {
			return Session{}, fmt.Errorf("parse diagnostic path: %w", err)
		}
	}
	if timingJSON.Valid {
		var metrics model.TimingMetrics
		if err := json.Unmarshal([]byte(timingJSON.String), &metrics); err != nil {
			return Session{}, fmt.Errorf("parse timing: %w", err)
		}
		sess.Timing = &metrics
	}

	statements, err := s.loadStatements(ctx, id)
	if err != nil {
		return Session{}, err
	}
	sess.Statements = statements
	return sess, nil
}

func (s *Store) loadStatements(ctx context.Context, sessionID string) ([]model.Statement, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT st.id, st.text, st.selected_format, st.reasoning, st.position,
		ev.id, ev.total_score, ev.weighted_score, ev.passes_non_negotiables, ev.failed_non_negotiables, ev.recommendation, ev.detected_format_id, ev.degraded
		FROM challenge_statements st
		LEFT JOIN challenge_evaluations ev ON ev.statement_id = st.id
		WHERE st.session_id=? ORDER BY st.position`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	var out []model.Statement
	evaluationIDs := map[int]int64{}
	for rows.Next() {
		var st model.Statement
		var rowID int64
		var selectedFormat string
		var evID sql.NullInt64
		var totalScore, weightedScore sql.NullInt64
		var passes, degraded sql.NullBool
		var failedJSON, recommendation, detected sql.NullString
		if err := rows.Scan(&rowID, &st.Text, &selectedFormat, &st.Reasoning, &st.Position,
			&evID, &totalScore, &weightedScore, &passes, &failedJSON, &recommendation, &detected, &degraded); err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		st.ID = st.Position
		st.SelectedFormat = catalog.FormatID(selectedFormat)
		if evID.Valid {
			ev := model.Evaluation{
				TotalScore:           int(totalScore.Int64),
				WeightedScore:        int(weightedScore.Int64),
				PassesNonNegotiables: passes.Bool,
				Recommendation:       model.Recommendation(recommendation.String),
				DetectedFormatID:     catalog.FormatID(detected.String),
				Degraded:             degraded.Bool,
			}
			if failedJSON.Valid {
				if err := json.Unmarshal([]byte(failedJSON.String), &ev.FailedNonNegotiables); err != nil {
					return nil, fmt.Errorf("parse failed non-negotiables: %w", err)
				}
			}
			st.Evaluation = &ev
			evaluationIDs[st.Position] = evID.Int64
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		evID, ok := evaluationIDs[out[i].Position]
		if !ok {
			continue
		}
		scores, err := s.loadScores(ctx, evID)
		if err != nil {
			return nil, err
		}
		out[i].Evaluation.DimensionScores = scores
	}
	return out, nil
}

func (s *Store) loadScores(ctx context.Context, evaluationID int64) ([]model.DimensionScore, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT dimension_id, score, notes, has_red_flags FROM dimension_scores WHERE evaluation_id=? ORDER BY id`, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("query dimension scores: %w", err)
	}
	defer rows.Close()
	var out []model.DimensionScore
	for rows.Next() {
		var ds model.DimensionScore
		var dimensionID string
		if err := rows.Scan(&dimensionID, &ds.Score, &ds.Notes, &ds.HasRedFlags); err != nil {
			return nil, fmt.Errorf("scan dimension score: %w", err)
		}
		ds.DimensionID = catalog.DimensionID(dimensionID)
		out = append(out, ds)
	}
	return out, rows.Err()
}

// List returns summaries of all sessions, newest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT s.id, s.brief_text, s.created_at, s.status, COUNT(st.id)
		FROM challenge_sessions s
		LEFT JOIN challenge_statements st ON st.session_id = s.id
		GROUP BY s.id ORDER BY s.created_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()
	var out []Summary
	for rows.Next() {
		var sum Summary
		var brief string
		if err := rows.Scan(&sum.ID, &brief, &sum.CreatedAt, &sum.Status, &sum.StatementCount); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		sum.BriefPreview = preview(brief)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a session and, through foreign keys, its statements.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM challenge_sessions WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func preview(brief string) string {
	if len(brief) <= briefPreviewLen {
		return brief
	}
	return brief[:briefPreviewLen] + "..."
}
