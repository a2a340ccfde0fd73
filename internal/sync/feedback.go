package sync

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FeedbackAction records what the operator did with one suggestion.
type FeedbackAction string

const (
	ActionApproved       FeedbackAction = "approved"
	ActionApprovedEdited FeedbackAction = "approved_edited"
	ActionSkipped        FeedbackAction = "skipped"
	ActionFailed         FeedbackAction = "failed"
	ActionEditCancelled  FeedbackAction = "edit_cancelled"
)

// FeedbackEvent is one append-only ledger entry. The engine only ever
// writes these; nothing reads them back.
type FeedbackEvent struct {
	Date           string         `json:"date"`
	Workflow       string         `json:"workflow"`
	SuggestionType UpdateType     `json:"suggestion_type"`
	Action         FeedbackAction `json:"action"`
}

// FeedbackSink receives feedback events. Writes are best-effort and
// must never fail the surrounding action.
type FeedbackSink interface {
	Record(event FeedbackEvent)
}

// ledgerFileName is the append-only feedback ledger, one JSON object
// per line.
const ledgerFileName = "feedback-ledger.jsonl"

// LedgerSink appends feedback events to a JSON-lines file.
type LedgerSink struct {
	path   string
	logger *zap.Logger
}

// NewLedgerSink returns a sink writing under stateDir.
func NewLedgerSink(stateDir string, logger *zap.Logger) *LedgerSink {
	return &LedgerSink{
		path:   filepath.Join(stateDir, ledgerFileName),
		logger: logger,
	}
}

// Record appends one event. Failures are logged and swallowed.
func (s *LedgerSink) Record(event FeedbackEvent) {
	if err := s.append(event); err != nil {
		s.logger.Warn("failed to record feedback event", zap.Error(err))
	}
}

func (s *LedgerSink) append(event FeedbackEvent) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	line, err := json.Marshal(event)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(line, '\n'))
	return err
}

// MemorySink collects events in memory for tests.
type MemorySink struct {
	Events []FeedbackEvent
}

// Record appends the event to the in-memory list.
func (s *MemorySink) Record(event FeedbackEvent) {
	s.Events = append(s.Events, event)
}
