package sync

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lucas-viotti/personal-os/internal/task"
)

// workflowTag labels feedback events emitted by the sync review loop.
const workflowTag = "jira_sync"

// Decision is one operator choice for a presented update.
type Decision int

const (
	DecisionApprove Decision = iota
	DecisionEdit
	DecisionSkip
	DecisionQuit
)

// DecisionProvider supplies operator decisions. The console provider
// presents each update before asking; scripted providers drive the loop
// in tests.
type DecisionProvider interface {
	Decide(card CardGroup, cand Candidate) (Decision, error)
	Confirm(prompt string) bool
}

// Applier applies approved candidates and handles execution failures.
// *Executor satisfies it; tests substitute a fake.
type Applier interface {
	Execute(key string, cand Candidate) error
	Fallback(url string, cand Candidate)
}

// Reviewer consumes a persisted batch one update at a time, applying
// approved candidates and recording the outcome of every decision.
// The loop is synchronous: it blocks on the provider between every
// single-update decision.
type Reviewer struct {
	executor  Applier
	store     TaskStore
	sink      FeedbackSink
	decisions DecisionProvider
	editor    Editor
	batchFile *BatchFile
	logger    *zap.Logger
}

// NewReviewer wires up a review loop.
func NewReviewer(
	executor Applier,
	store TaskStore,
	sink FeedbackSink,
	decisions DecisionProvider,
	editor Editor,
	batchFile *BatchFile,
	logger *zap.Logger,
) *Reviewer {
	return &Reviewer{
		executor:  executor,
		store:     store,
		sink:      sink,
		decisions: decisions,
		editor:    editor,
		batchFile: batchFile,
		logger:    logger,
	}
}

// Run reviews the batch in order. Normal completion (including an empty
// batch) deletes the persisted batch; Quit rewrites it to hold exactly
// the unprocessed remainder. Nothing short of Quit stops the loop.
func (r *Reviewer) Run(batch *Batch, today time.Time) error {
	if batch.Empty() {
		fmt.Println("Nothing to review.")
		return r.batchFile.Delete()
	}

	if batch.Stale(time.Now()) {
		age := time.Since(batch.Generated).Round(time.Hour)
		r.logger.Warn("batch is stale", zap.Duration("age", age))
		prompt := fmt.Sprintf("This batch is %s old. Review it anyway?", age)
		if !r.decisions.Confirm(prompt) {
			fmt.Println("Review aborted. Run a new scan to refresh suggestions.")
			return nil
		}
	}

	for ci, card := range batch.Suggestions {
		for ui, cand := range card.Updates {
			decision, err := r.decisions.Decide(card, cand)
			if err != nil {
				// Keep already-applied updates out of the next resume.
				if saveErr := r.batchFile.Save(remainderBatch(batch, ci, ui)); saveErr != nil {
					r.logger.Warn("failed to persist remaining batch", zap.Error(saveErr))
				}
				return fmt.Errorf("failed to read decision: %w", err)
			}

			switch decision {
			case DecisionApprove:
				r.apply(card, cand, ActionApproved, today)
			case DecisionEdit:
				r.edit(card, cand, today)
			case DecisionSkip:
				r.record(cand.Type, ActionSkipped, today)
			case DecisionQuit:
				remainder := remainderBatch(batch, ci, ui)
				if err := r.batchFile.Save(remainder); err != nil {
					return fmt.Errorf("failed to persist remaining batch: %w", err)
				}
				fmt.Printf("Stopped. %d suggestion group(s) saved for later.\n", len(remainder.Suggestions))
				return nil
			}
		}
	}

	return r.batchFile.Delete()
}

// apply executes one candidate and handles both outcomes: audit trail
// on success, clipboard fallback on failure. The loop advances either
// way.
func (r *Reviewer) apply(card CardGroup, cand Candidate, onSuccess FeedbackAction, today time.Time) {
	if err := r.executor.Execute(card.Key, cand); err != nil {
		r.logger.Warn("failed to apply update",
			zap.String("key", card.Key),
			zap.String("type", string(cand.Type)),
			zap.Error(err),
		)
		r.executor.Fallback(card.URL, cand)
		r.record(cand.Type, ActionFailed, today)
		return
	}

	r.audit(card, cand, today)
	r.record(cand.Type, onSuccess, today)
	fmt.Printf("Applied %s update to %s.\n", cand.Type, card.Key)
}

// edit opens a type-specific template. A confirmed, valid edit behaves
// like Approve with the modified payload; anything else cancels this
// candidate and advances.
func (r *Reviewer) edit(card CardGroup, cand Candidate, today time.Time) {
	template, ok := editTemplate(cand)
	if !ok {
		fmt.Printf("Edit is not supported for %s updates.\n", cand.Type)
		r.record(cand.Type, ActionEditCancelled, today)
		return
	}

	edited, err := r.editor.Edit(template)
	if err != nil {
		r.logger.Warn("edit failed", zap.Error(err))
		r.record(cand.Type, ActionEditCancelled, today)
		return
	}

	modified, ok := applyEdit(cand, edited)
	if !ok {
		fmt.Println("Edit was empty or invalid; suggestion discarded. Rerun the scan to regenerate it.")
		r.record(cand.Type, ActionEditCancelled, today)
		return
	}

	r.apply(card, modified, ActionApprovedEdited, today)
}

// editTemplate returns the editable text for a candidate: free text for
// comments, a single date line for due dates.
func editTemplate(cand Candidate) (string, bool) {
	switch cand.Type {
	case UpdateComment:
		return cand.Content, true
	case UpdateDueDate:
		return cand.Suggested + "\n", true
	default:
		return "", false
	}
}

// applyEdit validates the edited text and folds it back into the
// candidate payload.
func applyEdit(cand Candidate, edited string) (Candidate, bool) {
	text := strings.TrimSpace(edited)
	if text == "" {
		return Candidate{}, false
	}

	switch cand.Type {
	case UpdateComment:
		cand.Content = text
	case UpdateDueDate:
		if _, err := time.Parse(task.DateFormat, text); err != nil {
			return Candidate{}, false
		}
		cand.Suggested = text
	default:
		return Candidate{}, false
	}
	return cand, true
}

// audit appends one progress-log line for the executed update. Audit
// failures are logged and never undo the remote mutation.
func (r *Reviewer) audit(card CardGroup, cand Candidate, today time.Time) {
	line := fmt.Sprintf("- %s: [Sync] %s", today.Format(task.DateFormat), auditSummary(card.Key, cand))
	if err := r.store.AppendProgress(card.TaskFile, line); err != nil {
		r.logger.Warn("failed to append audit line",
			zap.String("task_file", card.TaskFile),
			zap.Error(err),
		)
	}
}

func auditSummary(key string, cand Candidate) string {
	switch cand.Type {
	case UpdateDueDate:
		return fmt.Sprintf("Updated due date on %s to %s", key, cand.Suggested)
	case UpdateTransition:
		return fmt.Sprintf("Transitioned %s to %s", key, cand.Suggested)
	default:
		return fmt.Sprintf("Posted progress comment to %s", key)
	}
}

func (r *Reviewer) record(t UpdateType, action FeedbackAction, today time.Time) {
	r.sink.Record(FeedbackEvent{
		Date:           today.Format(task.DateFormat),
		Workflow:       workflowTag,
		SuggestionType: t,
		Action:         action,
	})
}

// remainderBatch builds the batch persisted on Quit: the current card
// restricted to its unprocessed updates, followed by every untouched
// card after it.
func remainderBatch(batch *Batch, cardIdx, updateIdx int) *Batch {
	remainder := &Batch{Generated: batch.Generated}

	current := batch.Suggestions[cardIdx]
	current.Updates = current.Updates[updateIdx:]
	remainder.Suggestions = append(remainder.Suggestions, current)
	remainder.Suggestions = append(remainder.Suggestions, batch.Suggestions[cardIdx+1:]...)
	return remainder
}

// ConsoleProvider presents updates on the terminal and reads decisions
// from an input stream.
type ConsoleProvider struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewConsoleProvider creates a provider over the given streams.
func NewConsoleProvider(in io.Reader, out io.Writer) *ConsoleProvider {
	return &ConsoleProvider{reader: bufio.NewReader(in), out: out}
}

// Decide prints the card and candidate, then prompts until it gets a
// recognizable answer. EOF on the input stream quits.
func (p *ConsoleProvider) Decide(card CardGroup, cand Candidate) (Decision, error) {
	fmt.Fprintf(p.out, "\n%s — %s\n", card.Key, card.JiraTitle)
	fmt.Fprintf(p.out, "  Jira status: %s  |  Task: %s\n", card.JiraStatus, card.TaskTitle)
	fmt.Fprintf(p.out, "  %s\n", card.URL)
	fmt.Fprintf(p.out, "\nSuggested %s (%s confidence): %s\n", cand.Type, cand.Confidence, cand.Reason)
	switch cand.Type {
	case UpdateComment:
		fmt.Fprintln(p.out, indent(cand.Content, "  | "))
	default:
		fmt.Fprintf(p.out, "  current: %s\n  suggested: %s\n", cand.Current, cand.Suggested)
	}

	for {
		fmt.Fprint(p.out, "\n[a]pprove / [e]dit / [s]kip / [q]uit: ")
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return DecisionQuit, nil
			}
			return DecisionQuit, err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "a", "approve":
			return DecisionApprove, nil
		case "e", "edit":
			return DecisionEdit, nil
		case "s", "skip":
			return DecisionSkip, nil
		case "q", "quit":
			return DecisionQuit, nil
		}
	}
}

// Confirm asks a yes/no question, defaulting to no.
func (p *ConsoleProvider) Confirm(prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

// ScriptedProvider replays a fixed decision sequence; once the script
// runs out it quits. Used by tests and non-interactive runs.
type ScriptedProvider struct {
	Decisions []Decision
	Confirms  bool
	next      int
}

// Decide pops the next scripted decision.
func (p *ScriptedProvider) Decide(CardGroup, Candidate) (Decision, error) {
	if p.next >= len(p.Decisions) {
		return DecisionQuit, nil
	}
	d := p.Decisions[p.next]
	p.next++
	return d, nil
}

// Confirm answers every confirmation with the configured value.
func (p *ScriptedProvider) Confirm(string) bool {
	return p.Confirms
}
