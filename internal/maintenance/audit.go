package maintenance

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/flashmaint/internal/console"
	"github.com/JonMunkholm/flashmaint/internal/flashcard"
	"github.com/JonMunkholm/flashmaint/internal/logging"
	"github.com/JonMunkholm/flashmaint/internal/suggest"
)

// DefaultBatchSize is how many cards are reviewed per suggestion call.
const DefaultBatchSize = 20

// findingState is the position of one finding in its decision loop.
type findingState int

const (
	findingPresenting findingState = iota
	findingAwaitingDecision
	findingDone
)

// Decision is the operator's answer to a finding.
type Decision string

const (
	DecisionAccept Decision = "1"
	DecisionEdit   Decision = "2"
	DecisionDelete Decision = "3"
	DecisionIgnore Decision = "4"
)

var decisionMenu = []console.MenuOption{
	{Key: string(DecisionAccept), Label: "Accept suggestion"},
	{Key: string(DecisionEdit), Label: "Edit manually (open full editor)"},
	{Key: string(DecisionDelete), Label: "Delete this card"},
	{Key: string(DecisionIgnore), Label: "Ignore / skip"},
}

// AuditStats summarizes the audit phase.
type AuditStats struct {
	Batches       int
	FailedBatches int
	Findings      int
	Unmatched     int
	Rejected      int
	Accepted      int
	Edited        int
	Deleted       int
	Ignored       int
}

// AuditOrchestrator sends the deck to the suggestion service in batches and
// asks the operator to decide on each reported finding.
type AuditOrchestrator struct {
	deck      *Deck
	auditor   suggest.Auditor
	con       *console.Console
	editor    *Editor
	batchSize int
}

// NewAuditOrchestrator creates an orchestrator. A non-positive batchSize
// uses DefaultBatchSize.
func NewAuditOrchestrator(deck *Deck, auditor suggest.Auditor, con *console.Console, editor *Editor, batchSize int) *AuditOrchestrator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &AuditOrchestrator{deck: deck, auditor: auditor, con: con, editor: editor, batchSize: batchSize}
}

// Run reviews the deck in consecutive batches. A failing suggestion call
// yields no findings for its batch and the audit moves on.
func (a *AuditOrchestrator) Run(ctx context.Context) (AuditStats, error) {
	var stats AuditStats
	cards := a.deck.Cards()

	for start := 0; start < len(cards); start += a.batchSize {
		end := start + a.batchSize
		if end > len(cards) {
			end = len(cards)
		}
		batch := cards[start:end]
		stats.Batches++

		a.con.Printf("   Analyzing batch %d-%d...\n", start, end)
		logger := logging.WithFields(ctx, "phase", "audit", "batch_start", start, "batch_end", end)

		projections := make([]flashcard.Projection, len(batch))
		for i, c := range batch {
			projections[i] = c.Project()
		}

		findings, err := a.auditor.Audit(ctx, projections)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			logger.Warn("suggestion service failed, skipping batch", "error", err)
			stats.FailedBatches++
			continue
		}
		logger.Info("batch reviewed", "findings", len(findings))

		for _, f := range findings {
			if !f.Field.Auditable() {
				logger.Warn("finding targets unsupported field", "id", f.RecordID, "field", f.Field)
				stats.Rejected++
				continue
			}
			card, ok := findInBatch(batch, f.RecordID)
			if !ok {
				stats.Unmatched++
				continue
			}
			// Deleted by an earlier finding in this batch.
			if _, live := a.deck.Get(card.ID); !live {
				stats.Unmatched++
				continue
			}

			stats.Findings++
			decision, err := a.handleFinding(ctx, card, f)
			if err != nil {
				return stats, err
			}
			switch decision {
			case DecisionAccept:
				stats.Accepted++
			case DecisionEdit:
				stats.Edited++
			case DecisionDelete:
				stats.Deleted++
			case DecisionIgnore:
				stats.Ignored++
			}
		}
	}
	return stats, nil
}

func findInBatch(batch []*flashcard.Card, id int64) (*flashcard.Card, bool) {
	for _, c := range batch {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// handleFinding runs Presenting -> AwaitingDecision -> Done for one finding
// and returns the decision that took effect. A declined delete confirmation
// is reported as DecisionIgnore.
func (a *AuditOrchestrator) handleFinding(ctx context.Context, card *flashcard.Card, f flashcard.Finding) (Decision, error) {
	state := findingPresenting
	var result Decision

	for state != findingDone {
		switch state {
		case findingPresenting:
			a.con.CardWindow(card, "POSSIBLE ERROR DETECTED")
			a.con.Printf("AI SAYS: %s\n", f.Problem)
			a.con.Printf("SUGGESTION: change '%s' to -> %s\n", f.Field, f.Suggestion)
			state = findingAwaitingDecision

		case findingAwaitingDecision:
			a.con.Println()
			a.con.Menu("What do we do?", decisionMenu...)
			answer, err := a.con.Prompt("Decision: ")
			if err != nil {
				return "", err
			}

			decision := Decision(answer)
			switch decision {
			case DecisionAccept:
				if err := a.deck.Update(ctx, card, flashcard.Fields{f.Field: f.Suggestion}); err != nil {
					return "", fmt.Errorf("apply suggestion to %d: %w", card.ID, err)
				}
				a.con.Println("Corrected.")
				result = decision

			case DecisionEdit:
				if _, err := a.editor.Edit(ctx, card); err != nil {
					return "", err
				}
				result = decision

			case DecisionDelete:
				deleted, err := a.confirmDelete(ctx, card)
				if err != nil {
					return "", err
				}
				result = DecisionIgnore
				if deleted {
					result = decision
				}

			case DecisionIgnore:
				a.con.Println("Skipped.")
				result = decision

			default:
				continue
			}
			state = findingDone
		}
	}
	return result, nil
}

func (a *AuditOrchestrator) confirmDelete(ctx context.Context, card *flashcard.Card) (bool, error) {
	answer, err := a.con.Prompt("Are you sure? (s/n): ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "s", "y":
	default:
		return false, nil
	}

	if err := a.deck.Delete(ctx, card.ID); err != nil {
		return false, fmt.Errorf("delete flashcard %d: %w", card.ID, err)
	}
	a.con.Println("Card deleted.")
	return true, nil
}
