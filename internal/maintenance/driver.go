package maintenance

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/flashmaint/internal/config"
	"github.com/JonMunkholm/flashmaint/internal/console"
	"github.com/JonMunkholm/flashmaint/internal/flashcard"
	"github.com/JonMunkholm/flashmaint/internal/logging"
	"github.com/JonMunkholm/flashmaint/internal/store"
	"github.com/JonMunkholm/flashmaint/internal/suggest"
)

// Summary reports what one maintenance run did.
type Summary struct {
	Cards      int
	Normalized int
	Duplicates DuplicateStats
	Audit      AuditStats
	Updates    int
	Deletes    int
}

// Driver runs the three maintenance phases in order: normalize, resolve
// duplicates, audit.
type Driver struct {
	cfg     *config.Config
	store   store.Store
	auditor suggest.Auditor
	con     *console.Console
}

// NewDriver wires a driver from its collaborators.
func NewDriver(cfg *config.Config, st store.Store, auditor suggest.Auditor, con *console.Console) *Driver {
	return &Driver{cfg: cfg, store: st, auditor: auditor, con: con}
}

// Run performs one full maintenance session. The summary is returned even
// when a phase fails, reflecting the work completed up to that point.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	ctx = logging.NewRunContext(ctx)
	logger := logging.FromContext(ctx)
	summary := &Summary{}

	d.con.Println("Downloading flashcards...")
	deck, err := LoadDeck(ctx, d.store)
	if err != nil {
		return summary, fmt.Errorf("load flashcards: %w", err)
	}
	summary.Cards = deck.Len()
	d.con.Printf("%d cards in memory.\n\n", deck.Len())
	logger.Info("deck loaded", "cards", deck.Len())

	defer func() {
		summary.Updates, summary.Deletes = deck.Mutations()
	}()

	d.con.Println("Removing final tanwin...")
	n, err := d.normalize(ctx, deck)
	summary.Normalized = n
	if err != nil {
		return summary, err
	}
	d.con.Printf("Cleanup finished, %d cards normalized.\n\n", n)

	editor := NewEditor(deck, d.con)

	d.con.Println("LOOKING FOR DUPLICATES...")
	summary.Duplicates, err = NewDuplicateResolver(deck, d.con, editor).Run(ctx)
	if err != nil {
		return summary, err
	}

	d.con.Println("\nSTARTING AUDIT...")
	summary.Audit, err = NewAuditOrchestrator(deck, d.auditor, d.con, editor, d.cfg.Audit.BatchSize).Run(ctx)
	if err != nil {
		return summary, err
	}

	d.con.Println("\nMAINTENANCE FINISHED.")
	return summary, nil
}

// normalize strips trailing tanwin from every card and persists each change
// as a single-field update.
func (d *Driver) normalize(ctx context.Context, deck *Deck) (int, error) {
	changed := 0
	for _, card := range deck.Cards() {
		clean := flashcard.Normalize(card.Arabic)
		if clean == card.Arabic {
			continue
		}
		if err := deck.Update(ctx, card, flashcard.Fields{flashcard.FieldArabic: clean}); err != nil {
			return changed, fmt.Errorf("normalize flashcard %d: %w", card.ID, err)
		}
		changed++
	}
	logging.WithFields(ctx, "phase", "normalize").Info("normalization finished", "changed", changed)
	return changed, nil
}

// PrintSummary writes the end-of-run report.
func PrintSummary(con *console.Console, s *Summary) {
	con.Separator()
	con.Printf("Cards loaded:        %d\n", s.Cards)
	con.Printf("Normalized:          %d\n", s.Normalized)
	con.Printf("Duplicate groups:    %d (resolved %d, skipped %d)\n",
		s.Duplicates.Groups, s.Duplicates.Resolved, s.Duplicates.Skipped)
	con.Printf("Findings reviewed:   %d (accepted %d, edited %d, deleted %d, ignored %d)\n",
		s.Audit.Findings, s.Audit.Accepted, s.Audit.Edited, s.Audit.Deleted, s.Audit.Ignored)
	if s.Audit.FailedBatches > 0 {
		con.Printf("Failed batches:      %d of %d\n", s.Audit.FailedBatches, s.Audit.Batches)
	}
	con.Printf("Store updates:       %d\n", s.Updates)
	con.Printf("Store deletes:       %d\n", s.Deletes)
}
