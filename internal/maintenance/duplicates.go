package maintenance

import (
	"context"
	"fmt"
	"strconv"

	"github.com/JonMunkholm/flashmaint/internal/console"
	"github.com/JonMunkholm/flashmaint/internal/flashcard"
	"github.com/JonMunkholm/flashmaint/internal/logging"
)

// resolutionState is the position of one duplicate group in its decision loop.
type resolutionState int

const (
	statePresenting resolutionState = iota
	stateAwaitingChoice
	stateEditing
	stateResolved
)

func (s resolutionState) String() string {
	switch s {
	case statePresenting:
		return "presenting"
	case stateAwaitingChoice:
		return "awaiting_choice"
	case stateEditing:
		return "editing"
	case stateResolved:
		return "resolved"
	}
	return "unknown"
}

// DuplicateStats summarizes the duplicate phase.
type DuplicateStats struct {
	Groups   int
	Resolved int
	Skipped  int
	Deleted  int
}

// DuplicateResolver walks groups of cards sharing the same Arabic text and
// lets the operator keep one, edit one, or skip the group.
type DuplicateResolver struct {
	deck   *Deck
	con    *console.Console
	editor *Editor
}

// NewDuplicateResolver creates a resolver over deck.
func NewDuplicateResolver(deck *Deck, con *console.Console, editor *Editor) *DuplicateResolver {
	return &DuplicateResolver{deck: deck, con: con, editor: editor}
}

// Run groups the current deck by Arabic text and resolves every group with
// more than one card.
func (r *DuplicateResolver) Run(ctx context.Context) (DuplicateStats, error) {
	var stats DuplicateStats

	groups := flashcard.Duplicates(flashcard.GroupByArabic(r.deck.Cards()))
	stats.Groups = len(groups)
	logging.WithFields(ctx, "phase", "duplicates").Info("duplicate groups found", "groups", len(groups))

	for _, g := range groups {
		res := &groupResolution{resolver: r, group: g, state: statePresenting}
		if err := res.run(ctx); err != nil {
			return stats, err
		}
		if res.keptOne {
			stats.Resolved++
			stats.Deleted += res.deleted
		} else {
			stats.Skipped++
		}
	}
	return stats, nil
}

// groupResolution drives one group through
// Presenting -> AwaitingChoice -> (Editing -> AwaitingChoice)* -> Resolved.
type groupResolution struct {
	resolver *DuplicateResolver
	group    flashcard.Group
	state    resolutionState

	target  *flashcard.Card
	keptOne bool
	deleted int
}

func (g *groupResolution) run(ctx context.Context) error {
	logger := logging.WithFields(ctx, "phase", "duplicates", "arabic", g.group.Arabic)
	for g.state != stateResolved {
		logger.Debug("group state", "state", g.state)
		var err error
		switch g.state {
		case statePresenting:
			g.present()
		case stateAwaitingChoice:
			err = g.awaitChoice(ctx)
		case stateEditing:
			err = g.edit(ctx)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *groupResolution) present() {
	con := g.resolver.con
	con.Separator()
	con.Printf("CONFLICT: the word '%s' appears %d times.\n", g.group.Arabic, len(g.group.Cards))
	for _, c := range g.group.Cards {
		con.CardWindow(c, fmt.Sprintf("VERSION ID %d", c.ID))
	}
	g.state = stateAwaitingChoice
}

func (g *groupResolution) awaitChoice(ctx context.Context) error {
	con := g.resolver.con
	con.Printf("\nOptions for '%s':\n", g.group.Arabic)
	con.Menu("",
		console.MenuOption{Key: "<id>", Label: "Type the ID to KEEP (the others are deleted)"},
		console.MenuOption{Key: "M", Label: "Modify one card before deciding"},
		console.MenuOption{Key: "S", Label: "Skip this group"},
	)

	choice, err := con.Choice("Action: ")
	if err != nil {
		return err
	}

	if choice == "S" {
		g.state = stateResolved
		return nil
	}

	if id, convErr := strconv.ParseInt(choice, 10, 64); convErr == nil {
		return g.keep(ctx, id)
	}

	if choice == "M" {
		answer, err := con.Prompt("   Which ID do you want to edit?: ")
		if err != nil {
			return err
		}
		id, convErr := strconv.ParseInt(answer, 10, 64)
		if convErr != nil {
			con.Println("Invalid ID.")
			return nil
		}
		target, ok := g.group.Find(id)
		if !ok {
			con.Println("ID not in this group.")
			return nil
		}
		g.target = target
		g.state = stateEditing
	}
	return nil
}

// keep deletes every member except winner. An id outside the group is
// reported and leaves the group untouched.
func (g *groupResolution) keep(ctx context.Context, winner int64) error {
	con := g.resolver.con
	if _, ok := g.group.Find(winner); !ok {
		con.Println("ID not found in this group.")
		return nil
	}

	for _, c := range g.group.Cards {
		if c.ID == winner {
			continue
		}
		if err := g.resolver.deck.Delete(ctx, c.ID); err != nil {
			return fmt.Errorf("delete duplicate %d: %w", c.ID, err)
		}
		g.deleted++
		con.Printf("Deleted ID %d\n", c.ID)
	}

	g.keptOne = true
	g.state = stateResolved
	con.Println("Conflict resolved.")
	logging.WithFields(ctx, "phase", "duplicates").Info("duplicate group resolved",
		"arabic", g.group.Arabic, "kept", winner, "deleted", g.deleted)
	return nil
}

func (g *groupResolution) edit(ctx context.Context) error {
	if _, err := g.resolver.editor.Edit(ctx, g.target); err != nil {
		return err
	}
	g.target = nil
	g.state = stateAwaitingChoice
	return nil
}
