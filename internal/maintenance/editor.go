package maintenance

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/flashmaint/internal/console"
	"github.com/JonMunkholm/flashmaint/internal/flashcard"
)

// editorOptions maps menu keys to the field they edit.
var editorOptions = []struct {
	key   string
	label string
	field flashcard.Field
}{
	{"1", "Edit Arabic", flashcard.FieldArabic},
	{"2", "Edit Spanish", flashcard.FieldSpanish},
	{"3", "Edit Category", flashcard.FieldCategory},
	{"4", "Edit Phonetic", flashcard.FieldPhonetic},
}

// Editor lets the operator change any field of one card.
type Editor struct {
	deck *Deck
	con  *console.Console
}

// NewEditor creates an editor that persists through deck.
func NewEditor(deck *Deck, con *console.Console) *Editor {
	return &Editor{deck: deck, con: con}
}

// Edit runs the edit loop for card until the operator saves or cancels.
// Changes are made on a working copy; saving sends all four fields in one
// update and then commits them to card. It reports whether the card was
// saved.
func (e *Editor) Edit(ctx context.Context, card *flashcard.Card) (bool, error) {
	working := *card

	for {
		e.con.CardWindow(&working, "EDIT MODE")
		e.con.Menu("What do you want to change?", editorMenu()...)

		op, err := e.con.Choice("Option: ")
		if err != nil {
			return false, err
		}

		switch op {
		case "G":
			if err := e.deck.Update(ctx, card, working.AllFields()); err != nil {
				return false, fmt.Errorf("save flashcard %d: %w", card.ID, err)
			}
			e.con.Println("Changes saved.")
			return true, nil

		case "C":
			e.con.Println("Edit cancelled.")
			return false, nil

		default:
			field, ok := editorField(op)
			if !ok {
				continue
			}
			current := working.Get(field)
			value, err := e.con.Prompt(fmt.Sprintf("   New %s (%s): ", field, current))
			if err != nil {
				return false, err
			}
			if value != "" {
				working.Set(field, value)
			}
		}
	}
}

func editorMenu() []console.MenuOption {
	menu := make([]console.MenuOption, 0, len(editorOptions)+2)
	for _, o := range editorOptions {
		menu = append(menu, console.MenuOption{Key: o.key, Label: o.label})
	}
	return append(menu,
		console.MenuOption{Key: "G", Label: "Save and exit"},
		console.MenuOption{Key: "C", Label: "Cancel changes"},
	)
}

func editorField(key string) (flashcard.Field, bool) {
	for _, o := range editorOptions {
		if o.key == key {
			return o.field, true
		}
	}
	return "", false
}
