package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/JonMunkholm/flashmaint/internal/flashcard"
)

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("  first \r\nsecond\nlast"), &out)

	for _, want := range []string{"first", "second", "last"} {
		got, err := c.Prompt("> ")
		if err != nil {
			t.Fatalf("Prompt() error = %v", err)
		}
		if got != want {
			t.Errorf("Prompt() = %q, want %q", got, want)
		}
	}

	if _, err := c.Prompt("> "); !errors.Is(err, ErrInputClosed) {
		t.Errorf("Prompt() at EOF error = %v, want ErrInputClosed", err)
	}
	if !strings.HasPrefix(out.String(), "> > > ") {
		t.Errorf("labels not written: %q", out.String())
	}
}

func TestChoice_UpperCases(t *testing.T) {
	c := New(strings.NewReader("g\n"), &bytes.Buffer{})
	got, err := c.Choice("? ")
	if err != nil || got != "G" {
		t.Errorf("Choice() = %q, %v; want G", got, err)
	}
}

func TestCardWindow(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)

	c.CardWindow(&flashcard.Card{ID: 3, Arabic: "كتاب", Spanish: "libro", Category: "objetos", Phonetic: "kitab"}, "EDIT MODE")

	for _, want := range []string{"EDIT MODE (ID: 3)", "ARABIC:    كتاب", "SPANISH:   libro", "CATEGORY:  objetos", "PHONETIC:  kitab"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("window missing %q:\n%s", want, out.String())
		}
	}
}

func TestMenu(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)
	c.Menu("What now?", MenuOption{Key: "1", Label: "Accept"}, MenuOption{Key: "4", Label: "Ignore"})

	want := "What now?\n [1] Accept\n [4] Ignore\n"
	if out.String() != want {
		t.Errorf("Menu() wrote %q, want %q", out.String(), want)
	}
}
