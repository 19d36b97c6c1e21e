package maintenance

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/JonMunkholm/flashmaint/internal/console"
	"github.com/JonMunkholm/flashmaint/internal/flashcard"
)

func duplicateDeck() []flashcard.Card {
	return []flashcard.Card{
		{ID: 1, Arabic: "كتاب", Spanish: "libro"},
		{ID: 2, Arabic: "كتاب", Spanish: "livro"},
		{ID: 3, Arabic: "كتاب", Spanish: "libro"},
		{ID: 4, Arabic: "قلم", Spanish: "lápiz"},
	}
}

func runResolver(t *testing.T, st *fakeStore, input ...string) (DuplicateStats, *Deck, string, error) {
	t.Helper()
	deck := loadTestDeck(t, st)
	con, out := newTestConsole(input...)
	stats, err := NewDuplicateResolver(deck, con, NewEditor(deck, con)).Run(context.Background())
	return stats, deck, out.String(), err
}

func TestDuplicateResolver_KeepOne(t *testing.T) {
	st := &fakeStore{cards: duplicateDeck()}

	stats, deck, out, err := runResolver(t, st, "2")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !equalIDs(st.deletes, []int64{1, 3}) {
		t.Errorf("deletes = %v, want [1 3]", st.deletes)
	}
	if got := deckIDs(deck); !equalIDs(got, []int64{2, 4}) {
		t.Errorf("deck ids = %v, want [2 4]", got)
	}
	if stats.Groups != 1 || stats.Resolved != 1 || stats.Deleted != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if !strings.Contains(out, "appears 3 times") {
		t.Errorf("output missing conflict header:\n%s", out)
	}
}

func TestDuplicateResolver_InvalidIDReprompts(t *testing.T) {
	st := &fakeStore{cards: duplicateDeck()}

	stats, deck, out, err := runResolver(t, st, "4", "99", "Z", "s")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(st.deletes) != 0 || len(st.updates) != 0 {
		t.Errorf("mutations issued: deletes=%v updates=%v", st.deletes, st.updates)
	}
	if deck.Len() != 4 {
		t.Errorf("Len() = %d, want 4", deck.Len())
	}
	if got := strings.Count(out, "ID not found in this group."); got != 2 {
		t.Errorf("not-found message shown %d times, want 2", got)
	}
	if got := strings.Count(out, "Action: "); got != 4 {
		t.Errorf("prompted %d times, want 4", got)
	}
	if stats.Skipped != 1 || stats.Resolved != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDuplicateResolver_EditThenKeep(t *testing.T) {
	st := &fakeStore{cards: duplicateDeck()[:2]}

	stats, deck, out, err := runResolver(t, st,
		"M", "x", // invalid id
		"M", "7", // not in group
		"M", "2", // edit card 2
		"2", "libro", "G",
		"2",
	)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(out, "Invalid ID.") || !strings.Contains(out, "ID not in this group.") {
		t.Errorf("output missing edit id errors:\n%s", out)
	}
	if len(st.updates) != 1 || st.updates[0].id != 2 || st.updates[0].fields[flashcard.FieldSpanish] != "libro" {
		t.Errorf("updates = %+v, want spanish=libro on id 2", st.updates)
	}
	if !equalIDs(st.deletes, []int64{1}) {
		t.Errorf("deletes = %v, want [1]", st.deletes)
	}
	card, ok := deck.Get(2)
	if !ok || card.Spanish != "libro" {
		t.Errorf("card 2 = %+v, %v", card, ok)
	}
	if stats.Resolved != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDuplicateResolver_SkipAndNoDuplicates(t *testing.T) {
	st := &fakeStore{cards: duplicateDeck()}
	stats, _, _, err := runResolver(t, st, "S")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Skipped != 1 || len(st.deletes) != 0 {
		t.Errorf("stats = %+v deletes = %v", stats, st.deletes)
	}

	unique := &fakeStore{cards: duplicateDeck()[2:]}
	stats, _, out, err := runResolver(t, unique)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Groups != 0 || out != "" {
		t.Errorf("stats = %+v output = %q, want nothing", stats, out)
	}
}

func TestDuplicateResolver_Errors(t *testing.T) {
	t.Run("input closed", func(t *testing.T) {
		_, _, _, err := runResolver(t, &fakeStore{cards: duplicateDeck()})
		if !errors.Is(err, console.ErrInputClosed) {
			t.Errorf("Run() error = %v, want ErrInputClosed", err)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		st := &fakeStore{cards: duplicateDeck()}
		deck := loadTestDeck(t, st)
		st.mutErr = errors.New("connection reset by peer")
		con, _ := newTestConsole("1")

		_, err := NewDuplicateResolver(deck, con, NewEditor(deck, con)).Run(context.Background())
		if err == nil || !strings.Contains(err.Error(), "delete duplicate 2") {
			t.Fatalf("Run() error = %v", err)
		}
		if deck.Len() != 4 {
			t.Errorf("Len() = %d, want 4", deck.Len())
		}
	})
}
