package maintenance

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/JonMunkholm/flashmaint/internal/console"
	"github.com/JonMunkholm/flashmaint/internal/flashcard"
	"github.com/JonMunkholm/flashmaint/internal/store"
)

type updateCall struct {
	id     int64
	fields flashcard.Fields
}

// fakeStore records every mutation and can be told to fail.
type fakeStore struct {
	cards    []flashcard.Card
	fetchErr error
	mutErr   error

	updates []updateCall
	deletes []int64
}

func (s *fakeStore) FetchAll(ctx context.Context) ([]flashcard.Card, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	out := make([]flashcard.Card, len(s.cards))
	copy(out, s.cards)
	return out, nil
}

func (s *fakeStore) Update(ctx context.Context, id int64, fields flashcard.Fields) error {
	if s.mutErr != nil {
		return s.mutErr
	}
	cp := make(flashcard.Fields, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	s.updates = append(s.updates, updateCall{id: id, fields: cp})
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id int64) error {
	if s.mutErr != nil {
		return s.mutErr
	}
	s.deletes = append(s.deletes, id)
	return nil
}

var _ store.Store = (*fakeStore)(nil)

// fakeAuditor answers each batch through fn and records batch sizes.
type fakeAuditor struct {
	fn      func(call int, batch []flashcard.Projection) ([]flashcard.Finding, error)
	batches []int
}

func (a *fakeAuditor) Audit(ctx context.Context, batch []flashcard.Projection) ([]flashcard.Finding, error) {
	call := len(a.batches)
	a.batches = append(a.batches, len(batch))
	if a.fn == nil {
		return nil, nil
	}
	return a.fn(call, batch)
}

// newTestConsole returns a console that reads the given lines.
func newTestConsole(lines ...string) (*console.Console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	input := ""
	if len(lines) > 0 {
		input = strings.Join(lines, "\n") + "\n"
	}
	return console.New(strings.NewReader(input), out), out
}

func loadTestDeck(t *testing.T, st *fakeStore) *Deck {
	t.Helper()
	deck, err := LoadDeck(context.Background(), st)
	if err != nil {
		t.Fatalf("LoadDeck() error = %v", err)
	}
	return deck
}

func deckIDs(d *Deck) []int64 {
	ids := make([]int64, 0, d.Len())
	for _, c := range d.Cards() {
		ids = append(ids, c.ID)
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
