package maintenance

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/flashmaint/internal/flashcard"
	"github.com/JonMunkholm/flashmaint/internal/logging"
	"github.com/JonMunkholm/flashmaint/internal/store"
)

// Deck is the in-memory snapshot of the flashcard table. Every mutation goes
// to the store first; the snapshot changes only after the store call
// succeeded, so a failed call leaves both sides as they were.
type Deck struct {
	store store.Store
	cards []*flashcard.Card
	index map[int64]*flashcard.Card

	updates int
	deletes int
}

// LoadDeck fetches the full table.
func LoadDeck(ctx context.Context, st store.Store) (*Deck, error) {
	rows, err := st.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	d := &Deck{
		store: st,
		cards: make([]*flashcard.Card, 0, len(rows)),
		index: make(map[int64]*flashcard.Card, len(rows)),
	}
	for i := range rows {
		c := &rows[i]
		if _, dup := d.index[c.ID]; dup {
			return nil, fmt.Errorf("store returned id %d twice", c.ID)
		}
		d.cards = append(d.cards, c)
		d.index[c.ID] = c
	}
	return d, nil
}

// Len returns the number of cards in the snapshot.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns the live cards in fetch order. The slice is a copy; the
// cards are shared with the deck.
func (d *Deck) Cards() []*flashcard.Card {
	out := make([]*flashcard.Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Get returns the card with the given id if it is still in the deck.
func (d *Deck) Get(id int64) (*flashcard.Card, bool) {
	c, ok := d.index[id]
	return c, ok
}

// Update writes fields to the store and then into card.
func (d *Deck) Update(ctx context.Context, card *flashcard.Card, fields flashcard.Fields) error {
	if err := d.store.Update(ctx, card.ID, fields); err != nil {
		return err
	}
	card.Apply(fields)
	d.updates++

	logging.FromContext(ctx).Debug("flashcard updated", "id", card.ID, "fields", len(fields))
	return nil
}

// Delete removes the card from the store and then from the snapshot.
func (d *Deck) Delete(ctx context.Context, id int64) error {
	if err := d.store.Delete(ctx, id); err != nil {
		return err
	}

	delete(d.index, id)
	for i, c := range d.cards {
		if c.ID == id {
			d.cards = append(d.cards[:i], d.cards[i+1:]...)
			break
		}
	}
	d.deletes++

	logging.FromContext(ctx).Debug("flashcard deleted", "id", id)
	return nil
}

// Mutations returns how many updates and deletes the store has accepted
// through this deck.
func (d *Deck) Mutations() (updates, deletes int) {
	return d.updates, d.deletes
}
