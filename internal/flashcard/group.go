package flashcard

// Group is a set of cards sharing the same Arabic text. It does not own the
// cards; members point into the caller's snapshot.
type Group struct {
	Arabic string
	Cards  []*Card
}

// Find returns the member with the given id.
func (g Group) Find(id int64) (*Card, bool) {
	for _, c := range g.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// GroupByArabic partitions cards by exact Arabic text. Groups are returned in
// the order their key was first seen and members keep their input order.
func GroupByArabic(cards []*Card) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, c := range cards {
		i, ok := index[c.Arabic]
		if !ok {
			i = len(groups)
			index[c.Arabic] = i
			groups = append(groups, Group{Arabic: c.Arabic})
		}
		groups[i].Cards = append(groups[i].Cards, c)
	}
	return groups
}

// Duplicates returns only the groups with more than one member.
func Duplicates(groups []Group) []Group {
	var out []Group
	for _, g := range groups {
		if len(g.Cards) > 1 {
			out = append(out, g)
		}
	}
	return out
}
