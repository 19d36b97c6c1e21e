package flashcard

import "testing"

func TestGroupByArabic_Partitions(t *testing.T) {
	cards := []*Card{
		{ID: 1, Arabic: "بيت"},
		{ID: 2, Arabic: "كتاب"},
		{ID: 3, Arabic: "بيت"},
		{ID: 4, Arabic: ""},
		{ID: 5, Arabic: "بيت"},
		{ID: 6, Arabic: ""},
	}

	groups := GroupByArabic(cards)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}

	seen := make(map[int64]int)
	for _, g := range groups {
		for _, c := range g.Cards {
			if c.Arabic != g.Arabic {
				t.Errorf("card %d (%q) in group %q", c.ID, c.Arabic, g.Arabic)
			}
			seen[c.ID]++
		}
	}
	if len(seen) != len(cards) {
		t.Errorf("union has %d cards, want %d", len(seen), len(cards))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("card %d appears in %d groups", id, n)
		}
	}

	// First-seen group order, input order within a group.
	if groups[0].Arabic != "بيت" || groups[1].Arabic != "كتاب" || groups[2].Arabic != "" {
		t.Errorf("unexpected group order: %q %q %q", groups[0].Arabic, groups[1].Arabic, groups[2].Arabic)
	}
	ids := []int64{groups[0].Cards[0].ID, groups[0].Cards[1].ID, groups[0].Cards[2].ID}
	if ids[0] != 1 || ids[1] != 3 || ids[2] != 5 {
		t.Errorf("member order = %v, want [1 3 5]", ids)
	}
}

func TestDuplicates_SkipsSingletons(t *testing.T) {
	cards := []*Card{
		{ID: 1, Arabic: "بيت"},
		{ID: 2, Arabic: "كتاب"},
		{ID: 3, Arabic: "بيت"},
	}
	dups := Duplicates(GroupByArabic(cards))
	if len(dups) != 1 {
		t.Fatalf("got %d duplicate groups, want 1", len(dups))
	}
	if dups[0].Arabic != "بيت" || len(dups[0].Cards) != 2 {
		t.Errorf("unexpected group %+v", dups[0])
	}
}

func TestGroup_Find(t *testing.T) {
	g := Group{Arabic: "بيت", Cards: []*Card{{ID: 1}, {ID: 9}}}
	if c, ok := g.Find(9); !ok || c.ID != 9 {
		t.Errorf("Find(9) = %v, %v", c, ok)
	}
	if _, ok := g.Find(2); ok {
		t.Error("Find(2) should miss")
	}
}
