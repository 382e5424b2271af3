package report

import (
	"math/rand"
	"testing"
)

func assertPermutation(t *testing.T, cs *ColumnSet) {
	t.Helper()
	cols := cs.All()
	seen := make(map[int]bool)
	for _, c := range cols {
		if c.Order < 0 || c.Order >= len(cols) {
			t.Fatalf("order %d out of range [0,%d)", c.Order, len(cols))
		}
		if seen[c.Order] {
			t.Fatalf("duplicate order %d", c.Order)
		}
		seen[c.Order] = true
	}
}

func TestDefaultColumnsOrdered(t *testing.T) {
	cs := DefaultColumns()
	assertPermutation(t, cs)
	if cs.All()[0].ID != ColDate {
		t.Fatalf("first column = %s, want date", cs.All()[0].ID)
	}
}

func TestToggle(t *testing.T) {
	cs := DefaultColumns()
	before := len(cs.VisibleOrdered())
	cs.Toggle(ColDate)
	if got := len(cs.VisibleOrdered()); got != before-1 {
		t.Fatalf("visible after hide = %d, want %d", got, before-1)
	}
	cs.Toggle(ColDate)
	if got := len(cs.VisibleOrdered()); got != before {
		t.Fatalf("visible after unhide = %d, want %d", got, before)
	}
	cs.Toggle("no-such-column") // ignored
	assertPermutation(t, cs)
}

func TestReorder(t *testing.T) {
	cs := DefaultColumns()
	cs.Reorder(ColAmount, ColDate)
	assertPermutation(t, cs)
	if cs.All()[0].ID != ColAmount {
		t.Fatalf("first column = %s, want amount", cs.All()[0].ID)
	}
}

func TestReorderInvariantUnderRandomSequences(t *testing.T) {
	cs := DefaultColumns()
	ids := make([]string, 0)
	for _, c := range cs.All() {
		ids = append(ids, c.ID)
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		a := ids[rng.Intn(len(ids))]
		b := ids[rng.Intn(len(ids))]
		cs.Reorder(a, b)
		assertPermutation(t, cs)
	}
	if len(cs.All()) != len(ids) {
		t.Fatal("reordering must not add or drop columns")
	}
}

func TestVisibleOrderedRespectsOrder(t *testing.T) {
	cs := DefaultColumns()
	cs.Reorder(ColAmount, ColDate)
	vis := cs.VisibleOrdered()
	if vis[0].ID != ColAmount || vis[1].ID != ColDate {
		t.Fatalf("visible order = %s, %s; want amount, date", vis[0].ID, vis[1].ID)
	}
	for _, c := range vis {
		if !c.Visible {
			t.Fatalf("hidden column %s leaked into VisibleOrdered", c.ID)
		}
	}
}

func TestMove(t *testing.T) {
	list := []Column{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}

	moved := Move(list, 0, 2)
	want := []string{"b", "c", "a", "d"}
	for i, w := range want {
		if moved[i].ID != w {
			t.Fatalf("Move(0,2)[%d] = %s, want %s", i, moved[i].ID, w)
		}
	}

	// Out-of-range indexes leave the list as-is.
	same := Move(list, -1, 2)
	if len(same) != 4 || same[0].ID != "a" {
		t.Fatal("out-of-range Move must be a no-op")
	}
	same = Move(list, 1, 9)
	if same[1].ID != "b" {
		t.Fatal("out-of-range Move must be a no-op")
	}
}
