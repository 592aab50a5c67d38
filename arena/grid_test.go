package arena

import (
	"strconv"
	"sync"
	"testing"
)

func TestInsertRecordsCell(t *testing.T) {
	g := NewGrid(1600, 1600, 100)
	o := NewPlayer("A")
	o.X, o.Y = 250, 150
	g.Insert(o)

	if o.Row != 1 || o.Col != 2 {
		t.Fatalf("Row,Col = %d,%d, want 1,2", o.Row, o.Col)
	}
	found := g.Search(0, 1600, 0, 1600)
	if !containsID(found, "A") {
		t.Fatalf("expected A to be found after insert")
	}
}

func TestInsertOutOfBoundsDropped(t *testing.T) {
	g := NewGrid(1600, 1600, 100)
	o := NewPlayer("A")
	o.X, o.Y = -5, 0
	g.Insert(o)

	found := g.Search(-2000, 2000, -2000, 2000)
	if containsID(found, "A") {
		t.Fatalf("out-of-bounds object should never be indexed")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	g := NewGrid(1600, 1600, 100)
	o := NewPlayer("A")
	o.X, o.Y = 10, 10
	g.Insert(o)
	g.Remove(o)
	g.Remove(o) // second remove must not panic or error

	found := g.Search(0, 1600, 0, 1600)
	if containsID(found, "A") {
		t.Fatalf("removed object should not be found")
	}
}

func TestRemoveUsesStoredCellNotRecomputed(t *testing.T) {
	g := NewGrid(1600, 1600, 100)
	o := NewPlayer("A")
	o.X, o.Y = 10, 10
	g.Insert(o)

	// Mutate position without going through Update: Row/Col on the
	// object still point at the old cell, and Remove must honor that.
	o.X, o.Y = 900, 900
	g.Remove(o)

	old := g.Search(0, 100, 0, 100)
	if containsID(old, "A") {
		t.Fatalf("expected removal from the originally-indexed cell")
	}
}

func TestUpdateNoOpWithinSameCell(t *testing.T) {
	g := NewGrid(1600, 1600, 100)
	o := NewSnowball("snowball_A_1")
	o.X, o.Y = 10, 10
	o.VX = 1 // tiny drift, stays in cell (0,0)
	o.TimeUpdate = 0
	g.Insert(o)
	beforeX, beforeLife := o.X, o.LifeLength

	g.Update(o, 500)

	if o.X != beforeX {
		t.Fatalf("within-cell update should not rewrite stored X")
	}
	if o.LifeLength != beforeLife {
		t.Fatalf("within-cell update should not touch LifeLength")
	}
}

func TestUpdateReindexesOnCellTransition(t *testing.T) {
	g := NewGrid(1600, 1600, 100)
	o := NewSnowball("snowball_A_1")
	o.X, o.Y = 10, 10
	o.VX = 1000 // crosses into the next cell within 100ms
	o.TimeUpdate = 0
	o.LifeLength = 10_000
	g.Insert(o)

	g.Update(o, 200)

	if o.Col == 0 {
		t.Fatalf("expected column to advance past the first cell")
	}
	found := g.Search(0, 1600, 0, 1600)
	if !containsID(found, "snowball_A_1") {
		t.Fatalf("expected snowball still indexed after transition")
	}
}

func TestUpdateOutOfBoundsNoOp(t *testing.T) {
	g := NewGrid(1600, 1600, 100)
	o := NewSnowball("snowball_A_1")
	o.X, o.Y = 10, 10
	o.VX = -1_000_000
	o.TimeUpdate = 0
	g.Insert(o)

	g.Update(o, 1)

	if o.X != 10 {
		t.Fatalf("out-of-bounds projection should leave stored position untouched")
	}
}

func TestSearchEmptyOnInvertedRange(t *testing.T) {
	g := NewGrid(1600, 1600, 100)
	o := NewPlayer("A")
	o.X, o.Y = 10, 10
	g.Insert(o)

	found := g.Search(100, 0, 0, 100)
	if len(found) != 0 {
		t.Fatalf("inverted y range should return empty, got %d", len(found))
	}
}

func TestInsertFloorDivisionBoundary(t *testing.T) {
	g := NewGrid(1600, 1600, 100)
	o := NewPlayer("A")
	o.X, o.Y = 100, 0 // exactly on the col boundary between cell 0 and cell 1
	g.Insert(o)

	if o.Col != 1 {
		t.Fatalf("floor(100/100)=1, got col=%d", o.Col)
	}
}

func TestSearchClipsToGrid(t *testing.T) {
	g := NewGrid(1600, 1600, 100)
	o := NewPlayer("A")
	o.X, o.Y = 10, 10
	g.Insert(o)

	found := g.Search(-10_000, 10_000, -10_000, 10_000)
	if !containsID(found, "A") {
		t.Fatalf("search clipped to the grid should still find in-range objects")
	}
}

func TestSearchOutsideGridEntirelyReturnsEmpty(t *testing.T) {
	g := NewGrid(1600, 1600, 100)
	o := NewPlayer("A")
	o.X, o.Y = 10, 10
	g.Insert(o)

	found := g.Search(-5000, -4000, -5000, -4000)
	if len(found) != 0 {
		t.Fatalf("query rectangle entirely outside the grid should be empty, got %d", len(found))
	}
}

// TestConcurrentInsertSearchNoRace exercises concurrent writers on
// distinct cells and a reader sweeping the whole grid, the shape of
// contention view ticks and object ticks produce in production.
func TestConcurrentInsertSearchNoRace(t *testing.T) {
	g := NewGrid(1600, 1600, 100)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o := NewSnowball("snowball_w_" + strconv.Itoa(i))
			o.X = float64((i % 16) * 100)
			o.Y = float64((i / 16) * 100)
			g.Insert(o)
		}(i)
	}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Search(0, 1600, 0, 1600)
		}()
	}
	wg.Wait()
}

func containsID(objs []*Object, id string) bool {
	for _, o := range objs {
		if o.ID == id {
			return true
		}
	}
	return false
}
