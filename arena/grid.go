package arena

import (
	"math"
	"sync"
)

// cell is one tile of the uniform grid: a membership set plus its own
// reader/writer lock. Readers (view ticks) and writers (insert/remove/
// update) contend only on cells they actually touch; there is no global
// grid lock.
type cell struct {
	mu      sync.RWMutex
	objects map[string]*Object
}

func newCell() *cell {
	return &cell{objects: make(map[string]*Object)}
}

// Grid is the process-wide shared spatial index: a fixed WIDTH x HEIGHT
// world partitioned into CELL_SIZE square cells. It is the only shared
// mutable state on the hot path; every other piece of worker state is
// thread-local to its owning worker.
type Grid struct {
	width, height int
	cellSize      int
	rows, cols    int
	cells         []*cell
}

// NewGrid allocates a grid over a height x width world with the given
// cell size.
func NewGrid(height, width, cellSize int) *Grid {
	rows := (height-1)/cellSize + 1
	cols := (width-1)/cellSize + 1
	cells := make([]*cell, rows*cols)
	for i := range cells {
		cells[i] = newCell()
	}
	return &Grid{
		width:    width,
		height:   height,
		cellSize: cellSize,
		rows:     rows,
		cols:     cols,
		cells:    cells,
	}
}

func (g *Grid) cellIndex(coord float64) int {
	return int(math.Floor(coord / float64(g.cellSize)))
}

func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Grid) at(row, col int) *cell {
	return g.cells[row*g.cols+col]
}

// Insert computes obj's cell from its stored y,x and adds it. Objects
// outside the world rectangle are silently dropped (I3).
func (g *Grid) Insert(obj *Object) {
	row := g.cellIndex(obj.Y)
	col := g.cellIndex(obj.X)
	if !g.inBounds(row, col) {
		return
	}
	obj.Row, obj.Col = row, col
	c := g.at(row, col)
	c.mu.Lock()
	c.objects[obj.ID] = obj
	c.mu.Unlock()
}

// Remove deletes obj from the cell recorded on obj.Row/Col — not a
// recomputed one. It is idempotent: removing an absent or already
// out-of-range object is a silent no-op (I2, I3).
func (g *Grid) Remove(obj *Object) {
	if obj == nil || !g.inBounds(obj.Row, obj.Col) {
		return
	}
	c := g.at(obj.Row, obj.Col)
	c.mu.Lock()
	delete(c.objects, obj.ID)
	c.mu.Unlock()
}

// Update projects obj to now, and re-indexes it only when the projection
// crosses a cell boundary. Within-cell advancement stays implicit in
// (vx, vy, TimeUpdate) and never touches the grid, so the anchor is only
// re-set on a cell transition.
func (g *Grid) Update(obj *Object, now int64) {
	curX := obj.CurX(now)
	curY := obj.CurY(now)
	newRow := g.cellIndex(curY)
	newCol := g.cellIndex(curX)
	if !g.inBounds(newRow, newCol) {
		return
	}
	if newRow == obj.Row && newCol == obj.Col {
		return
	}
	g.Remove(obj)
	obj.X, obj.Y = curX, curY
	obj.LifeLength -= now - obj.TimeUpdate
	obj.TimeUpdate = now
	g.Insert(obj)
}

// Search returns every object resident in the inclusive cell rectangle
// covering [yLo,yHi] x [xLo,xHi], clipped to the grid. Each cell is
// snapshotted under its own read lock; the result is not a single
// point-in-time view across cells, and callers tolerate membership that
// is stale by at most one tick.
func (g *Grid) Search(yLo, yHi, xLo, xHi float64) []*Object {
	if yLo > yHi || xLo > xHi {
		return nil
	}
	rawRowLo, rawRowHi := g.cellIndex(yLo), g.cellIndex(yHi)
	rawColLo, rawColHi := g.cellIndex(xLo), g.cellIndex(xHi)
	if rawRowHi < 0 || rawRowLo >= g.rows || rawColHi < 0 || rawColLo >= g.cols {
		return nil
	}
	rowLo := clamp(rawRowLo, 0, g.rows-1)
	rowHi := clamp(rawRowHi, 0, g.rows-1)
	colLo := clamp(rawColLo, 0, g.cols-1)
	colHi := clamp(rawColHi, 0, g.cols-1)

	var out []*Object
	for r := rowLo; r <= rowHi; r++ {
		for c := colLo; c <= colHi; c++ {
			cl := g.at(r, c)
			cl.mu.RLock()
			for _, obj := range cl.objects {
				out = append(out, obj)
			}
			cl.mu.RUnlock()
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
