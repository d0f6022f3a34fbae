// Package grid implements a uniform broad-phase grid over the XZ plane. Every cell holds a
// linked list of the clients whose footprint covers it.
package grid

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/assert"
	"github.com/oomph-ac/sandbox/game"
	"github.com/oomph-ac/sandbox/oerror"
)

// Locatable is anything with a position and a size that can be indexed.
type Locatable interface {
	Position() mgl32.Vec3
	Dimensions() mgl32.Vec3
}

// Cell is the index of a grid cell on the X and Z axes.
type Cell [2]int

type node[T Locatable] struct {
	client     *Client[T]
	prev, next *node[T]
	cell       Cell
}

// Client is the grid's record of an indexed value.
type Client[T Locatable] struct {
	value    T
	min, max Cell
	nodes    []*node[T]
	// queryID is the last query that returned this client.
	queryID uint64
	removed bool
}

// Value returns the indexed value.
func (c *Client[T]) Value() T {
	return c.value
}

// Grid is a uniform grid of linked-list cells over a fixed rectangle.
type Grid[T Locatable] struct {
	min, max mgl32.Vec2
	dims     Cell
	cells    [][]*node[T]
	queryID  uint64
	clients  int
}

// New creates a grid over the rectangle min..max split into dims cells.
func New[T Locatable](min, max mgl32.Vec2, dims Cell) (*Grid[T], error) {
	if dims[0] < 1 || dims[1] < 1 || max.X() <= min.X() || max.Y() <= min.Y() {
		return nil, oerror.New(game.ErrorInvalidGrid, min, max, dims)
	}

	cells := make([][]*node[T], dims[0])
	for x := range cells {
		cells[x] = make([]*node[T], dims[1])
	}
	return &Grid[T]{min: min, max: max, dims: dims, cells: cells}, nil
}

// Bounds returns the rectangle covered by the grid.
func (g *Grid[T]) Bounds() (min, max mgl32.Vec2) {
	return g.min, g.max
}

// Dimensions returns the number of cells on each axis.
func (g *Grid[T]) Dimensions() Cell {
	return g.dims
}

// Len returns the number of indexed clients.
func (g *Grid[T]) Len() int {
	return g.clients
}

// Insert indexes v by its current footprint and returns its client.
func (g *Grid[T]) Insert(v T) *Client[T] {
	c := &Client[T]{value: v}
	c.min, c.max = g.footprint(v)
	g.link(c)
	g.clients++
	return c
}

// FindNear returns every value whose footprint shares a cell with the rectangle centred on
// center with the given half extents. Each value is returned once.
func (g *Grid[T]) FindNear(center, halfExtents mgl32.Vec2) []T {
	min, max := g.cellRange(center.Sub(halfExtents), center.Add(halfExtents))

	g.queryID++
	var found []T
	for x := min[0]; x <= max[0]; x++ {
		for z := min[1]; z <= max[1]; z++ {
			for n := g.cells[x][z]; n != nil; n = n.next {
				if n.client.queryID == g.queryID {
					continue
				}
				n.client.queryID = g.queryID
				found = append(found, n.client.value)
			}
		}
	}
	return found
}

// Update re-indexes a client after its value moved. Clients that still cover the same cells
// are left untouched, in which case false is returned.
func (g *Grid[T]) Update(c *Client[T]) bool {
	if c.removed {
		return false
	}
	min, max := g.footprint(c.value)
	if min == c.min && max == c.max {
		return false
	}

	g.unlink(c)
	c.min, c.max = min, max
	g.link(c)
	return true
}

// Remove unlinks a client from every cell it covers. Removing a client twice is a no-op.
func (g *Grid[T]) Remove(c *Client[T]) {
	if c.removed {
		return
	}
	g.unlink(c)
	c.removed = true
	g.clients--
}

// Cells returns the inclusive range of cells a client covers.
func (g *Grid[T]) Cells(c *Client[T]) (min, max Cell) {
	return c.min, c.max
}

func (g *Grid[T]) footprint(v T) (min, max Cell) {
	bb := game.BoxFromDimensions(v.Position(), v.Dimensions())
	return g.cellRange(game.Vec3Hz(bb.Min()), game.Vec3Hz(bb.Max()))
}

func (g *Grid[T]) cellRange(min, max mgl32.Vec2) (Cell, Cell) {
	return Cell{g.index(min.X(), 0), g.index(min.Y(), 1)}, Cell{g.index(max.X(), 0), g.index(max.Y(), 1)}
}

// index maps a coordinate on the given axis to its cell, clamping coordinates outside of the
// grid to the edge cells.
func (g *Grid[T]) index(coord float32, axis int) int {
	t := game.ClampFloat((coord-g.min[axis])/(g.max[axis]-g.min[axis]), 0, 1)
	return min(int(math32.Floor(t*float32(g.dims[axis]))), g.dims[axis]-1)
}

func (g *Grid[T]) link(c *Client[T]) {
	for x := c.min[0]; x <= c.max[0]; x++ {
		for z := c.min[1]; z <= c.max[1]; z++ {
			n := &node[T]{client: c, cell: Cell{x, z}, next: g.cells[x][z]}
			if n.next != nil {
				n.next.prev = n
			}
			g.cells[x][z] = n
			c.nodes = append(c.nodes, n)
		}
	}
}

func (g *Grid[T]) unlink(c *Client[T]) {
	for _, n := range c.nodes {
		if n.prev != nil {
			n.prev.next = n.next
		} else {
			assert.IsTrue(g.cells[n.cell[0]][n.cell[1]] == n, game.ErrorInternalGridClient, n.cell[0], n.cell[1])
			g.cells[n.cell[0]][n.cell[1]] = n.next
		}
		if n.next != nil {
			n.next.prev = n.prev
		}
	}
	c.nodes = c.nodes[:0]
}
