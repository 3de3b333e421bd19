package topology

import "fmt"

// Direction is the wiring order of a row's LEDs relative to its
// logical column order.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Row describes one physical run of LEDs under a single step.
//
// Length is the row's logical width in columns. PhysicalStart is the
// first slot the row owns in the output wire order. VirtualPrefix is
// the count of leading logical columns that have no backing LED
// (shortened steps still occupy the full logical width so animations
// can address a uniform grid).
type Row struct {
	Length        int
	PhysicalStart int
	Direction     Direction
	VirtualPrefix int
}

// Grid is the immutable description of the whole staircase: an
// ordered row table plus derived totals. Construct once at startup
// via New; after that it is safe to share across goroutines without
// synchronization.
type Grid struct {
	rows   []Row
	total  int
	maxLen int
}

// New validates the row table and returns the grid. The table is
// copied; the caller may reuse its slice.
//
// Validation is deliberately exhaustive: every valid logical address
// is pushed through the slot formula and the resulting set must cover
// [0, Count()) with no overlaps. A wiring table that overlaps or
// leaves gaps would misaddress LEDs silently at runtime, so we refuse
// it here instead.
func New(rows []Row) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("topology: no rows")
	}
	g := &Grid{rows: make([]Row, len(rows))}
	copy(g.rows, rows)

	for i, r := range g.rows {
		if r.Length <= 0 {
			return nil, fmt.Errorf("topology: row %d has length %d", i, r.Length)
		}
		if r.PhysicalStart < 0 {
			return nil, fmt.Errorf("topology: row %d has negative physical start", i)
		}
		if r.VirtualPrefix < 0 || r.VirtualPrefix >= r.Length {
			return nil, fmt.Errorf("topology: row %d virtual prefix %d out of range for length %d",
				i, r.VirtualPrefix, r.Length)
		}
		if r.Length > g.maxLen {
			g.maxLen = r.Length
		}
		g.total += r.Length - r.VirtualPrefix
	}

	seen := make([]bool, g.total)
	for i, r := range g.rows {
		for col := r.VirtualPrefix; col < r.Length; col++ {
			s := g.Slot(i, col)
			if s < 0 || s >= g.total {
				return nil, fmt.Errorf("topology: row %d col %d maps to slot %d outside [0,%d)",
					i, col, s, g.total)
			}
			if seen[s] {
				return nil, fmt.Errorf("topology: row %d col %d maps to slot %d already owned by another address",
					i, col, s)
			}
			seen[s] = true
		}
	}
	// total addresses == total slots and no duplicates, so coverage
	// is already exact; no gap scan needed.

	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return len(g.rows) }

// Row returns the row description at index i.
func (g *Grid) Row(i int) Row { return g.rows[i] }

// MaxRowLength returns the logical grid width in columns.
func (g *Grid) MaxRowLength() int { return g.maxLen }

// Count returns the number of physical LEDs.
func (g *Grid) Count() int { return g.total }

// None is the sentinel slot meaning "write nowhere". It equals
// Count(), so it is never a valid index into the physical buffer.
func (g *Grid) None() int { return g.total }

// Slot maps a logical (row, column) address to its physical slot.
//
// It fails closed: out-of-range addresses and columns inside a row's
// virtual prefix return None rather than an error, so malformed
// animation math can never land on an unrelated LED. Callers must
// compare against None before writing, never treat it as slot 0.
func (g *Grid) Slot(row, col int) int {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= g.maxLen {
		return g.total
	}
	r := g.rows[row]
	if col >= r.Length || col < r.VirtualPrefix {
		return g.total
	}
	adjusted := col - r.VirtualPrefix
	if r.Direction == Forward {
		return r.PhysicalStart + adjusted
	}
	return r.PhysicalStart + (r.Length - 1 - adjusted)
}
