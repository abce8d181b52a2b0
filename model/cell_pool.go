package model

import "sync"

// CellPool recycles cell buffers between generations
type CellPool struct {
	pool sync.Pool
}

func NewCellPool() *CellPool {
	return &CellPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new([]Cell)
			},
		},
	}
}

// Get retrieves a buffer of exactly n cells. Its contents are unspecified,
// callers are expected to overwrite every cell.
func (p *CellPool) Get(n int) []Cell {
	buf := p.pool.Get().(*[]Cell)
	if cap(*buf) < n {
		*buf = make([]Cell, n)
	}
	return (*buf)[:n]
}

// Put returns a buffer to the pool for reuse
func (p *CellPool) Put(cells []Cell) {
	if cells == nil {
		return
	}
	p.pool.Put(&cells)
}
