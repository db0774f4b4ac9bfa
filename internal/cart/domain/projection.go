package domain

import "sync"

// Projection is the local, immediately readable view of the cart. It is
// written only by the sync engine after a confirmed remote write; handlers
// may read it concurrently. Lines keep insertion order, one line per product.
type Projection struct {
	mu    sync.RWMutex
	lines []CartLine
	total float64
}

func NewProjection() *Projection {
	return &Projection{}
}

// Hydrate replaces the whole collection, used on identity activation.
func (p *Projection) Hydrate(lines []CartLine) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines = make([]CartLine, len(lines))
	copy(p.lines, lines)
	p.recompute()
}

// Upsert inserts a line or overwrites the existing line for the same product.
func (p *Projection) Upsert(line CartLine) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.lines {
		if p.lines[i].ProductID == line.ProductID {
			p.lines[i] = line
			p.recompute()
			return
		}
	}
	p.lines = append(p.lines, line)
	p.recompute()
}

func (p *Projection) RemoveByProduct(productID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, l := range p.lines {
		if l.ProductID == productID {
			p.lines = append(p.lines[:i], p.lines[i+1:]...)
			break
		}
	}
	p.recompute()
}

func (p *Projection) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines = nil
	p.total = 0
}

func (p *Projection) FindByProduct(productID string) (CartLine, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, l := range p.lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}

// Lines returns a copy, callers cannot mutate the projection through it.
func (p *Projection) Lines() []CartLine {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]CartLine, len(p.lines))
	copy(out, p.lines)
	return out
}

func (p *Projection) Total() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.total
}

func (p *Projection) LineCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.lines)
}

// ItemCount is the sum of all line quantities.
func (p *Projection) ItemCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, l := range p.lines {
		n += l.Quantity
	}
	return n
}

// recompute must be called with the write lock held.
func (p *Projection) recompute() {
	total := 0.0
	for _, l := range p.lines {
		total += l.Subtotal()
	}
	p.total = total
}
