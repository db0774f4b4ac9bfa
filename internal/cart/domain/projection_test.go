package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(productID string, price float64, qty int) CartLine {
	return CartLine{
		LineID:    "line-" + productID,
		ProductID: productID,
		Name:      "product " + productID,
		UnitPrice: price,
		Quantity:  qty,
	}
}

func TestHydrate_ReplacesAndRecomputes(t *testing.T) {
	p := NewProjection()
	p.Upsert(line("stale", 99, 1))

	p.Hydrate([]CartLine{line("a", 10, 2), line("b", 5, 1)})

	assert.Equal(t, 2, p.LineCount())
	assert.Equal(t, 3, p.ItemCount())
	assert.InDelta(t, 25.0, p.Total(), 1e-9)

	_, ok := p.FindByProduct("stale")
	assert.False(t, ok)
}

func TestUpsert_OverwritesSameProduct(t *testing.T) {
	p := NewProjection()
	p.Upsert(line("a", 10, 2))
	p.Upsert(line("b", 5, 1))

	updated := line("a", 10, 7)
	p.Upsert(updated)

	// One line per product, order preserved.
	require.Equal(t, 2, p.LineCount())
	lines := p.Lines()
	assert.Equal(t, "a", lines[0].ProductID)
	assert.Equal(t, 7, lines[0].Quantity)
	assert.InDelta(t, 75.0, p.Total(), 1e-9)
}

func TestRemoveByProduct(t *testing.T) {
	p := NewProjection()
	p.Upsert(line("a", 10, 2))
	p.Upsert(line("b", 5, 3))

	p.RemoveByProduct("a")

	_, ok := p.FindByProduct("a")
	assert.False(t, ok)
	assert.Equal(t, 1, p.LineCount())
	assert.InDelta(t, 15.0, p.Total(), 1e-9)
}

func TestRemoveByProduct_AbsentIsNoop(t *testing.T) {
	p := NewProjection()
	p.Upsert(line("a", 10, 2))

	p.RemoveByProduct("nope")

	assert.Equal(t, 1, p.LineCount())
	assert.InDelta(t, 20.0, p.Total(), 1e-9)
}

func TestClear(t *testing.T) {
	p := NewProjection()
	p.Upsert(line("a", 10, 2))

	p.Clear()

	assert.Equal(t, 0, p.LineCount())
	assert.Equal(t, 0, p.ItemCount())
	assert.Zero(t, p.Total())
}

func TestLines_ReturnsCopy(t *testing.T) {
	p := NewProjection()
	p.Upsert(line("a", 10, 2))

	lines := p.Lines()
	lines[0].Quantity = 99

	got, ok := p.FindByProduct("a")
	require.True(t, ok)
	assert.Equal(t, 2, got.Quantity)
}

func TestTotal_MatchesRecomputationFromScratch(t *testing.T) {
	p := NewProjection()
	p.Upsert(line("a", 3.5, 2))
	p.Upsert(line("b", 1.25, 4))
	p.Upsert(line("a", 3.5, 5))
	p.RemoveByProduct("b")
	p.Upsert(line("c", 0.99, 3))

	expected := 0.0
	for _, l := range p.Lines() {
		expected += l.UnitPrice * float64(l.Quantity)
	}
	assert.InDelta(t, expected, p.Total(), 1e-9)
}
