package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTextElement(t *testing.T) {
	bbox := [4]Point{
		{X: 100, Y: 40}, {X: 300, Y: 40},
		{X: 300, Y: 60}, {X: 100, Y: 60},
	}
	el := NewTextElement("Total", 0.9, bbox, 1000, 500)

	assert.InDelta(t, 200, el.Center.X, 0.001)
	assert.InDelta(t, 50, el.Center.Y, 0.001)
	assert.InDelta(t, 0.2, el.NormalizedCenter.X, 0.001)
	assert.InDelta(t, 0.1, el.NormalizedCenter.Y, 0.001)
}

func TestNewTextElementZeroDimensions(t *testing.T) {
	el := NewTextElement("x", 0.5, [4]Point{}, 0, 0)
	assert.Zero(t, el.NormalizedCenter.X)
	assert.Zero(t, el.NormalizedCenter.Y)
}

func TestSamePosition(t *testing.T) {
	bbox := [4]Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	a := NewTextElement("Total", 0.9, bbox, 100, 100)
	b := NewTextElement("Total", 0.5, bbox, 100, 100)
	c := NewTextElement("Subtotal", 0.9, bbox, 100, 100)

	assert.True(t, a.SamePosition(b))
	assert.False(t, a.SamePosition(c))
}

func TestHeuristicConfidence(t *testing.T) {
	base := HeuristicConfidence("x")
	assert.InDelta(t, 0.2, base, 0.001)

	// Date, currency and amount artifacts each bump the score.
	assert.Greater(t, HeuristicConfidence("2024-01-15"), base)
	assert.Greater(t, HeuristicConfidence("$1,150.00"), base)
	assert.Greater(t, HeuristicConfidence("Invoice Number INV-001"), base)

	assert.LessOrEqual(t, HeuristicConfidence("Total due 2024-01-15 $1,150.00 USD"), 1.0)
}
