package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectangleOverlaps(t *testing.T) {
	base := Rectangle{X: 10, Y: 10, Width: 100, Height: 100}
	tests := []struct {
		name     string
		other    Rectangle
		expected bool
	}{
		{"inside", Rectangle{X: 20, Y: 20, Width: 10, Height: 10}, true},
		{"partial", Rectangle{X: 100, Y: 100, Width: 50, Height: 50}, true},
		{"touching right edge", Rectangle{X: 110, Y: 10, Width: 20, Height: 20}, true},
		{"touching bottom edge", Rectangle{X: 10, Y: 110, Width: 20, Height: 20}, true},
		{"right of", Rectangle{X: 111, Y: 10, Width: 20, Height: 20}, false},
		{"above", Rectangle{X: 10, Y: 0, Width: 20, Height: 9}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, base.Overlaps(tt.other))
			assert.Equal(t, tt.expected, tt.other.Overlaps(base))
		})
	}
}

func TestRectangleGeometry(t *testing.T) {
	r := Rectangle{X: 150, Y: 150, Width: 100, Height: 100}
	assert.Equal(t, 10000, r.Area())
	assert.InDelta(t, 0, r.CenterDistance(400, 400), 1e-9)

	corner := Rectangle{X: 0, Y: 0, Width: 0, Height: 0}
	assert.InDelta(t, 0.5, corner.CenterDistance(300, 400), 1e-9)

	clipped := Rectangle{X: -10, Y: 90, Width: 50, Height: 50}.ClampTo(100, 100)
	assert.Equal(t, Rectangle{X: 0, Y: 90, Width: 40, Height: 10}, clipped)
}

func TestLargestFace(t *testing.T) {
	assert.Equal(t, -1, LargestFace(nil))
	faces := []DetectedFace{
		{Rectangle: Rectangle{Width: 10, Height: 10}},
		{Rectangle: Rectangle{Width: 20, Height: 5}},
		{Rectangle: Rectangle{Width: 5, Height: 20}},
		{Rectangle: Rectangle{Width: 4, Height: 4}},
	}
	assert.Equal(t, 0, LargestFace(faces), "first face wins ties")
}

func TestAnalysisErrorKinds(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("fetch: %w", NewNetworkError("could not fetch image", cause))

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, NetworkError, kind)
	assert.ErrorIs(t, wrapped, cause)

	var ae *AnalysisError
	assert.True(t, errors.As(wrapped, &ae))
	assert.True(t, ae.Retryable())
	assert.False(t, NewInputError("empty").(*AnalysisError).Retryable())

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsKind(nil, DecodeError))
}
