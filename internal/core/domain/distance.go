package domain

import (
	"fmt"
	"math"
)

// Distance returns the dissimilarity of a and b in space s. Lower is
// closer. An empty space is treated as squared L2.
func (s DistanceSpace) Distance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: vector length %d != %d", ErrInvalidInput, len(a), len(b))
	}

	var dot, sq, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		d := x - y
		sq += d * d
		dot += x * y
		na += x * x
		nb += y * y
	}

	switch s {
	case SpaceL2, "":
		return sq, nil
	case SpaceIP:
		return 1 - dot, nil
	case SpaceCosine:
		if na == 0 || nb == 0 {
			return 1, nil
		}
		return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb)), nil
	default:
		return 0, fmt.Errorf("%w: unknown distance space %q", ErrInvalidInput, s)
	}
}
