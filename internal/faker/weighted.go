package faker

import (
	"errors"
	"fmt"
)

var ErrInvalidWeights = errors.New("invalid weights")

// Source is the minimal randomness a Weighted draw needs.
type Source interface {
	Float64() float64
}

// Weighted draws one outcome from a fixed set with relative weights.
// Weights need not sum to one.
type Weighted[T any] struct {
	outcomes   []T
	cumulative []float64
	total      float64
}

func NewWeighted[T any](outcomes []T, weights []float64) (*Weighted[T], error) {
	if len(outcomes) == 0 {
		return nil, fmt.Errorf("%w: no outcomes", ErrInvalidWeights)
	}
	if len(outcomes) != len(weights) {
		return nil, fmt.Errorf("%w: %d outcomes but %d weights", ErrInvalidWeights, len(outcomes), len(weights))
	}

	w := &Weighted[T]{
		outcomes:   append([]T(nil), outcomes...),
		cumulative: make([]float64, len(weights)),
	}
	for i, weight := range weights {
		if weight < 0 {
			return nil, fmt.Errorf("%w: negative weight %v for outcome %d", ErrInvalidWeights, weight, i)
		}
		w.total += weight
		w.cumulative[i] = w.total
	}
	if w.total <= 0 {
		return nil, fmt.Errorf("%w: weights sum to zero", ErrInvalidWeights)
	}
	return w, nil
}

// MustWeighted is NewWeighted for fixed tables known at compile time.
func MustWeighted[T any](outcomes []T, weights []float64) *Weighted[T] {
	w, err := NewWeighted(outcomes, weights)
	if err != nil {
		panic(err)
	}
	return w
}

func (w *Weighted[T]) Draw(src Source) T {
	target := src.Float64() * w.total
	for i, c := range w.cumulative {
		if target < c {
			return w.outcomes[i]
		}
	}
	return w.outcomes[len(w.outcomes)-1]
}

func (w *Weighted[T]) Outcomes() []T {
	return append([]T(nil), w.outcomes...)
}

// Probability returns the normalized weight of outcome i.
func (w *Weighted[T]) Probability(i int) float64 {
	prev := 0.0
	if i > 0 {
		prev = w.cumulative[i-1]
	}
	return (w.cumulative[i] - prev) / w.total
}
