package utils

import "iter"

// Number is any value a Window can average.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Window holds the most recent samples pushed to it, overwriting the oldest sample once it is full.
type Window[T Number] struct {
	items []T
	head  int
	size  int
}

// NewWindow creates a window holding up to capacity samples.
func NewWindow[T Number](capacity int) *Window[T] {
	return &Window[T]{items: make([]T, max(capacity, 1))}
}

// Push adds a sample, dropping the oldest one if the window is full.
func (w *Window[T]) Push(v T) {
	w.items[(w.head+w.size)%len(w.items)] = v
	if w.size == len(w.items) {
		w.head = (w.head + 1) % len(w.items)
		return
	}
	w.size++
}

// Len returns the number of samples held.
func (w *Window[T]) Len() int {
	return w.size
}

// Values returns the samples from oldest to newest.
func (w *Window[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range w.size {
			if !yield(w.items[(w.head+i)%len(w.items)]) {
				return
			}
		}
	}
}

// Mean returns the average of the samples held, or zero if there are none.
func (w *Window[T]) Mean() T {
	if w.size == 0 {
		return 0
	}
	var sum T
	for v := range w.Values() {
		sum += v
	}
	return sum / T(w.size)
}

// Reset drops every sample.
func (w *Window[T]) Reset() {
	w.head, w.size = 0, 0
}
