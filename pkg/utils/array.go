package utils

import (
	"golang.org/x/exp/constraints"
)

// Returns true if any item of the sequence satisfies the predicate
func Any[T any](input []T, pred func(T) bool) bool {
	for _, value := range input {
		if pred(value) {
			return true
		}
	}

	return false
}

// Returns a sequence with the items of the input sequence that satisfy the predicate
func Filter[T any](input []T, pred func(T) bool) []T {
	output := make([]T, 0, len(input))

	for _, value := range input {
		if pred(value) {
			output = append(output, value)
		}
	}

	return output
}

// Returns the biggest item of a sequence
func Max[T constraints.Ordered](input []T) T {
	max := input[0]

	for _, item := range input {
		if item > max {
			max = item
		}
	}

	return max
}
