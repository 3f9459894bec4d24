package planner

import "github.com/globetrotter-app/globetrotter/internal/types"

// Move relocates the stop at index from to index to, shifting everything in
// between by one. The relative order of the other stops is preserved.
// Out-of-range indices return the slice unchanged. The input is not modified.
func Move(stops []types.Stop, from, to int) []types.Stop {
	n := len(stops)
	out := make([]types.Stop, n)
	copy(out, stops)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return out
	}
	moved := out[from]
	if from < to {
		copy(out[from:], out[from+1:to+1])
	} else {
		copy(out[to+1:], out[to:from])
	}
	out[to] = moved
	return out
}

// NextOrderIndex returns the order index a newly appended stop should get:
// one past the current maximum, or zero for an empty list. Stored indices may
// be sparse after deletions, so this scans for the max rather than using len.
func NextOrderIndex(stops []types.Stop) int {
	next := 0
	for _, s := range stops {
		if s.OrderIndex >= next {
			next = s.OrderIndex + 1
		}
	}
	return next
}

// Renumber assigns dense zero-based order indices following slice position.
// The input is not modified.
func Renumber(stops []types.Stop) []types.Stop {
	out := make([]types.Stop, len(stops))
	copy(out, stops)
	for i := range out {
		out[i].OrderIndex = i
	}
	return out
}
