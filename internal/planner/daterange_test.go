package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"five day range", "2026-03-01", "2026-03-05", 5},
		{"same day counts as one", "2026-03-01", "2026-03-01", 1},
		{"two days", "2026-03-01", "2026-03-02", 2},
		{"crosses month boundary", "2026-02-27", "2026-03-02", 4},
		{"crosses year boundary", "2025-12-30", "2026-01-02", 4},
		{"end before start clamps to one", "2026-03-05", "2026-03-01", 1},
		{"malformed start", "not-a-date", "2026-03-05", 0},
		{"malformed end", "2026-03-01", "03/05/2026", 0},
		{"both empty", "", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Days(tt.start, tt.end))
		})
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name  string
		day   string
		start string
		end   string
		want  bool
	}{
		{"inside range", "2026-03-03", "2026-03-01", "2026-03-05", true},
		{"first day inclusive", "2026-03-01", "2026-03-01", "2026-03-05", true},
		{"last day inclusive", "2026-03-05", "2026-03-01", "2026-03-05", true},
		{"day before", "2026-02-28", "2026-03-01", "2026-03-05", false},
		{"day after", "2026-03-06", "2026-03-01", "2026-03-05", false},
		{"single day range", "2026-03-01", "2026-03-01", "2026-03-01", true},
		{"malformed day", "soon", "2026-03-01", "2026-03-05", false},
		{"malformed range", "2026-03-03", "", "2026-03-05", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Contains(tt.day, tt.start, tt.end))
		})
	}
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps("2026-03-01", "2026-03-05", "2026-03-05", "2026-03-10"), "shared boundary day overlaps")
	assert.True(t, Overlaps("2026-03-01", "2026-03-10", "2026-03-03", "2026-03-04"), "contained range overlaps")
	assert.False(t, Overlaps("2026-03-01", "2026-03-05", "2026-03-06", "2026-03-10"))
	assert.False(t, Overlaps("bad", "2026-03-05", "2026-03-06", "2026-03-10"))
}
