package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		numbers []int
		wantErr error
	}{
		{
			name:    "valid ascending set",
			numbers: []int{1, 2, 3, 4, 5, 6},
			wantErr: nil,
		},
		{
			name:    "valid unordered set",
			numbers: []int{49, 1, 25, 13, 7, 42},
			wantErr: nil,
		},
		{
			name:    "too few numbers",
			numbers: []int{1, 2, 3, 4, 5},
			wantErr: ErrWrongNumberCount,
		},
		{
			name:    "too many numbers",
			numbers: []int{1, 2, 3, 4, 5, 6, 7},
			wantErr: ErrWrongNumberCount,
		},
		{
			name:    "zero below range",
			numbers: []int{0, 2, 3, 4, 5, 6},
			wantErr: ErrInvalidRange,
		},
		{
			name:    "fifty above range",
			numbers: []int{1, 2, 3, 4, 5, 50},
			wantErr: ErrInvalidRange,
		},
		{
			name:    "negative number",
			numbers: []int{-1, 2, 3, 4, 5, 6},
			wantErr: ErrInvalidRange,
		},
		{
			name:    "duplicate numbers",
			numbers: []int{1, 2, 3, 4, 5, 5},
			wantErr: ErrDuplicateNumbers,
		},
		{
			name:    "empty set",
			numbers: nil,
			wantErr: ErrWrongNumberCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNumbers(tt.numbers)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNumbers_AcceptsEveryBoundary(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateNumbers([]int{MinNumber, 2, 3, 4, 5, MaxNumber}))
}

func TestNormalizeNumbers(t *testing.T) {
	t.Parallel()

	input := []int{42, 1, 25, 13, 7, 49}
	got := NormalizeNumbers(input)

	assert.Equal(t, []int{1, 7, 13, 25, 42, 49}, got)
	// Input must stay untouched.
	assert.Equal(t, []int{42, 1, 25, 13, 7, 49}, input)
}

func TestCountMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    []int
		b    []int
		want int
	}{
		{"identical sets", []int{1, 2, 3, 4, 5, 6}, []int{1, 2, 3, 4, 5, 6}, 6},
		{"disjoint sets", []int{1, 2, 3, 4, 5, 6}, []int{7, 8, 9, 10, 11, 12}, 0},
		{"three overlapping", []int{1, 2, 3, 4, 5, 6}, []int{4, 5, 6, 7, 8, 9}, 3},
		{"order independent", []int{6, 5, 4, 3, 2, 1}, []int{1, 3, 5, 7, 9, 11}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountMatches(tt.a, tt.b))
		})
	}
}
