package entities

import (
	"errors"
	"sort"
)

const (
	// MinNumber and MaxNumber bound the number universe players pick from.
	MinNumber = 1
	MaxNumber = 49

	// NumbersPerTicket is the count of distinct numbers on every ticket.
	NumbersPerTicket = 6

	// MinMatchForPrize is the lowest match count that pays a prize.
	MinMatchForPrize = 2
)

var (
	ErrWrongNumberCount = errors.New("ticket must hold exactly six numbers")
	ErrInvalidRange     = errors.New("number outside the allowed range")
	ErrDuplicateNumbers = errors.New("duplicate numbers on ticket")
)

// ValidateNumbers checks a candidate number set: exactly six entries, each in
// [MinNumber, MaxNumber], no duplicates. Pure and deterministic.
func ValidateNumbers(numbers []int) error {
	if len(numbers) != NumbersPerTicket {
		return ErrWrongNumberCount
	}
	seen := make(map[int]bool, NumbersPerTicket)
	for _, n := range numbers {
		if n < MinNumber || n > MaxNumber {
			return ErrInvalidRange
		}
		if seen[n] {
			return ErrDuplicateNumbers
		}
		seen[n] = true
	}
	return nil
}

// NormalizeNumbers returns the canonical (ascending) form of a number set.
// The input slice is not modified.
func NormalizeNumbers(numbers []int) []int {
	out := make([]int, len(numbers))
	copy(out, numbers)
	sort.Ints(out)
	return out
}

// CountMatches returns the size of the intersection of two number sets.
func CountMatches(a, b []int) int {
	set := make(map[int]bool, len(a))
	for _, n := range a {
		set[n] = true
	}
	matches := 0
	for _, n := range b {
		if set[n] {
			matches++
		}
	}
	return matches
}
