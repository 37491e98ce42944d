package cis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseNum splits a dotted control number into its integer components.
// A non-integer component is an error; callers are expected to let it
// propagate (malformed numbers mean the source document was misread).
func ParseNum(num string) ([]int, error) {
	parts := strings.Split(num, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("control number %q: component %q is not an integer", num, p)
		}
		out[i] = n
	}
	return out, nil
}

// CompareNum orders two parsed control numbers lexicographically by
// component. Shorter prefixes sort first ("1.1" before "1.1.1").
func CompareNum(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// SortByNum sorts records ascending by the integer tuple of Num.
// All numbers are parsed before any reordering so a malformed component
// fails the whole step without leaving the slice half-sorted.
func SortByNum(recs []Recommendation) error {
	keys := make([][]int, len(recs))
	for i, r := range recs {
		k, err := ParseNum(r.Num)
		if err != nil {
			return fmt.Errorf("sort recommendations: %w", err)
		}
		keys[i] = k
	}
	sort.Stable(&byNum{recs: recs, keys: keys})
	return nil
}

// byNum keeps the precomputed keys aligned with the records while sorting.
type byNum struct {
	recs []Recommendation
	keys [][]int
}

func (s *byNum) Len() int { return len(s.recs) }

func (s *byNum) Less(i, j int) bool { return CompareNum(s.keys[i], s.keys[j]) < 0 }

func (s *byNum) Swap(i, j int) {
	s.recs[i], s.recs[j] = s.recs[j], s.recs[i]
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
}

// DedupeByNum drops records whose Num was already seen, keeping the first
// occurrence and the original order.
func DedupeByNum(recs []Recommendation) []Recommendation {
	seen := make(map[string]struct{}, len(recs))
	out := recs[:0:0]
	for _, r := range recs {
		if _, dup := seen[r.Num]; dup {
			continue
		}
		seen[r.Num] = struct{}{}
		out = append(out, r)
	}
	return out
}
