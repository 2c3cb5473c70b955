package progress

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// RoundSet is a set of round indices within one level.
type RoundSet map[int]struct{}

// NewRoundSet returns a set holding rounds.
func NewRoundSet(rounds ...int) RoundSet {
	s := make(RoundSet, len(rounds))
	for _, r := range rounds {
		s[r] = struct{}{}
	}
	return s
}

// Has reports whether round is in the set.
func (s RoundSet) Has(round int) bool {
	_, ok := s[round]
	return ok
}

// Len returns the number of rounds in the set.
func (s RoundSet) Len() int { return len(s) }

// Sorted returns the rounds in ascending order.
func (s RoundSet) Sorted() []int {
	return slices.Sorted(maps.Keys(s))
}

// Union returns a new set with the rounds of s and other.
func (s RoundSet) Union(other RoundSet) RoundSet {
	out := maps.Clone(s)
	if out == nil {
		out = RoundSet{}
	}
	maps.Copy(out, other)
	return out
}

// Without returns a new set with the rounds of s that are not in other.
func (s RoundSet) Without(other RoundSet) RoundSet {
	out := make(RoundSet, len(s))
	for r := range s {
		if !other.Has(r) {
			out[r] = struct{}{}
		}
	}
	return out
}

func encodeSet(s RoundSet) string {
	parts := make([]string, 0, len(s))
	for _, r := range s.Sorted() {
		parts = append(parts, strconv.Itoa(r))
	}
	return strings.Join(parts, ",")
}

// decodeSet parses a persisted set. Entries that are not non-negative
// integers are dropped one by one; the count of dropped entries is returned.
func decodeSet(v string) (RoundSet, int) {
	s := RoundSet{}
	dropped := 0
	for part := range strings.SplitSeq(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := strconv.Atoi(part)
		if err != nil || r < 0 {
			dropped++
			continue
		}
		s[r] = struct{}{}
	}
	return s, dropped
}

func encodeErrors(m map[int]int) string {
	parts := make([]string, 0, len(m))
	for _, r := range slices.Sorted(maps.Keys(m)) {
		parts = append(parts, strconv.Itoa(r)+":"+strconv.Itoa(m[r]))
	}
	return strings.Join(parts, ",")
}

// decodeErrors parses "round:errors" pairs, dropping malformed entries.
func decodeErrors(v string) (map[int]int, int) {
	m := map[int]int{}
	dropped := 0
	for part := range strings.SplitSeq(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		rs, es, ok := strings.Cut(part, ":")
		r, err1 := strconv.Atoi(rs)
		e, err2 := strconv.Atoi(es)
		if !ok || err1 != nil || err2 != nil || r < 0 || e < 0 {
			dropped++
			continue
		}
		m[r] = e
	}
	return m, dropped
}
