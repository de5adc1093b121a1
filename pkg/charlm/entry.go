package charlm

import (
	"fmt"
	"strconv"
	"strings"
)

// FrequencyEntry tracks one character observed after a window, along with
// how often it was seen and the probabilities derived from that count.
type FrequencyEntry struct {
	Char                  rune    `json:"char"`
	Count                 int     `json:"count"`
	Probability           float64 `json:"probability"`
	CumulativeProbability float64 `json:"cumulative_probability"`
}

// String renders the entry as "(c count p cp)".
func (e FrequencyEntry) String() string {
	return fmt.Sprintf("(%c %d %s %s)", e.Char, e.Count,
		strconv.FormatFloat(e.Probability, 'g', -1, 64),
		strconv.FormatFloat(e.CumulativeProbability, 'g', -1, 64))
}

// EntryList is the ordered list of characters observed after a single window.
// Entries keep the order in which their characters were first observed, and
// that order is the one used both to accumulate cumulative probabilities and
// to sample from them.
type EntryList struct {
	entries []FrequencyEntry
}

// Update increments the count of c, appending a new entry with a count of 1
// if c has not been observed in this list before.
func (l *EntryList) Update(c rune) {
	if i := l.IndexOf(c); i >= 0 {
		l.entries[i].Count++
		return
	}
	l.entries = append(l.entries, FrequencyEntry{Char: c, Count: 1})
}

// IndexOf returns the position of c in the list, or -1 if it is absent.
func (l *EntryList) IndexOf(c rune) int {
	for i := range l.entries {
		if l.entries[i].Char == c {
			return i
		}
	}
	return -1
}

// Len returns the number of distinct characters in the list.
func (l *EntryList) Len() int {
	return len(l.entries)
}

// At returns a copy of the entry at position i.
func (l *EntryList) At(i int) FrequencyEntry {
	return l.entries[i]
}

// Entries returns a copy of the entries in list order.
func (l *EntryList) Entries() []FrequencyEntry {
	out := make([]FrequencyEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// TotalCount returns the sum of all counts in the list.
func (l *EntryList) TotalCount() int {
	total := 0
	for _, e := range l.entries {
		total += e.Count
	}
	return total
}

// Finalize computes the probability and cumulative probability of every entry
// from the current counts. The running total is accumulated in floating
// point, so the last cumulative probability equals 1.0 only up to rounding.
// It returns ErrEmptyDistribution if the list holds no observations.
func (l *EntryList) Finalize() error {
	total := l.TotalCount()
	if total <= 0 {
		return ErrEmptyDistribution
	}
	running := 0.0
	for i := range l.entries {
		e := &l.entries[i]
		e.Probability = float64(e.Count) / float64(total)
		running += e.Probability
		e.CumulativeProbability = running
	}
	return nil
}

// String renders the list as space separated entries wrapped in parentheses.
func (l *EntryList) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, e := range l.entries {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
