package charlm

import (
	"context"
	"log/slog"
)

// GenerateOne samples a character from a finalized list. It draws r from
// random and returns the first entry whose cumulative probability exceeds r.
// When rounding leaves r past the last cumulative probability, the last
// entry's character is returned. The list must not be empty.
func GenerateOne(list *EntryList, random RandomSource) rune {
	r := random.Float64()
	for _, e := range list.entries {
		if r < e.CumulativeProbability {
			return e.Char
		}
	}
	return list.entries[len(list.entries)-1].Char
}

// Generate extends seedText one sampled character at a time until the result
// is length characters long (counted in runes). The trailing WindowLength
// characters of the text so far, or all of it when shorter, select the
// distribution to sample from. If that window was never observed during
// training, generation stops and the text produced so far is returned.
//
// The result always starts with seedText, unless seedText itself is longer
// than length, in which case it is truncated to length characters.
//
// ctx is only used for logging.
func (m *Model) Generate(ctx context.Context, seedText string, length int) string {
	if length < 0 {
		length = 0
	}
	generated := []rune(seedText)

	for len(generated) < length {
		start := max(0, len(generated)-m.windowLength)
		window := string(generated[start:])

		list, ok := m.table.Get(window)
		if !ok {
			m.logger.DebugContext(ctx, "Generation terminated due to unseen window",
				slog.String("window", window),
				slog.Int("generated_length", len(generated)),
				slog.Int("target_length", length),
			)
			break
		}
		generated = append(generated, GenerateOne(list, m.random))
	}

	if len(generated) > length {
		generated = generated[:length]
	}
	return string(generated)
}
