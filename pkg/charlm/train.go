package charlm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ctxCheckInterval is how many characters are consumed between context checks.
const ctxCheckInterval = 4096

// Train reads the corpus from r and adds its statistics to the model. If r
// does not implement io.RuneReader it is wrapped in a bufio.Reader.
func (m *Model) Train(ctx context.Context, r io.Reader) error {
	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}
	return m.TrainSource(ctx, rr)
}

// TrainSource consumes src exactly once, from left to right, sliding a window
// of WindowLength characters across it. For every character that follows a
// full window, the count of that character in the window's list is
// incremented. A source shorter than WindowLength+1 characters records
// nothing, which is not an error.
//
// Once the source is exhausted the probabilities of every list are
// recomputed. If ctx is cancelled, what was recorded so far is still
// finalized and ctx.Err() is returned.
func (m *Model) TrainSource(ctx context.Context, src io.RuneReader) error {
	window := make([]rune, 0, m.windowLength)

	var consumed, recorded int64
	var trainErr error

	for {
		if consumed%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				trainErr = err
				break
			}
		}

		c, _, err := src.ReadRune()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				trainErr = fmt.Errorf("read corpus: %w", err)
			}
			break
		}
		consumed++

		if len(window) < m.windowLength {
			window = append(window, c)
			continue
		}

		m.table.GetOrCreate(string(window)).Update(c)
		recorded++

		copy(window, window[1:])
		window[len(window)-1] = c
	}

	if err := m.table.FinalizeAll(); err != nil {
		return fmt.Errorf("finalize probabilities: %w", err)
	}

	if trainErr != nil {
		m.logger.WarnContext(ctx, "Training stopped early",
			slog.Int("window_length", m.windowLength),
			slog.Int64("chars_consumed", consumed),
			slog.Any("error", trainErr),
		)
		return trainErr
	}

	m.logger.InfoContext(ctx, "Training completed",
		slog.Int("window_length", m.windowLength),
		slog.Int64("chars_consumed", consumed),
		slog.Int64("transitions_recorded", recorded),
		slog.Int("windows", m.table.Len()),
	)
	return nil
}
