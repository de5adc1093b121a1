package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/CTAG07/charlm/pkg/corpus"
)

func newGenerateCmd(a *app) *cobra.Command {
	var flags modelFlags
	var text, out string
	var length int
	var record bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Train on a corpus and generate text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("length") {
				length = a.config.Model.Length
			}
			if length < 0 {
				return fmt.Errorf("--length must not be negative, got %d", length)
			}

			ctx := cmd.Context()
			tm, err := a.trainModel(ctx, cmd, &flags)
			if err != nil {
				return err
			}
			generated := tm.model.Generate(ctx, text, length)

			if out != "" {
				if err = atomic.WriteFile(out, strings.NewReader(generated)); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), generated)
			}

			if record {
				store, closeStore, err := a.openStore()
				if err != nil {
					return err
				}
				defer closeStore()
				_, err = store.RecordRun(ctx, corpus.Run{
					Source:       tm.source,
					WindowLength: tm.model.WindowLength(),
					Seed:         tm.seed,
					SeedText:     text,
					TargetLength: length,
					Output:       generated,
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&text, "text", "t", "", "seed text the generated text starts with")
	cmd.Flags().IntVarP(&length, "length", "n", 0, "length of the generated text in characters (default from config)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the generated text to a file instead of stdout")
	cmd.Flags().BoolVar(&record, "record", false, "record the run in the history")

	return cmd
}

func newInspectCmd(a *app) *cobra.Command {
	var flags modelFlags
	var raw bool
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Train on a corpus and print the window table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tm, err := a.trainModel(cmd.Context(), cmd, &flags)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if raw {
				_, _ = fmt.Fprint(w, tm.model.String())
			} else {
				width := 0
				if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
					if tw, _, err := term.GetSize(int(f.Fd())); err == nil {
						width = tw
					}
				}
				for _, line := range formatModelTable(tm.model, limit, width) {
					_, _ = fmt.Fprintln(w, line)
				}
			}

			stats := tm.model.Stats()
			_, _ = fmt.Fprintf(w, "\nwindow length %d: %s windows, %s transitions, %s observations, %s distinct characters\n",
				stats.WindowLength,
				humanize.Comma(int64(stats.Windows)),
				humanize.Comma(int64(stats.Transitions)),
				humanize.Comma(int64(stats.Observations)),
				humanize.Comma(int64(stats.Alphabet)),
			)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&raw, "raw", false, "print the plain debug representation")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of windows to print (0 for all)")

	return cmd
}
