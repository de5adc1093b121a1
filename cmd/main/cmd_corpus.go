package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCorpusCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Manage stored training documents",
	}
	cmd.AddCommand(newCorpusAddCmd(a))
	cmd.AddCommand(newCorpusListCmd(a))
	cmd.AddCommand(newCorpusRemoveCmd(a))
	return cmd
}

func newCorpusAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <file>",
		Short: "Store a text file as a corpus document ('-' reads stdin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]

			var r io.Reader = cmd.InOrStdin()
			if path != "-" {
				file, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}
				defer func(file *os.File) {
					_ = file.Close()
				}(file)
				r = file
			}

			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			info, err := store.PutDocument(cmd.Context(), name, r)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stored %s (%s characters)\n", info.Name, humanize.Comma(int64(info.CharCount)))
			return nil
		},
	}
}

func newCorpusListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored corpus documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			docs, err := store.ListDocuments(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(docs))
			for _, d := range docs {
				rows = append(rows, []string{d.Name, humanize.Comma(int64(d.CharCount)), humanize.Time(d.AddedAt)})
			}
			for _, line := range formatTable([]string{"NAME", "CHARS", "ADDED"}, rows, map[int]bool{1: true}) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newCorpusRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove a stored corpus document",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			err = store.RemoveDocument(cmd.Context(), args[0])
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("corpus document '%s' not found", args[0])
			}
			return err
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded generation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, run := range runs {
				seed := "random"
				if run.Seed != nil {
					seed = strconv.FormatUint(*run.Seed, 10)
				}
				_, _ = fmt.Fprintf(w, "#%d %s  source=%s window=%d seed=%s length=%d\n",
					run.Id, run.CreatedAt.Local().Format(time.DateTime), run.Source, run.WindowLength, seed, run.TargetLength)
				_, _ = fmt.Fprintf(w, "    %q\n", run.Output)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to show")

	cmd.AddCommand(newHistoryPruneCmd(a))
	return cmd
}

func newHistoryPruneCmd(a *app) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			removed, err := store.PruneRuns(cmd.Context(), keep)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s runs\n", humanize.Comma(removed))
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 100, "number of newest runs to keep")
	return cmd
}
