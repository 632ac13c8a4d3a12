package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/nngen/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB    string
	Limit int
	Hash  string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded compilations",
		Long: `List compilations recorded by "serve --db", newest first.

With --hash only the latest compilation of that graph is shown; the
hash is the X-Graph-Hash response header or "graph_hash" of
"generate --format json".

Examples:
  nngen history --db nngen.db
  nngen history --db nngen.db --limit 5 --format json
  nngen history --db nngen.db --hash 3f2a...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "history database path (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum records to list (0 = all)")
	cmd.Flags().StringVar(&opts.Hash, "hash", "", "show the latest compilation of this graph hash")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	// Open would create a missing database; listing one is a usage error
	if _, err := os.Stat(opts.DB); errors.Is(err, os.ErrNotExist) {
		msg := fmt.Sprintf("database not found: %s", opts.DB)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeStoreFailed, err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	records, err := listHistory(ctx, st, opts)
	if errors.Is(err, store.ErrNotFound) {
		msg := fmt.Sprintf("no compilation recorded for graph %s", opts.Hash)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return WrapExitError(ExitFailure, ErrCodeNotFound, err)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeStoreFailed, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(records)
	}

	w := formatter.Writer
	if len(records) == 0 {
		fmt.Fprintln(w, "No compilations recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tWHEN\tSTATUS\tGRAPH\tNODES\tEDGES\tWARNINGS\tSIZE")
	for _, c := range records {
		status := c.Status
		if c.ErrorKind != "" {
			status += " (" + c.ErrorKind + ")"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			c.Seq, shortID(c.ID), recordedAt(c.ID), status, shortID(c.GraphHash),
			c.NodeCount, c.EdgeCount, c.DiagnosticCount, humanize.Bytes(uint64(len(c.Code))))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s compilation(s)\n", humanize.Comma(int64(len(records))))
	return nil
}

// listHistory returns the newest records, or the single latest record of
// opts.Hash when set.
func listHistory(ctx context.Context, st *store.Store, opts *HistoryOptions) ([]store.Compilation, error) {
	if opts.Hash == "" {
		return st.ListCompilations(ctx, opts.Limit)
	}
	c, err := st.LatestByGraphHash(ctx, opts.Hash)
	if err != nil {
		return nil, err
	}
	return []store.Compilation{c}, nil
}

// recordedAt renders the creation time embedded in a UUIDv7 record ID.
// Other ID formats carry no time and render as "-".
func recordedAt(id string) string {
	u, err := uuid.Parse(id)
	if err != nil || u.Version() != 7 {
		return "-"
	}
	sec, nsec := u.Time().UnixTime()
	return humanize.Time(time.Unix(sec, nsec))
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
