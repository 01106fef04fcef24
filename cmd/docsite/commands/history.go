package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	ferrors "github.com/biginformatics/docsite/internal/foundation/errors"
	"github.com/biginformatics/docsite/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of entries to show (0 for all)" default:"20"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	if root.HistoryDB == "" {
		return ferrors.ValidationError("--history-db (or DOCSITE_HISTORY_DB) is required").Build()
	}
	store, err := openHistory(root.HistoryDB, false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.List(context.Background(), h.Limit)
	if err != nil {
		return ferrors.StorageError("failed to list history").WithCause(err).Build()
	}
	if len(entries) == 0 {
		printf(g, "No resolutions recorded\n")
		return nil
	}

	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TIME\tOUTCOME\tSNAPSHOT\tCONFIG\tERROR")
	for _, e := range entries {
		snapshot := e.Snapshot
		if len(snapshot) > 12 {
			snapshot = snapshot[:12]
		}
		if snapshot == "" {
			snapshot = "-"
		}
		detail := e.Error
		if e.ErrorKind != "" {
			detail = e.ErrorKind + ": " + detail
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format(time.DateTime), e.Outcome, snapshot, e.ConfigPath, detail)
	}
	return tw.Flush()
}

// openHistory opens the store at path. Unless create is set a missing
// database is reported instead of created.
func openHistory(path string, create bool) (*history.SQLiteStore, error) {
	if create {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, ferrors.FileSystemError("failed to create history directory").WithCause(err).Build()
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, ferrors.NotFoundError("history database not found").WithContext("path", path).Build()
	}
	store, err := history.NewSQLiteStore(path)
	if err != nil {
		return nil, ferrors.StorageError("failed to open history").
			WithCause(err).WithContext("path", path).Build()
	}
	return store, nil
}
