package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/akarpov88/petkeeper/internal/client/syncer"
)

func (a *App) syncNow(ctx context.Context) {
	fmt.Fprintln(a.out, "Syncing...")
	report, err := a.sync.SyncAll(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Sync finished with errors: %s\n", err)
	}
	if report != nil {
		a.printReport(report)
	}
}

func (a *App) printReport(r *syncer.Report) {
	fmt.Fprintf(a.out, "Sync result: %d created, %d updated, %d deleted, %d skipped\n",
		r.Created, r.Updated, r.Deleted, r.Skipped)
	for _, name := range r.ImportedNames {
		fmt.Fprintf(a.out, "  imported: %s\n", name)
	}
}

func (a *App) list(ctx context.Context) {
	recs, err := a.records.GetAll(ctx)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	if len(recs) == 0 {
		fmt.Fprintln(a.out, "No records yet. Run 'sync' or 'accept <url>'.")
		return
	}

	for _, rec := range recs {
		fmt.Fprintf(a.out, "%-20s %-10s %-8s %s\n", rec.Name, rec.Species, rec.Status(), rec.ID)
	}
}

func (a *App) status(ctx context.Context) {
	recs, err := a.records.GetAll(ctx)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	enabled := "off"
	if a.config.SyncEnabled {
		enabled = "on"
	}
	fmt.Fprintf(a.out, "Sync: %s, %d records\n", enabled, len(recs))

	for _, rec := range recs {
		line := "never"
		if !rec.LastSyncAt.IsZero() {
			line = rec.LastSyncAt.Format(time.RFC3339)
		}
		if rec.LastSyncError != "" {
			line += " (error: " + rec.LastSyncError + ")"
		}
		fmt.Fprintf(a.out, "%-20s synced %s\n", rec.Name, line)
	}
}
