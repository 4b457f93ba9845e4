package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/akarpov88/petkeeper/internal/client/share"
	"github.com/akarpov88/petkeeper/internal/common"
)

func (a *App) accept(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: accept <share-url>")
		return
	}

	result, err := a.shares.Accept(ctx, share.Reference{URL: args[0]})
	a.printAccept(result, err)
}

// pending drains the stored share reference, if any, and accepts it.
func (a *App) pending(ctx context.Context) {
	result, err := a.shares.DrainPending(ctx)
	if errors.Is(err, common.ErrNoPendingShare) {
		fmt.Fprintln(a.out, "No pending share.")
		return
	}
	a.printAccept(result, err)
}

func (a *App) printAccept(result *share.AcceptResult, err error) {
	if err != nil {
		fmt.Fprintf(a.out, "Accept failed: %s\n", err)
	}
	if result == nil {
		return
	}
	if result.Title != "" {
		fmt.Fprintf(a.out, "Accepted share: %s\n", result.Title)
	}
	for _, name := range result.ImportedNames {
		fmt.Fprintf(a.out, "  imported: %s\n", name)
	}
}
