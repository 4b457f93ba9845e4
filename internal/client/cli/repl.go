package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to PetKeeper CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprint(a.out, "pk> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		if a.Dispatch(ctx, cmd, args) {
			return
		}
	}
}

// Dispatch runs one command. It returns true when the REPL should exit.
func (a *App) Dispatch(ctx context.Context, cmd string, args []string) bool {
	switch cmd {
	case "help":
		fmt.Fprintln(a.out, "Available commands: sync, accept <url>, pending, (l)ist, status, exit")

	case "sync":
		a.syncNow(ctx)

	case "accept":
		a.accept(ctx, args)

	case "pending":
		a.pending(ctx)

	case "list", "l":
		a.list(ctx)

	case "status":
		a.status(ctx)

	case "exit", "quit":
		return true

	default:
		fmt.Fprintf(a.out, "Unknown command: %s\n", cmd)
	}
	return false
}
