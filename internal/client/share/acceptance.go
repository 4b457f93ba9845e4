package share

import (
	"context"
	"fmt"

	"github.com/akarpov88/petkeeper/internal/client/remote"
	"github.com/akarpov88/petkeeper/internal/client/syncer"
	"github.com/akarpov88/petkeeper/internal/common"
	"github.com/akarpov88/petkeeper/internal/logging"
)

// Sweeper runs the shared-zone sweep after a share is accepted. The sync
// orchestrator satisfies this.
type Sweeper interface {
	SweepShared(ctx context.Context) (*syncer.Report, error)
}

// AcceptResult reports a successful acceptance for user feedback.
type AcceptResult struct {
	// Title is the invitation's display title.
	Title string
	// ImportedNames are the display names of records that appeared locally
	// during the post-acceptance sweep.
	ImportedNames []string
}

// Acceptor is the share acceptance engine. Failures are surfaced, never
// retried automatically; the caller decides whether to prompt for retry.
type Acceptor struct {
	client  remote.Client
	sweeper Sweeper
	mailbox *Mailbox
	logger  logging.Logger
}

// NewAcceptor wires the acceptance engine.
func NewAcceptor(client remote.Client, sweeper Sweeper, mailbox *Mailbox, logger logging.Logger) *Acceptor {
	return &Acceptor{
		client:  client,
		sweeper: sweeper,
		mailbox: mailbox,
		logger:  logger.With("module", "share"),
	}
}

// Mailbox exposes the pending-reference box to platform delivery hooks.
func (a *Acceptor) Mailbox() *Mailbox {
	return a.mailbox
}

// Accept resolves and accepts one share reference, then sweeps the shared
// partition so the sharer's records appear locally. Metadata is preferred
// over a URL when the reference carries both, skipping a network round trip.
func (a *Acceptor) Accept(ctx context.Context, ref Reference) (*AcceptResult, error) {
	meta := ref.Metadata
	if meta == nil {
		if ref.URL == "" {
			return nil, common.ErrInvalidShare
		}
		resolved, err := a.client.ResolveShareURL(ctx, ref.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve share url: %w", err)
		}
		meta = resolved
	}

	if err := a.client.AcceptShare(ctx, meta); err != nil {
		return nil, fmt.Errorf("failed to accept share %q: %w", meta.ShareRecordName, err)
	}
	a.logger.Info(ctx, "share accepted", "share", meta.ShareRecordName, "zone", meta.Zone.Key())

	report, err := a.sweeper.SweepShared(ctx)
	if err != nil {
		// The share itself is accepted; the records will arrive on the next
		// sweep. Surface the sweep failure regardless.
		return &AcceptResult{Title: meta.Title}, fmt.Errorf("share accepted but sweep failed: %w", err)
	}

	return &AcceptResult{Title: meta.Title, ImportedNames: report.ImportedNames}, nil
}

// DrainPending consumes the mailbox and accepts whatever was staged.
// Returns common.ErrNoPendingShare when the box is empty.
func (a *Acceptor) DrainPending(ctx context.Context) (*AcceptResult, error) {
	ref, ok := a.mailbox.Consume()
	if !ok {
		return nil, common.ErrNoPendingShare
	}
	return a.Accept(ctx, ref)
}

var _ Sweeper = (*syncer.Orchestrator)(nil)
