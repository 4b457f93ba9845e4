package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akarpov88/petkeeper/internal/client/models"
	"github.com/akarpov88/petkeeper/internal/client/remote"
	"github.com/akarpov88/petkeeper/internal/client/repositories/cursors"
	"github.com/akarpov88/petkeeper/internal/client/repositories/records"
	"github.com/akarpov88/petkeeper/internal/common"
	"github.com/akarpov88/petkeeper/internal/logging"
)

// Orchestrator runs the per-zone sync state machine: incremental fetch with
// a persisted cursor, full-fetch fallback on token expiry, silent handling
// of missing zones, and suppression of overlapping passes for the same zone.
type Orchestrator struct {
	client    remote.Client
	cursors   cursors.Repository
	engine    *Engine
	directory *Directory
	repo      records.Repository
	logger    logging.Logger

	// syncEnabled is the global preference; when false, a pass still runs
	// if any record is individually cloud-enabled.
	syncEnabled func() bool

	onMerge func(*Report)

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewOrchestrator wires the orchestrator. syncEnabled may be nil, meaning
// "always enabled".
func NewOrchestrator(
	client remote.Client,
	curs cursors.Repository,
	engine *Engine,
	directory *Directory,
	repo records.Repository,
	syncEnabled func() bool,
	logger logging.Logger,
) *Orchestrator {
	if syncEnabled == nil {
		syncEnabled = func() bool { return true }
	}
	return &Orchestrator{
		client:      client,
		cursors:     curs,
		engine:      engine,
		directory:   directory,
		repo:        repo,
		syncEnabled: syncEnabled,
		logger:      logger.With("module", "syncer"),
		inFlight:    make(map[string]bool),
	}
}

// OnMerge registers the hook fired after every successful merge batch that
// changed local state, so observers can refresh their view of the store.
func (o *Orchestrator) OnMerge(fn func(*Report)) {
	o.onMerge = fn
}

// TriggerSync starts a full sync pass in the background. It is fire-and-
// forget and idempotent while a pass is in flight: overlapping zone passes
// are suppressed, not queued.
func (o *Orchestrator) TriggerSync() {
	go func() {
		if _, err := o.SyncAll(context.Background()); err != nil {
			o.logger.Error(context.Background(), "sync pass failed", "error", err)
		}
	}()
}

// SyncAll visits every owned zone and every currently visible foreign shared
// zone. Zones run concurrently; no ordering is guaranteed between them. The
// returned error aggregates per-zone failures; a failed zone never blocks
// the others.
func (o *Orchestrator) SyncAll(ctx context.Context) (*Report, error) {
	if !o.shouldSync(ctx) {
		o.logger.Debug(ctx, "sync disabled, skipping pass")
		return &Report{}, nil
	}

	type task struct {
		partition remote.Partition
		role      ZoneRole
		zone      models.Zone
	}

	tasks := make([]task, 0)
	for _, z := range o.directory.OwnedZones() {
		tasks = append(tasks, task{remote.PartitionPrivate, RolePrivate, z})
	}

	var errs []error
	foreign, err := o.directory.ForeignSharedZones(ctx)
	if err != nil {
		// Enumeration failure skips the shared sweep for this pass; owned
		// zones still sync.
		errs = append(errs, err)
	}
	for _, z := range foreign {
		tasks = append(tasks, task{remote.PartitionShared, RoleShared, z})
	}

	total := &Report{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, tk := range tasks {
		wg.Add(1)
		go func(tk task) {
			defer wg.Done()
			report, err := o.syncZone(ctx, tk.partition, tk.role, tk.zone)
			mu.Lock()
			defer mu.Unlock()
			if report != nil {
				total.add(report)
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("zone %s: %w", tk.zone.Key(), err))
			}
		}(tk)
	}
	wg.Wait()

	return total, errors.Join(errs...)
}

// SweepShared synchronizes every currently visible foreign shared zone. The
// share acceptance engine runs this after accepting an invitation; the
// report carries the names of newly imported records.
func (o *Orchestrator) SweepShared(ctx context.Context) (*Report, error) {
	zones, err := o.directory.ForeignSharedZones(ctx)
	if err != nil {
		return nil, err
	}

	total := &Report{}
	var errs []error
	for _, z := range zones {
		report, err := o.syncZone(ctx, remote.PartitionShared, RoleShared, z)
		if report != nil {
			total.add(report)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("zone %s: %w", z.Key(), err))
		}
	}
	return total, errors.Join(errs...)
}

// syncZone runs one pass for one zone. The cursor advances only after the
// merge transaction commits, so an abandoned pass never moves the cursor
// past what was actually merged.
func (o *Orchestrator) syncZone(ctx context.Context, p remote.Partition, role ZoneRole, zone models.Zone) (*Report, error) {
	key := zone.Key()
	if !o.begin(key) {
		o.logger.Debug(ctx, "pass already in flight, suppressing", "zone", key)
		return nil, nil
	}
	defer o.end(key)

	token, err := o.cursors.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	cs, err := o.client.FetchZoneChanges(ctx, p, zone, token)
	switch {
	case err == nil:
		return o.mergeAndAdvance(ctx, role, key, cs)

	case errors.Is(err, common.ErrTokenExpired):
		// All local knowledge of this zone's fetch position is gone; clear
		// the cursor before the full fetch so a crash in between leaves us
		// in the recovery state, not with a dead token.
		if err := o.cursors.Clear(ctx, key); err != nil {
			return nil, err
		}
		return o.fullFetch(ctx, p, role, zone)

	case errors.Is(err, common.ErrZoneNotFound):
		// Expected before the first cloud-mirrored record exists.
		return &Report{}, nil

	default:
		if cs != nil && (len(cs.Records) > 0 || len(cs.Deleted) > 0) {
			// Durably apply the pages that did arrive so the next pass
			// resumes from them instead of re-fetching.
			report, mergeErr := o.mergeAndAdvance(ctx, role, key, cs)
			if mergeErr != nil {
				return report, errors.Join(err, mergeErr)
			}
			return report, err
		}
		return nil, err
	}
}

// fullFetch is the token-expiry fallback: an unconditional scan merged as a
// changed batch with no deletions, since the store cannot say what was
// deleted while we were blind. Incremental mode resumes on the next pass.
func (o *Orchestrator) fullFetch(ctx context.Context, p remote.Partition, role ZoneRole, zone models.Zone) (*Report, error) {
	recs, err := o.client.FetchAllRecords(ctx, p, zone)
	if errors.Is(err, common.ErrZoneNotFound) {
		return &Report{}, nil
	}
	if err != nil {
		return nil, err
	}

	report, err := o.engine.Apply(ctx, recs, nil, role)
	if err != nil {
		return report, err
	}
	o.notifyMerged(report)
	return report, nil
}

func (o *Orchestrator) mergeAndAdvance(ctx context.Context, role ZoneRole, key string, cs *remote.ChangeSet) (*Report, error) {
	report, err := o.engine.Apply(ctx, cs.Records, cs.Deleted, role)
	if err != nil {
		return report, err
	}
	if len(cs.Token) > 0 {
		if err := o.cursors.Set(ctx, key, cs.Token); err != nil {
			return report, err
		}
	}
	o.notifyMerged(report)
	return report, nil
}

func (o *Orchestrator) notifyMerged(report *Report) {
	if o.onMerge != nil && report.Changed() {
		o.onMerge(report)
	}
}

// shouldSync applies the global preference: when it is off, sync still runs
// if any record is individually cloud-enabled.
func (o *Orchestrator) shouldSync(ctx context.Context) bool {
	if o.syncEnabled() {
		return true
	}
	all, err := o.repo.GetAll(ctx)
	if err != nil {
		o.logger.Warn(ctx, "failed to inspect records for cloud-enabled check", "error", err)
		return false
	}
	for i := range all {
		if all[i].CloudEnabled {
			return true
		}
	}
	return false
}

func (o *Orchestrator) begin(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight[key] {
		return false
	}
	o.inFlight[key] = true
	return true
}

func (o *Orchestrator) end(key string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inFlight, key)
}
