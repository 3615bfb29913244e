package market

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/fundswap/internal/adapters/persistence"
	"github.com/hxuan190/fundswap/internal/domain"
)

// SnapshotSink receives every snapshot the refresher loads.
type SnapshotSink func(*domain.Snapshot) error

// Refresher reloads the seed file on a cron schedule. A file whose
// modification time did not change since the last successful load is skipped.
type Refresher struct {
	path     string
	schedule string
	sink     SnapshotSink

	mu      sync.Mutex
	cron    *cron.Cron
	lastMod time.Time
	lastErr error
}

func NewRefresher(path, schedule string, sink SnapshotSink) *Refresher {
	return &Refresher{path: path, schedule: schedule, sink: sink}
}

// Refresh loads the seed file now, even if it did not change.
func (r *Refresher) Refresh() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(true)
}

func (r *Refresher) load(force bool) error {
	info, err := os.Stat(r.path)
	if err != nil {
		r.lastErr = fmt.Errorf("stat seed file: %w", err)
		return r.lastErr
	}
	if !force && info.ModTime().Equal(r.lastMod) {
		return nil
	}

	snap, err := persistence.LoadSeedFile(r.path)
	if err == nil {
		err = r.sink(snap)
	}
	r.lastErr = err
	if err != nil {
		return err
	}

	r.lastMod = info.ModTime()
	log.Info().
		Str("path", r.path).
		Uint64("slot", snap.Slot).
		Int("funds", len(snap.Funds)).
		Msg("[snapshotRefresher] snapshot reloaded")
	return nil
}

// Start schedules reloads. An empty schedule leaves the refresher idle.
func (r *Refresher) Start() error {
	if r.schedule == "" {
		return nil
	}

	logger := cronLogger{}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.SkipIfStillRunning(logger)))
	_, err := c.AddFunc(r.schedule, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if err := r.load(false); err != nil {
			log.Error().Err(err).Str("path", r.path).Msg("[snapshotRefresher] reload failed, keeping current snapshot")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", r.schedule, err)
	}

	r.mu.Lock()
	r.cron = c
	r.mu.Unlock()
	c.Start()

	log.Info().Str("schedule", r.schedule).Str("path", r.path).Msg("[snapshotRefresher] started")
	return nil
}

func (r *Refresher) Stop() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
}

// LastError is the outcome of the most recent load attempt.
func (r *Refresher) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("[cron] " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("[cron] " + msg)
}
