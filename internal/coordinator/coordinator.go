package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jkaberg/kidde-hass/internal/bus"
	"github.com/jkaberg/kidde-hass/internal/kidde"
)

// Poller fetches a fresh device snapshot from the vendor cloud.
type Poller interface {
	Poll(ctx context.Context) (*kidde.Snapshot, error)
}

// Coordinator owns the latest device snapshot and refreshes it wholesale on
// a fixed cadence. Sensors read through Device on demand; they never see a
// partially updated snapshot because the map reference is swapped under the
// lock, not mutated in place.
type Coordinator struct {
	poller   Poller
	interval time.Duration
	bus      *bus.Bus
	logger   *logrus.Logger

	mu   sync.RWMutex
	snap *kidde.Snapshot
}

// New creates a coordinator around the given poller.
func New(poller Poller, interval time.Duration, messageBus *bus.Bus, logger *logrus.Logger) *Coordinator {
	return &Coordinator{
		poller:   poller,
		interval: interval,
		bus:      messageBus,
		logger:   logger,
	}
}

// Device returns the raw data of one device from the current snapshot.
func (c *Coordinator) Device(id string) (kidde.DeviceData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return nil, false
	}
	data, ok := c.snap.Devices[id]
	return data, ok
}

// Snapshot returns the current snapshot, which may be nil before the first
// successful refresh.
func (c *Coordinator) Snapshot() *kidde.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Refresh performs one poll and, on success, swaps in the new snapshot and
// publishes it on the bus.
func (c *Coordinator) Refresh(ctx context.Context) error {
	snap, err := c.poller.Poll(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	if c.bus != nil {
		c.bus.Publish(snap)
	}
	return nil
}

// Run refreshes immediately and then on every tick until ctx is cancelled.
// Poll failures are logged and skipped; the previous snapshot stays in
// place until a refresh succeeds.
func (c *Coordinator) Run(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		c.logger.WithError(err).Warn("coordinator: initial poll failed")
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				c.logger.WithError(err).Warn("coordinator: poll failed")
			}
		}
	}
}
