package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jkaberg/kidde-hass/internal/bus"
	"github.com/jkaberg/kidde-hass/internal/config"
	"github.com/jkaberg/kidde-hass/internal/coordinator"
	"github.com/jkaberg/kidde-hass/internal/domain"
	"github.com/jkaberg/kidde-hass/internal/kidde"
	"github.com/jkaberg/kidde-hass/internal/sensors"
	"github.com/jkaberg/kidde-hass/internal/transmission"
)

// Run launches the poll/transmit pipeline and blocks until ctx is
// cancelled. Sensor enumeration happens once, on the first snapshot;
// subsequent snapshots only change the values the sensors read.
func Run(
	parentCtx context.Context,
	cfg *config.Config,
	coord *coordinator.Coordinator,
	messageBus *bus.Bus,
	tx transmission.Transmitter,
	logger *logrus.Logger,
) {
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sub := messageBus.Subscribe()
	grp, ctx := errgroup.WithContext(ctx)

	// Collector -----------------------------------------------------------
	grp.Go(func() error {
		return coord.Run(ctx)
	})

	// Scheduler -----------------------------------------------------------
	grp.Go(func() error {
		var (
			entities []sensors.Sensor
			lastSnap *kidde.Snapshot
			lastSent time.Time
			latest   *kidde.Snapshot
		)

		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case snap, ok := <-sub:
				if !ok {
					return nil
				}
				latest = snap
				if entities == nil {
					entities = sensors.Enumerate(coord, snap, logger)
					logger.WithFields(logrus.Fields{
						"devices": len(snap.Devices),
						"sensors": len(entities),
					}).Info("Enumerated sensors")
				}
			case <-ticker.C:
				if latest == nil || tx == nil || len(entities) == 0 {
					continue
				}
				now := time.Now()
				if now.Sub(lastSent) < cfg.MQTTInterval {
					continue
				}
				if !domain.Changed(lastSnap, latest) {
					continue
				}
				if err := tx.Transmit(entities); err != nil {
					logger.WithError(err).Warn("MQTT transmit failed")
					// Reset lastSnap so Changed() evaluates to true on the
					// next tick, but still respect the publish interval.
					lastSnap = nil
					lastSent = now
				} else {
					lastSnap = latest
					lastSent = now
				}
			}
		}
	})

	if err := grp.Wait(); err != nil && err != context.Canceled {
		logger.WithError(err).Warn("app: background group exited")
	}
}
