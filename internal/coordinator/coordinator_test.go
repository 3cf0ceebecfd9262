package coordinator

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jkaberg/kidde-hass/internal/bus"
	"github.com/jkaberg/kidde-hass/internal/kidde"
)

type fakePoller struct {
	snaps []*kidde.Snapshot
	err   error
	calls int
}

func (p *fakePoller) Poll(ctx context.Context) (*kidde.Snapshot, error) {
	if p.err != nil {
		return nil, p.err
	}
	snap := p.snaps[p.calls%len(p.snaps)]
	p.calls++
	return snap, nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestRefreshSwapsSnapshotAndPublishes(t *testing.T) {
	snap := &kidde.Snapshot{
		FetchedAt: time.Now(),
		Devices: map[string]kidde.DeviceData{
			"1": {"co_level": 0.0},
		},
	}
	messageBus := bus.New()
	sub := messageBus.Subscribe()

	c := New(&fakePoller{snaps: []*kidde.Snapshot{snap}}, time.Minute, messageBus, testLogger())

	if _, ok := c.Device("1"); ok {
		t.Fatal("Device() should miss before the first refresh")
	}

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	data, ok := c.Device("1")
	if !ok {
		t.Fatal("Device() should hit after refresh")
	}
	if v, _ := data.Number("co_level"); v != 0 {
		t.Errorf("co_level = %v, want 0", v)
	}

	select {
	case got := <-sub:
		if got != snap {
			t.Error("bus received a different snapshot")
		}
	default:
		t.Error("snapshot not published on the bus")
	}
}

func TestRefreshKeepsPreviousSnapshotOnError(t *testing.T) {
	snap := &kidde.Snapshot{
		Devices: map[string]kidde.DeviceData{"1": {"life": 42.0}},
	}
	poller := &fakePoller{snaps: []*kidde.Snapshot{snap}}
	c := New(poller, time.Minute, bus.New(), testLogger())

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	poller.err = errors.New("cloud unreachable")
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() should propagate the poll error")
	}

	if _, ok := c.Device("1"); !ok {
		t.Error("previous snapshot should survive a failed refresh")
	}
}
