package domain

import (
	"reflect"
	"time"

	"github.com/jkaberg/kidde-hass/internal/kidde"
)

// Changed returns true if *cur* differs from *prev* in actual device data.
// The fetch timestamp naturally changes on every poll and is zeroed before
// comparing so that an otherwise identical snapshot does not trigger a
// transmit.
func Changed(prev, cur *kidde.Snapshot) bool {
	if prev == nil && cur == nil {
		return false
	}
	if prev == nil || cur == nil {
		return true
	}

	p, c := *prev, *cur // copy
	p.FetchedAt = time.Time{}
	c.FetchedAt = time.Time{}

	return !reflect.DeepEqual(p, c)
}
