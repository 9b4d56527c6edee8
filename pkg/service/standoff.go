// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package service

import (
	"context"
	"time"

	"github.com/netrace/netrace/pkg/config"
)

// standoff is an exponential backoff timer.
type standoff struct {
	wait, max  time.Duration
	multiplier float64
	retries    int
}

func newStandoff(r config.Reload) *standoff {
	return &standoff{wait: r.Retry.Duration, max: r.RetryMax.Duration, multiplier: r.Multiplier}
}

// delay waits for the current wait time, then increases it.
// Returns false without increasing the wait if ctx is done first.
func (s *standoff) delay(ctx context.Context) bool {
	log.Info("Waiting to retry", "wait", s.wait, "retries", s.retries)
	t := time.NewTimer(s.wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
	}
	s.wait = min(time.Duration(float64(s.wait)*s.multiplier), s.max)
	s.retries++
	return true
}
