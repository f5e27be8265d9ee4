package comm

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/temoto/atomic_clock"
)

// superviseTimeout cancels every listener and pinger when session runs longer than max.
// Checks before sleep, so max=0 stops immediately.
func (s *session) superviseTimeout(max time.Duration, cancels ...context.CancelFunc) {
	poll := s.c.opt.TimeoutPoll
	for {
		if s.isFinished() {
			return
		}
		elapsed := atomic_clock.Since(&s.start)
		if elapsed >= max {
			atomic.StoreUint32(&s.timedOut, 1)
			s.log.Infof("timeout after %s, cancelling session count=%d", elapsed, s.Count())
			for _, cancel := range cancels {
				cancel()
			}
			return
		}
		wait := poll
		if left := max - elapsed; left < wait {
			wait = left
		}
		if !s.sleep(context.Background(), wait) {
			return
		}
	}
}
