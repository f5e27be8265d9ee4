package comm

import (
	"context"
	"sync/atomic"
)

var pingPayload = []byte{}

// pinger keeps driver streaming, driver stops after TimeoutAfterLastPing without ping.
// Send errors are logged and do not stop the loop.
func (s *session) pinger(ctx context.Context) {
	s.log.Debugf("pinger started interval=%s", s.c.opt.PingInterval)
	for !s.isFinished() && ctx.Err() == nil {
		if err := s.c.ping.Send(ctx, pingPayload); err != nil {
			if ctx.Err() != nil {
				break
			}
			s.log.Errorf("ping err=%v", err)
		} else {
			atomic.AddUint32(&s.pings, 1)
		}
		if !s.sleep(ctx, s.c.opt.PingInterval) {
			break
		}
	}
	s.log.Debugf("pinger stopped pings=%d", atomic.LoadUint32(&s.pings))
}
