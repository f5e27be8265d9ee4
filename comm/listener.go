package comm

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/juju/errors"
)

// errorListener logs every driver error notification until ctx is cancelled.
func (s *session) errorListener(ctx context.Context) {
	s.log.Debugf("error listener started")
	for {
		b, err := s.c.errs.Recv(ctx)
		if err != nil {
			if ctx.Err() == nil && !s.isFinished() {
				s.log.Errorf("error listener recv err=%v", err)
			}
			s.log.Debugf("error listener stopped")
			return
		}
		atomic.AddUint32(&s.driverErrors, 1)
		msg := string(b)
		s.log.Errorf("driver error: %s", msg)
		if f := s.c.opt.OnDriverError; f != nil {
			f(msg)
		}
	}
}

// dataListener owns data channel and result slice.
// On exit it sets finished flag and stops error listener.
func (s *session) dataListener(ctx context.Context, stopErrors context.CancelFunc) {
	defer func() {
		s.finish()
		stopErrors()
	}()
	s.log.Debugf("data listener started %s", s.opt)

	for {
		if s.limitReached() {
			s.setState(StateLimitReached)
			s.log.Debugf("data listener max responses reached count=%d", s.Count())
			return
		}
		b, err := s.c.data.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.setState(StateCancelled)
				s.log.Debugf("data listener cancelled count=%d", s.Count())
				return
			}
			s.fail(errors.Annotate(err, "data listener recv"))
			return
		}
		if err = s.accept(b); err != nil {
			s.fail(err)
			return
		}
	}
}

func (s *session) limitReached() bool {
	return s.opt.MaxResp != nil && s.Count() >= *s.opt.MaxResp
}

// accept decodes b, appends record and calls callback.
// Panic in decoder or callback is returned as error.
func (s *session) accept(b []byte) (err error) {
	index := s.Count() + 1
	defer func() {
		if x := recover(); x != nil {
			err = errors.Errorf("data listener panic record=%d: %v", index, x)
		}
	}()

	rec, err := s.decoder.Decode(b)
	if err != nil {
		return &DecodeError{Index: index, Err: err}
	}
	if !s.opt.Discard {
		s.records = append(s.records, rec)
	}
	atomic.AddUint32(&s.count, 1)
	s.log.Debugf("data listener record=%d %s", index, recordString(rec))

	if s.cb != nil {
		if err = s.cb(rec); err != nil {
			return errors.Annotatef(err, "callback record=%d", index)
		}
	}
	return nil
}

func (s *session) fail(err error) {
	if s.setState(StateFailed) {
		_, _ = s.err.StoreOnce(err)
	}
	s.log.Errorf("data listener failed count=%d err=%v", s.Count(), err)
}

func recordString(r Record) string {
	if st, ok := r.(fmt.Stringer); ok {
		return st.String()
	}
	return fmt.Sprintf("%v", r)
}
