package comm

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/atomic_clock"
	"github.com/vikonava/matrix-creator/helpers"
	"github.com/vikonava/matrix-creator/log2"
)

// State of data listener. Running is the only state that permits receive,
// others are terminal and set exactly once.
type State int32

const (
	StateRunning State = iota
	StateLimitReached
	StateFailed
	StateCancelled
)

var stateNames = [...]string{"running", "limit-reached", "failed", "cancelled"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

type Result struct {
	Records []Record
	State   State
	// Timeout supervisor cancelled the session.
	TimedOut bool
	// Data listener failure cause, nil unless State is StateFailed.
	Err          error
	Pings        uint32
	DriverErrors uint32
	Duration     time.Duration
}

// Perform is Run returning only records.
// Error is non-nil only for invalid options or misuse of Comm, never for listener failures.
func (c *Comm) Perform(ctx context.Context, dec Decoder, opt DetectOptions, cb Callback) ([]Record, error) {
	r, err := c.Run(ctx, dec, opt, cb)
	if err != nil {
		return nil, err
	}
	return r.Records, nil
}

// Run starts error listener, data listener, pinger and, with MaxSecs set,
// timeout supervisor. Blocks until all of them are done.
// Cancel ctx to stop unbounded session from outside.
// Comm runs at most one session, channels are consumed by it.
func (c *Comm) Run(ctx context.Context, dec Decoder, opt DetectOptions, cb Callback) (*Result, error) {
	if dec == nil {
		return nil, errors.NotValidf("decoder=nil")
	}
	if err := opt.Validate(); err != nil {
		return nil, errors.Annotate(err, "perform")
	}
	if c.Destroyed() {
		return nil, ErrDestroyed
	}
	if !atomic.CompareAndSwapUint32(&c.performed, 0, 1) {
		return nil, ErrPerformed
	}

	s := newSession(c, dec, opt, cb)
	tasks := alive.NewAlive()
	dataCtx, cancelData := context.WithCancel(ctx)
	errCtx, cancelErr := context.WithCancel(ctx)
	pingCtx, cancelPing := context.WithCancel(ctx)
	defer cancelData()
	defer cancelErr()
	defer cancelPing()

	s.spawn(tasks, func() { s.errorListener(errCtx) })
	s.spawn(tasks, func() { s.dataListener(dataCtx, cancelErr) })
	s.spawn(tasks, func() { s.pinger(pingCtx) })
	if maxDur, ok := opt.MaxDuration(); ok {
		s.spawn(tasks, func() { s.superviseTimeout(maxDur, cancelData, cancelErr, cancelPing) })
	}
	tasks.Stop()
	tasks.Wait()

	r := s.result()
	c.log.Debugf("data result state=%s count=%d pings=%d timed_out=%t duration=%s",
		r.State, len(r.Records), r.Pings, r.TimedOut, r.Duration)
	return r, nil
}

// Limit is caller input, preallocate no more than this.
const recordsPrealloc = 64

type session struct {
	c       *Comm
	log     *log2.Log
	decoder Decoder
	opt     DetectOptions
	cb      Callback

	// Stop() is the finished flag, set once by data listener
	finished *alive.Alive
	start    atomic_clock.Clock
	state    int32
	err      helpers.AtomicError

	// written only by data listener, read after join
	records []Record

	count        uint32
	pings        uint32
	driverErrors uint32
	timedOut     uint32
}

func newSession(c *Comm, dec Decoder, opt DetectOptions, cb Callback) *session {
	s := &session{
		c:        c,
		log:      c.log,
		decoder:  dec,
		opt:      opt,
		cb:       cb,
		finished: alive.NewAlive(),
		state:    int32(StateRunning),
	}
	if opt.MaxResp != nil && !opt.Discard {
		n := *opt.MaxResp
		if n > recordsPrealloc {
			n = recordsPrealloc
		}
		s.records = make([]Record, 0, n)
	}
	s.start.SetNow()
	return s
}

// spawn adds task in caller goroutine so following Stop cannot overtake it.
func (s *session) spawn(tasks *alive.Alive, f func()) {
	if !tasks.Add(1) {
		return
	}
	go func() {
		defer tasks.Done()
		f()
	}()
}

func (s *session) isFinished() bool { return !s.finished.IsRunning() }

func (s *session) finish() { s.finished.Stop() }

func (s *session) State() State { return State(atomic.LoadInt32(&s.state)) }

// setState moves out of Running once, later calls are ignored.
func (s *session) setState(st State) bool {
	return atomic.CompareAndSwapInt32(&s.state, int32(StateRunning), int32(st))
}

func (s *session) Count() int { return int(atomic.LoadUint32(&s.count)) }

func (s *session) result() *Result {
	r := &Result{
		Records:      s.records,
		State:        s.State(),
		TimedOut:     atomic.LoadUint32(&s.timedOut) != 0,
		Pings:        atomic.LoadUint32(&s.pings),
		DriverErrors: atomic.LoadUint32(&s.driverErrors),
		Duration:     atomic_clock.Since(&s.start),
	}
	if err, ok := s.err.Load(); ok {
		r.Err = err
	}
	return r
}

// sleep returns false when interrupted by ctx or finished flag.
func (s *session) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	case <-s.finished.StopChan():
		return false
	}
}
