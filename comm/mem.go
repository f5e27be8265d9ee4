package comm

import (
	"context"
	"sync"
	"time"

	"github.com/juju/errors"
)

const memBuffer = 1024

// MemFabric is in-process stand-in for driver side of ZeroMQ network.
// Each NewContext() is one messaging context for one Comm.
// Subscribers only get messages published after they subscribed, like ZeroMQ SUB.
type MemFabric struct {
	sync.Mutex
	pulls  map[string]*memPull
	subs   map[string][]*memSub
	refuse map[string]error
	live   int
}

type memPull struct {
	ch    chan []byte
	times []time.Time
}

func NewMemFabric() *MemFabric {
	return &MemFabric{
		pulls:  make(map[string]*memPull),
		subs:   make(map[string][]*memSub),
		refuse: make(map[string]error),
	}
}

// Refuse makes connections to addr fail with err, nil err accepts again.
func (f *MemFabric) Refuse(addr string, err error) {
	f.Lock()
	defer f.Unlock()
	if err == nil {
		delete(f.refuse, addr)
		return
	}
	f.refuse[addr] = err
}

// Publish delivers b to current subscribers of addr, returns their number.
func (f *MemFabric) Publish(addr string, b []byte) int {
	f.Lock()
	subs := append([]*memSub(nil), f.subs[addr]...)
	f.Unlock()
	n := 0
	for _, s := range subs {
		if s.deliver(copyBytes(b)) {
			n++
		}
	}
	return n
}

// Pushed is driver side receive of everything pushed to addr.
func (f *MemFabric) Pushed(addr string) <-chan []byte {
	f.Lock()
	defer f.Unlock()
	return f.pull(addr).ch
}

// PushTimes returns send time of every message pushed to addr so far.
func (f *MemFabric) PushTimes(addr string) []time.Time {
	f.Lock()
	defer f.Unlock()
	return append([]time.Time(nil), f.pull(addr).times...)
}

func (f *MemFabric) Subscribers(addr string) int {
	f.Lock()
	defer f.Unlock()
	return len(f.subs[addr])
}

// Live is number of contexts created and not yet closed.
func (f *MemFabric) Live() int {
	f.Lock()
	defer f.Unlock()
	return f.live
}

func (f *MemFabric) NewContext() Transport {
	f.Lock()
	f.live++
	f.Unlock()
	return &memTransport{fabric: f}
}

// must be called with lock
func (f *MemFabric) pull(addr string) *memPull {
	p, ok := f.pulls[addr]
	if !ok {
		p = &memPull{ch: make(chan []byte, memBuffer)}
		f.pulls[addr] = p
	}
	return p
}

func (f *MemFabric) unsubscribe(s *memSub) {
	f.Lock()
	defer f.Unlock()
	list := f.subs[s.addr]
	for i, x := range list {
		if x == s {
			f.subs[s.addr] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

type memTransport struct {
	sync.Mutex
	fabric *MemFabric
	subs   []*memSub
	closed bool
}

func (t *memTransport) check(ctx context.Context, addr string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.closed {
		return ErrDestroyed
	}
	t.fabric.Lock()
	err := t.fabric.refuse[addr]
	t.fabric.Unlock()
	return errors.Annotatef(err, "dial addr=%s", addr)
}

func (t *memTransport) Push(ctx context.Context, addr string) (Pusher, error) {
	t.Lock()
	defer t.Unlock()
	if err := t.check(ctx, addr); err != nil {
		return nil, err
	}
	return &memPush{t: t, addr: addr}, nil
}

func (t *memTransport) Subscribe(ctx context.Context, addr string) (Subscriber, error) {
	t.Lock()
	defer t.Unlock()
	if err := t.check(ctx, addr); err != nil {
		return nil, err
	}
	s := &memSub{
		fabric: t.fabric,
		addr:   addr,
		ch:     make(chan []byte, memBuffer),
		done:   make(chan struct{}),
	}
	t.subs = append(t.subs, s)
	t.fabric.Lock()
	t.fabric.subs[addr] = append(t.fabric.subs[addr], s)
	t.fabric.Unlock()
	return s, nil
}

func (t *memTransport) Close() error {
	t.Lock()
	defer t.Unlock()
	if t.closed {
		return ErrDestroyed
	}
	t.closed = true
	for _, s := range t.subs {
		_ = s.Close()
	}
	t.fabric.Lock()
	t.fabric.live--
	t.fabric.Unlock()
	return nil
}

type memPush struct {
	t    *memTransport
	addr string
}

func (p *memPush) Send(ctx context.Context, b []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.t.Lock()
	closed := p.t.closed
	p.t.Unlock()
	if closed {
		return ErrDestroyed
	}
	f := p.t.fabric
	f.Lock()
	pull := f.pull(p.addr)
	pull.times = append(pull.times, time.Now())
	f.Unlock()
	select {
	case pull.ch <- copyBytes(b):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *memPush) Close() error { return nil }

type memSub struct {
	fabric    *MemFabric
	addr      string
	ch        chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (s *memSub) deliver(b []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.ch <- b:
		return true
	case <-s.done:
		return false
	}
}

func (s *memSub) Recv(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		_ = s.Close()
		return nil, err
	}
	select {
	case <-s.done:
		return nil, ErrDestroyed
	default:
	}
	select {
	case b := <-s.ch:
		return b, nil
	case <-ctx.Done():
		_ = s.Close()
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrDestroyed
	}
}

func (s *memSub) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.fabric.unsubscribe(s)
	})
	return nil
}

// split send/receive buffer identity for safe concurrent access
func copyBytes(b []byte) []byte {
	new := make([]byte, len(b))
	copy(new, b)
	return new
}
