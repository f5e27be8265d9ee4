package comm

import (
	"context"
	"sync"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/juju/errors"
	"github.com/vikonava/matrix-creator/log2"
)

const (
	DefaultDialRetry      = 250 * time.Millisecond
	DefaultDialMaxRetries = 4
)

type ZmqOptions struct {
	Log            *log2.Log
	DialRetry      time.Duration
	DialMaxRetries int
}

type zmqTransport struct {
	sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	log    *log2.Log
	opts   []zmq4.Option
	socks  []*zmqSocket
	closed bool
}

var _ Transport = &zmqTransport{}

// NewZmqTransport creates messaging context, sockets die with ctx or Close.
func NewZmqTransport(ctx context.Context, opt ZmqOptions) Transport {
	if opt.DialRetry == 0 {
		opt.DialRetry = DefaultDialRetry
	}
	if opt.DialMaxRetries == 0 {
		opt.DialMaxRetries = DefaultDialMaxRetries
	}
	tctx, cancel := context.WithCancel(ctx)
	return &zmqTransport{
		ctx:    tctx,
		cancel: cancel,
		log:    opt.Log,
		opts: []zmq4.Option{
			zmq4.WithDialerRetry(opt.DialRetry),
			zmq4.WithDialerMaxRetries(opt.DialMaxRetries),
		},
	}
}

func (t *zmqTransport) Push(ctx context.Context, addr string) (Pusher, error) {
	return t.open(ctx, addr, zmq4.NewPush)
}

func (t *zmqTransport) Subscribe(ctx context.Context, addr string) (Subscriber, error) {
	s, err := t.open(ctx, addr, zmq4.NewSub)
	if err != nil {
		return nil, err
	}
	if err = s.sock.SetOption(zmq4.OptionSubscribe, ""); err != nil {
		_ = s.Close()
		return nil, errors.Annotatef(err, "subscribe addr=%s", addr)
	}
	return s, nil
}

func (t *zmqTransport) Close() error {
	t.Lock()
	socks := t.socks
	t.socks, t.closed = nil, true
	t.Unlock()
	for _, s := range socks {
		// sockets aborted by cancelled Recv report already closed connections
		if err := s.Close(); err != nil {
			t.log.Debugf("zmq close addr=%s err=%v", s.addr, err)
		}
	}
	t.cancel()
	return nil
}

func (t *zmqTransport) open(ctx context.Context, addr string, ctor func(context.Context, ...zmq4.Option) zmq4.Socket) (*zmqSocket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.Lock()
	defer t.Unlock()
	if t.closed {
		return nil, ErrDestroyed
	}
	sock := ctor(t.ctx, t.opts...)
	if err := sock.Dial(addr); err != nil {
		_ = sock.Close()
		return nil, errors.Annotatef(err, "dial addr=%s", addr)
	}
	t.log.Debugf("zmq %s connected to %s", sock.Type(), addr)
	s := &zmqSocket{sock: sock, addr: addr}
	t.socks = append(t.socks, s)
	return s, nil
}

type zmqSocket struct {
	sock      zmq4.Socket
	addr      string
	closeOnce sync.Once
	closeErr  error
}

func (s *zmqSocket) Send(ctx context.Context, b []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()
	if err := s.sock.Send(zmq4.NewMsg(b)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Annotatef(err, "send addr=%s", s.addr)
	}
	return nil
}

func (s *zmqSocket) Recv(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()
	msg, err := s.sock.Recv()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Annotatef(err, "recv addr=%s", s.addr)
	}
	return msg.Bytes(), nil
}

func (s *zmqSocket) Close() error {
	s.closeOnce.Do(func() { s.closeErr = s.sock.Close() })
	return s.closeErr
}
