package comm

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/vikonava/matrix-creator/log2"
)

const (
	DefaultPingInterval = 3 * time.Second
	DefaultTimeoutPoll  = 1 * time.Second
)

// Record is one decoded telemetry unit, opaque to Comm.
type Record = interface{}

type Decoder interface {
	Decode([]byte) (Record, error)
}

type DecoderFunc func([]byte) (Record, error)

func (f DecoderFunc) Decode(b []byte) (Record, error) { return f(b) }

// Callback runs synchronously in data listener for every record.
// Error or panic stops the listener like a decode failure.
type Callback func(Record) error

type Encoder func(proto.Message) ([]byte, error)

type Options struct {
	IP   string
	Port int
	Log  *log2.Log
	// nil means ZeroMQ context bound to New ctx
	Transport    Transport
	Encoder      Encoder
	PingInterval time.Duration
	TimeoutPoll  time.Duration
	// Called from error listener with every driver error notification.
	OnDriverError func(string)
}

// Comm is connection manager for one driver base port.
type Comm struct {
	id        string
	opt       Options
	log       *log2.Log
	transport Transport

	configLk sync.Mutex
	config   Pusher
	ping     Pusher
	errs     Subscriber
	data     Subscriber

	performed uint32
	destroyed uint32
}

// New opens all four channels, any failure is *ConnectionError
// and channels opened so far are released.
func New(ctx context.Context, opt Options) (*Comm, error) {
	if opt.IP == "" {
		return nil, errors.NotValidf("comm ip empty")
	}
	if opt.Port <= 0 || opt.Port+int(KindData) > 0xffff {
		return nil, errors.NotValidf("comm port=%d", opt.Port)
	}
	if opt.Encoder == nil {
		opt.Encoder = proto.Marshal
	}
	if opt.PingInterval <= 0 {
		opt.PingInterval = DefaultPingInterval
	}
	if opt.TimeoutPoll <= 0 {
		opt.TimeoutPoll = DefaultTimeoutPoll
	}
	c := &Comm{
		id:  uuid.New().String(),
		opt: opt,
	}
	c.log = opt.Log.Clone(opt.Log.Level())
	c.log.SetPrefix("[instance " + c.id + "] ")
	c.transport = opt.Transport
	if c.transport == nil {
		c.transport = NewZmqTransport(ctx, ZmqOptions{Log: c.log})
	}
	c.log.Debugf("initializing base=%s", c.Address(KindConfig))

	var err error
	if c.config, err = c.openPush(ctx, KindConfig); err == nil {
		if c.ping, err = c.openPush(ctx, KindPing); err == nil {
			if c.errs, err = c.openSub(ctx, KindError); err == nil {
				c.data, err = c.openSub(ctx, KindData)
			}
		}
	}
	if err != nil {
		c.log.Errorf("%v", err)
		_ = c.release()
		return nil, err
	}
	return c, nil
}

func (c *Comm) ID() string            { return c.id }
func (c *Comm) Port() int             { return c.opt.Port }
func (c *Comm) Log() *log2.Log        { return c.log }
func (c *Comm) Destroyed() bool       { return atomic.LoadUint32(&c.destroyed) != 0 }
func (c *Comm) Address(k Kind) string { return Address(c.opt.IP, c.opt.Port, k) }

// SendConfiguration encodes msg and pushes it to driver base port.
// Safe for concurrent use, messages are sent in call order.
func (c *Comm) SendConfiguration(ctx context.Context, msg proto.Message) error {
	if c.Destroyed() {
		return ErrDestroyed
	}
	b, err := c.opt.Encoder(msg)
	if err != nil {
		return errors.Annotate(err, "encode configuration")
	}
	c.configLk.Lock()
	err = c.config.Send(ctx, b)
	c.configLk.Unlock()
	if err != nil {
		err = errors.Annotatef(err, "send configuration addr=%s", c.Address(KindConfig))
		c.log.Error(err)
		return err
	}
	c.log.Infof("configuration sent to driver")
	c.log.Debugf("data: %s", msg)
	return nil
}

// Destroy releases channels and messaging context.
// Second call returns ErrDestroyed.
func (c *Comm) Destroy() error {
	if !atomic.CompareAndSwapUint32(&c.destroyed, 0, 1) {
		return ErrDestroyed
	}
	c.log.Infof("destroying messaging context")
	return c.release()
}

func (c *Comm) release() error {
	for _, ch := range []interface{ Close() error }{c.config, c.ping, c.errs, c.data} {
		if ch != nil {
			if err := ch.Close(); err != nil && err != ErrDestroyed {
				c.log.Debugf("channel close err=%v", err)
			}
		}
	}
	return errors.Annotate(c.transport.Close(), "close messaging context")
}

func (c *Comm) openPush(ctx context.Context, k Kind) (Pusher, error) {
	addr := c.Address(k)
	p, err := c.transport.Push(ctx, addr)
	if err != nil {
		return nil, &ConnectionError{Kind: k, Addr: addr, Err: err}
	}
	c.log.Debugf("%s channel connected to %s", k, addr)
	return p, nil
}

func (c *Comm) openSub(ctx context.Context, k Kind) (Subscriber, error) {
	addr := c.Address(k)
	s, err := c.transport.Subscribe(ctx, addr)
	if err != nil {
		return nil, &ConnectionError{Kind: k, Addr: addr, Err: err}
	}
	c.log.Debugf("%s channel connected to %s", k, addr)
	return s, nil
}
