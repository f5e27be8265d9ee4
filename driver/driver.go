// Package driver runs one detect cycle against a MALOS driver:
// connect, configure, collect telemetry, disconnect.
package driver

import (
	"context"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/vikonava/matrix-creator/comm"
	"github.com/vikonava/matrix-creator/log2"
	"github.com/vikonava/matrix-creator/malos"
)

const DefaultIP = "127.0.0.1"

// TransportFunc creates messaging context for one Comm.
type TransportFunc func(ctx context.Context, log *log2.Log) comm.Transport

type Client struct {
	IP  string
	Log *log2.Log
	// nil means ZeroMQ
	NewTransport  TransportFunc
	PingInterval  time.Duration
	TimeoutPoll   time.Duration
	OnDriverError func(string)
}

// Open connects all channels of driver at port.
// Caller must Destroy returned Comm.
func (c *Client) Open(ctx context.Context, port int) (*comm.Comm, error) {
	ip := c.IP
	if ip == "" {
		ip = DefaultIP
	}
	opt := comm.Options{
		IP:            ip,
		Port:          port,
		Log:           c.Log,
		PingInterval:  c.PingInterval,
		TimeoutPoll:   c.TimeoutPoll,
		OnDriverError: c.OnDriverError,
	}
	if c.NewTransport != nil {
		opt.Transport = c.NewTransport(ctx, c.Log)
	}
	cm, err := comm.New(ctx, opt)
	if err != nil && opt.Transport != nil && !comm.IsConnectionError(err) {
		// New did not take ownership
		_ = opt.Transport.Close()
	}
	return cm, err
}

// Detect configures telemetry speed and collects records until a limit,
// ctx cancel or listener failure. Listener failures are logged and partial
// records returned with nil error.
func (c *Client) Detect(ctx context.Context, port int, dec comm.Decoder, opt comm.DetectOptions, cb comm.Callback) ([]comm.Record, error) {
	r, err := c.DetectResult(ctx, port, dec, opt, cb)
	if err != nil {
		return nil, err
	}
	return r.Records, nil
}

func (c *Client) DetectResult(ctx context.Context, port int, dec comm.Decoder, opt comm.DetectOptions, cb comm.Callback) (*comm.Result, error) {
	if err := opt.Validate(); err != nil {
		return nil, errors.Annotatef(err, "detect port=%d", port)
	}
	cm, err := c.Open(ctx, port)
	if err != nil {
		return nil, errors.Annotatef(err, "detect port=%d", port)
	}
	defer func() {
		if err := cm.Destroy(); err != nil {
			cm.Log().Errorf("destroy err=%v", err)
		}
	}()

	if err = cm.SendConfiguration(ctx, malos.NewDriverConfig(float32(opt.Speed))); err != nil {
		return nil, errors.Annotatef(err, "detect port=%d", port)
	}
	return cm.Run(ctx, dec, opt, cb)
}

// Configure pushes msgs in order without collecting telemetry.
func (c *Client) Configure(ctx context.Context, port int, msgs ...proto.Message) error {
	cm, err := c.Open(ctx, port)
	if err != nil {
		return errors.Annotatef(err, "configure port=%d", port)
	}
	for _, m := range msgs {
		if err = cm.SendConfiguration(ctx, m); err != nil {
			break
		}
	}
	if derr := cm.Destroy(); err == nil {
		err = derr
	}
	return errors.Annotatef(err, "configure port=%d", port)
}
