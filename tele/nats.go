package tele

import (
	"context"
	"time"

	"github.com/juju/errors"
	"github.com/nats-io/nats.go"
	"github.com/vikonava/matrix-creator/helpers"
	"github.com/vikonava/matrix-creator/log2"
)

// natsConn is the part of *nats.Conn used for forwarding.
type natsConn interface {
	Publish(subj string, data []byte) error
	FlushTimeout(time.Duration) error
	Close()
}

type natsForwarder struct {
	log     *log2.Log
	nc      natsConn
	prefix  string
	timeout time.Duration
}

// NewNats connects to NATS server, subjects are "<topic_prefix>.<subject>".
func NewNats(log *log2.Log, c Config) (Forwarder, error) {
	if c.URL == "" {
		return nil, errors.NotValidf("tele nats url empty")
	}
	timeout := helpers.IntSecondDefault(c.NetworkTimeoutSec, defaultNetworkTimeout)
	opts := []nats.Option{
		nats.Name("matrix-creator"),
		nats.Timeout(timeout),
		nats.NoReconnect(),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Errorf("tele nats disconnected err=%v", err)
			}
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Errorf("tele nats err=%v", err)
		}),
	}
	if c.Username != "" {
		opts = append(opts, nats.UserInfo(c.Username, c.Password))
	}
	if c.TlsCaFile != "" {
		opts = append(opts, nats.RootCAs(c.TlsCaFile))
	}
	nc, err := nats.Connect(c.URL, opts...)
	if err != nil {
		return nil, errors.Annotatef(err, "tele nats connect url=%s", c.URL)
	}
	log.Debugf("tele nats connected url=%s", nc.ConnectedUrl())
	return newNatsForwarder(log, nc, c.TopicPrefix, timeout), nil
}

func newNatsForwarder(log *log2.Log, nc natsConn, prefix string, timeout time.Duration) *natsForwarder {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return &natsForwarder{log: log, nc: nc, prefix: prefix, timeout: timeout}
}

func (self *natsForwarder) Publish(ctx context.Context, subject string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subj := Subject(self.prefix, subject, ".")
	return errors.Annotatef(self.nc.Publish(subj, payload), "tele nats publish subject=%s", subj)
}

// Close flushes pending messages.
func (self *natsForwarder) Close() error {
	err := self.nc.FlushTimeout(self.timeout)
	self.nc.Close()
	return errors.Annotate(err, "tele nats flush")
}
