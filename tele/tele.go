// Package tele forwards decoded driver telemetry to a message broker.
package tele

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/vikonava/matrix-creator/comm"
	"github.com/vikonava/matrix-creator/log2"
	"github.com/vikonava/matrix-creator/malos"
)

const DefaultTopicPrefix = "matrix"

type Config struct {
	// "mqtt", "nats" or empty for noop
	Kind              string `hcl:"kind" yaml:"kind" toml:"kind"`
	URL               string `hcl:"url" yaml:"url" toml:"url"`
	ClientID          string `hcl:"client_id" yaml:"client_id" toml:"client_id"`
	Username          string `hcl:"username" yaml:"username" toml:"username"`
	Password          string `hcl:"password" yaml:"password" toml:"password"`
	TopicPrefix       string `hcl:"topic_prefix" yaml:"topic_prefix" toml:"topic_prefix"`
	TlsCaFile         string `hcl:"tls_ca_file" yaml:"tls_ca_file" toml:"tls_ca_file"`
	NetworkTimeoutSec int    `hcl:"network_timeout_sec" yaml:"network_timeout_sec" toml:"network_timeout_sec"`
	KeepaliveSec      int    `hcl:"keepalive_sec" yaml:"keepalive_sec" toml:"keepalive_sec"`
	MqttLogDebug      bool   `hcl:"mqtt_log_debug" yaml:"mqtt_log_debug" toml:"mqtt_log_debug"`
}

// Forwarder publishes one payload per record.
type Forwarder interface {
	Publish(ctx context.Context, subject string, payload []byte) error
	Close() error
}

type Noop struct{}

var _ Forwarder = Noop{}

func (Noop) Publish(context.Context, string, []byte) error { return nil }
func (Noop) Close() error                                  { return nil }

// New connects forwarder selected by config Kind.
func New(ctx context.Context, log *log2.Log, c Config) (Forwarder, error) {
	switch strings.ToLower(c.Kind) {
	case "", "none", "noop":
		return Noop{}, nil
	case "mqtt":
		return NewMqtt(ctx, log, c, nil)
	case "nats":
		return NewNats(log, c)
	}
	return nil, errors.NotValidf("tele kind=%q", c.Kind)
}

// Subject joins topic prefix and device name with sep.
func Subject(prefix, device string, sep string) string {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return prefix + sep + device
}

type Sink struct {
	f       Forwarder
	log     *log2.Log
	subject string
	sent    uint32
}

func NewSink(f Forwarder, log *log2.Log, subject string) *Sink {
	return &Sink{f: f, log: log, subject: subject}
}

func (s *Sink) Sent() uint32 { return atomic.LoadUint32(&s.sent) }

// Callback publishes every record as JSON, protobuf field names preserved.
// Publish errors stop the data listener.
func (s *Sink) Callback(ctx context.Context) comm.Callback {
	return func(r comm.Record) error {
		b, err := EncodeRecord(r)
		if err != nil {
			return err
		}
		if err = s.f.Publish(ctx, s.subject, b); err != nil {
			return errors.Annotatef(err, "tele publish subject=%s", s.subject)
		}
		atomic.AddUint32(&s.sent, 1)
		s.log.Debugf("tele publish subject=%s len=%d", s.subject, len(b))
		return nil
	}
}

func EncodeRecord(r comm.Record) ([]byte, error) {
	switch m := r.(type) {
	case proto.Message:
		return malos.MarshalJSON(m)
	case []byte:
		return m, nil
	case string:
		return []byte(m), nil
	}
	return nil, errors.NotSupportedf("tele record type %s", fmt.Sprintf("%T", r))
}
