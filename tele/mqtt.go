package tele

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"io/ioutil"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/vikonava/matrix-creator/helpers"
	"github.com/vikonava/matrix-creator/log2"
)

const defaultNetworkTimeout = 30 * time.Second

var mqttLogOnce sync.Once

type MqttFactory func(*mqtt.ClientOptions) mqtt.Client

type mqttForwarder struct {
	log     *log2.Log
	m       mqtt.Client
	mopt    *mqtt.ClientOptions
	timeout time.Duration
	prefix  string
}

// NewMqtt connects to broker, newClient=nil means paho client.
// Subjects are published under "<topic_prefix>/<subject>" with QoS 1, not retained.
func NewMqtt(ctx context.Context, log *log2.Log, c Config, newClient MqttFactory) (Forwarder, error) {
	if c.URL == "" {
		return nil, errors.NotValidf("tele mqtt url empty")
	}
	if newClient == nil {
		newClient = mqtt.NewClient
	}
	self := &mqttForwarder{log: log, prefix: c.TopicPrefix}
	if self.prefix == "" {
		self.prefix = DefaultTopicPrefix
	}

	mqttLogOnce.Do(func() {
		// paho loggers are package globals, first forwarder wins
		mqttLog := log.Clone(log2.LDebug)
		mqtt.CRITICAL = mqttLog
		mqtt.ERROR = mqttLog
		mqtt.WARN = mqttLog
		if c.MqttLogDebug {
			mqtt.DEBUG = mqttLog
		}
	})

	clientID := c.ClientID
	if clientID == "" {
		clientID = "matrix-" + uuid.New().String()[:8]
	}
	networkTimeout := helpers.IntSecondDefault(c.NetworkTimeoutSec, defaultNetworkTimeout)
	if networkTimeout < 1*time.Second {
		networkTimeout = 1 * time.Second
	}
	self.timeout = networkTimeout
	connectTimeout := networkTimeout * 3
	keepaliveTimeout := helpers.IntSecondDefault(c.KeepaliveSec, networkTimeout/2)

	tlsconf := new(tls.Config)
	if c.TlsCaFile != "" {
		cabytes, err := ioutil.ReadFile(c.TlsCaFile)
		if err != nil {
			return nil, errors.Annotate(err, "tele mqtt tls ca")
		}
		tlsconf.RootCAs = x509.NewCertPool()
		if !tlsconf.RootCAs.AppendCertsFromPEM(cabytes) {
			return nil, errors.NotValidf("tele mqtt tls ca file=%s", c.TlsCaFile)
		}
	}
	self.mopt = mqtt.NewClientOptions().
		AddBroker(c.URL).
		SetAutoReconnect(false).
		SetCleanSession(true).
		SetClientID(clientID).
		SetConnectTimeout(connectTimeout).
		SetKeepAlive(keepaliveTimeout).
		SetOrderMatters(true).
		SetPingTimeout(networkTimeout).
		SetTLSConfig(tlsconf).
		SetWriteTimeout(networkTimeout)
	if c.Username != "" {
		self.mopt.SetUsername(c.Username).SetPassword(c.Password)
	}
	self.m = newClient(self.mopt)

	if err := self.tokenWait(ctx, self.m.Connect(), "connect"); err != nil {
		return nil, err
	}
	log.Debugf("tele mqtt connected broker=%s client=%s", c.URL, clientID)
	return self, nil
}

func (self *mqttForwarder) Publish(ctx context.Context, subject string, payload []byte) error {
	topic := Subject(self.prefix, subject, "/")
	t := self.m.Publish(topic, 1, false, payload)
	return self.tokenWait(ctx, t, "publish "+topic)
}

func (self *mqttForwarder) Close() error {
	if self.m.IsConnected() {
		self.m.Disconnect(uint(self.mopt.PingTimeout / time.Millisecond))
	}
	return nil
}

func (self *mqttForwarder) tokenWait(ctx context.Context, t mqtt.Token, tag string) error {
	timeout := self.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if !t.WaitTimeout(timeout) {
		err := errors.Timeoutf("tele mqtt %s", tag)
		self.log.Error(err)
		return err
	}
	if err := t.Error(); err != nil {
		err = errors.Annotatef(err, "tele mqtt %s", tag)
		self.log.Error(err)
		return err
	}
	return nil
}
