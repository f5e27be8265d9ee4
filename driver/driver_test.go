package driver_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vikonava/matrix-creator/comm"
	"github.com/vikonava/matrix-creator/driver"
	"github.com/vikonava/matrix-creator/log2"
	"github.com/vikonava/matrix-creator/malos"
)

const testIP = "192.168.1.50"

func testClient(t testing.TB, f *comm.MemFabric) *driver.Client {
	return &driver.Client{
		IP:           testIP,
		Log:          log2.NewTest(t, log2.LDebug),
		NewTransport: func(context.Context, *log2.Log) comm.Transport { return f.NewContext() },
		PingInterval: 20 * time.Millisecond,
		TimeoutPoll:  5 * time.Millisecond,
	}
}

// mockDriver answers first configuration on port with data messages.
func mockDriver(t testing.TB, f *comm.MemFabric, port int, data ...proto.Message) <-chan *malos.DriverConfig {
	out := make(chan *malos.DriverConfig, 1)
	go func() {
		defer close(out)
		select {
		case b := <-f.Pushed(comm.Address(testIP, port, comm.KindConfig)):
			cfg := &malos.DriverConfig{}
			if err := proto.Unmarshal(b, cfg); err != nil {
				t.Errorf("mock driver config err=%v", err)
				return
			}
			out <- cfg
		case <-time.After(5 * time.Second):
			return
		}
		for _, m := range data {
			b, err := proto.Marshal(m)
			if err != nil {
				t.Errorf("mock driver marshal err=%v", err)
				return
			}
			f.Publish(comm.Address(testIP, port, comm.KindData), b)
		}
	}()
	return out
}

func TestDetect(t *testing.T) {
	t.Parallel()
	f := comm.NewMemFabric()
	c := testClient(t, f)
	cfgch := mockDriver(t, f, 20013,
		&malos.Imu{Yaw: 1.5, Pitch: -2},
		&malos.Imu{Yaw: 1.75, Pitch: -2.5},
		&malos.Imu{Yaw: 2, Pitch: -3},
	)

	var seen int
	cb := func(comm.Record) error { seen++; return nil }
	rs, err := c.Detect(context.Background(), 20013, malos.ImuDecoder, comm.DetectOptions{Speed: 0.25}.WithMaxResp(2), cb)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, float32(1.5), rs[0].(*malos.Imu).Yaw)
	assert.Equal(t, float32(-2.5), rs[1].(*malos.Imu).Pitch)
	assert.Equal(t, 2, seen)

	cfg := <-cfgch
	require.NotNil(t, cfg)
	assert.Equal(t, float32(0.25), cfg.DelayBetweenUpdates)
	assert.Equal(t, malos.DefaultTimeoutAfterLastPing, cfg.TimeoutAfterLastPing)
	assert.Equal(t, 0, f.Live())
}

func TestDetectDefaultSpeed(t *testing.T) {
	t.Parallel()
	f := comm.NewMemFabric()
	c := testClient(t, f)
	cfgch := mockDriver(t, f, 20029)

	r, err := c.DetectResult(context.Background(), 20029, malos.UVDecoder, comm.DetectOptions{}.WithMaxSecs(0.05), nil)
	require.NoError(t, err)
	assert.Len(t, r.Records, 0)
	assert.True(t, r.TimedOut)
	cfg := <-cfgch
	require.NotNil(t, cfg)
	assert.Equal(t, malos.DefaultDelayBetweenUpdates, cfg.DelayBetweenUpdates)
}

func TestDetectInvalid(t *testing.T) {
	t.Parallel()
	f := comm.NewMemFabric()
	c := testClient(t, f)
	_, err := c.Detect(context.Background(), 20013, malos.ImuDecoder, comm.DetectOptions{}.WithMaxResp(-3), nil)
	require.Error(t, err)
	assert.True(t, errors.IsNotValid(err))
	// nothing opened
	assert.Equal(t, 0, f.Live())
	assert.Len(t, f.PushTimes(comm.Address(testIP, 20013, comm.KindConfig)), 0)
}

func TestDetectConnectionError(t *testing.T) {
	t.Parallel()
	f := comm.NewMemFabric()
	f.Refuse(comm.Address(testIP, 20017, comm.KindData), errors.New("no route to host"))
	c := testClient(t, f)
	_, err := c.Detect(context.Background(), 20017, malos.HumidityDecoder, comm.DetectOptions{}.WithMaxResp(1), nil)
	require.Error(t, err)
	assert.True(t, comm.IsConnectionError(err))
	assert.Equal(t, 0, f.Live())
}

func TestOpenInvalidPort(t *testing.T) {
	t.Parallel()
	f := comm.NewMemFabric()
	c := testClient(t, f)
	_, err := c.Open(context.Background(), -1)
	require.Error(t, err)
	assert.True(t, errors.IsNotValid(err))
	assert.Equal(t, 0, f.Live())
}

func TestConfigure(t *testing.T) {
	t.Parallel()
	f := comm.NewMemFabric()
	c := testClient(t, f)
	first := &malos.DriverConfig{Humidity: &malos.HumidityParams{CurrentTemperature: 23}}
	second := malos.NewDriverConfig(2)
	require.NoError(t, c.Configure(context.Background(), 20017, first, second))

	pushed := f.Pushed(comm.Address(testIP, 20017, comm.KindConfig))
	for _, expect := range []proto.Message{first, second} {
		b := <-pushed
		got := &malos.DriverConfig{}
		require.NoError(t, proto.Unmarshal(b, got))
		assert.True(t, proto.Equal(expect, got), "expected=%s got=%s", expect, got)
	}
	assert.Equal(t, 0, f.Live())
}
