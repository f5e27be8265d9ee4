package sensor

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

const testIP = "10.1.1.7"

func testClient(t testing.TB, f *comm.MemFabric) *driver.Client {
	return &driver.Client{
		IP:           testIP,
		Log:          log2.NewTest(t, log2.LDebug),
		NewTransport: func(context.Context, *log2.Log) comm.Transport { return f.NewContext() },
		PingInterval: 20 * time.Millisecond,
		TimeoutPoll:  5 * time.Millisecond,
	}
}

// respond publishes data after driver received configuration.
func respond(t testing.TB, f *comm.MemFabric, port int, data ...proto.Message) {
	go func() {
		select {
		case <-f.Pushed(comm.Address(testIP, port, comm.KindConfig)):
		case <-time.After(5 * time.Second):
			return
		}
		for _, m := range data {
			b, err := proto.Marshal(m)
			if err != nil {
				t.Errorf("marshal err=%v", err)
				return
			}
			f.Publish(comm.Address(testIP, port, comm.KindData), b)
		}
	}()
}

func TestDetectOnce(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		port  int
		msg   proto.Message
		check func(t *testing.T, c *driver.Client) proto.Message
	}{
		{"imu", DefaultImuPort, &malos.Imu{Yaw: 10, MagZ: -1},
			func(t *testing.T, c *driver.Client) proto.Message {
				m, err := NewImu(0).DetectOnce(context.Background(), c)
				require.NoError(t, err)
				return m
			}},
		{"humidity", DefaultHumidityPort, &malos.Humidity{Humidity: 41.5, Temperature: 22, TemperatureIsCalibrated: true},
			func(t *testing.T, c *driver.Client) proto.Message {
				m, err := NewHumidity(0).DetectOnce(context.Background(), c)
				require.NoError(t, err)
				return m
			}},
		{"pressure", DefaultPressurePort, &malos.Pressure{Pressure: 101325, Altitude: 12},
			func(t *testing.T, c *driver.Client) proto.Message {
				m, err := NewPressure(0).DetectOnce(context.Background(), c)
				require.NoError(t, err)
				return m
			}},
		{"uv", DefaultUVPort, &malos.UV{UvIndex: 3, OmsRisk: "Moderate"},
			func(t *testing.T, c *driver.Client) proto.Message {
				m, err := NewUV(0).DetectOnce(context.Background(), c)
				require.NoError(t, err)
				return m
			}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			f := comm.NewMemFabric()
			respond(t, f, c.port, c.msg)
			got := c.check(t, testClient(t, f))
			require.NotNil(t, got)
			assert.True(t, proto.Equal(c.msg, got), "expected=%s got=%s", c.msg, got)
		})
	}
}

func TestDetectTyped(t *testing.T) {
	t.Parallel()
	f := comm.NewMemFabric()
	respond(t, f, 21000, &malos.UV{UvIndex: 1}, &malos.UV{UvIndex: 2}, &malos.UV{UvIndex: 7})
	var risks []float32
	rs, err := NewUV(21000).Detect(context.Background(), testClient(t, f), comm.DetectOptions{}.WithMaxResp(3),
		func(m *malos.UV) error {
			risks = append(risks, m.UvIndex)
			return nil
		})
	require.NoError(t, err)
	require.Len(t, rs, 3)
	assert.Equal(t, float32(7), rs[2].UvIndex)
	assert.Equal(t, []float32{1, 2, 7}, risks)
}

func TestDetectOnceSilent(t *testing.T) {
	t.Parallel()
	f := comm.NewMemFabric()
	c := testClient(t, f)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	m, err := NewPressure(0).DetectOnce(ctx, c)
	assert.NoError(t, err)
	assert.Nil(t, m)
}

func TestHumidityCalibrate(t *testing.T) {
	t.Parallel()
	f := comm.NewMemFabric()
	require.NoError(t, NewHumidity(0).Calibrate(context.Background(), testClient(t, f), 23.5))
	b := <-f.Pushed(comm.Address(testIP, DefaultHumidityPort, comm.KindConfig))
	cfg := &malos.DriverConfig{}
	require.NoError(t, proto.Unmarshal(b, cfg))
	require.NotNil(t, cfg.Humidity)
	assert.Equal(t, float32(23.5), cfg.Humidity.CurrentTemperature)
}

func TestByName(t *testing.T) {
	t.Parallel()
	s, err := ByName("pressure", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultPressurePort, s.Port)
	s, err = ByName("imu", map[string]int{"imu": 30013})
	require.NoError(t, err)
	assert.Equal(t, 30013, s.Port)
	_, err = ByName("vision", nil)
	assert.True(t, errors.IsNotFound(err))
}
