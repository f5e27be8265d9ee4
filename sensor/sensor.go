// Package sensor wraps MALOS telemetry drivers with typed results.
package sensor

import (
	"context"

	"github.com/juju/errors"
	"github.com/vikonava/matrix-creator/comm"
	"github.com/vikonava/matrix-creator/driver"
	"github.com/vikonava/matrix-creator/malos"
)

// Default MALOS base ports.
const (
	DefaultImuPort      = 20013
	DefaultHumidityPort = 20017
	DefaultPressurePort = 20025
	DefaultUVPort       = 20029
)

type Sensor struct {
	Name    string
	Port    int
	Decoder malos.ProtoDecoder
}

// Detect returns raw records, see driver.Client.Detect.
func (s Sensor) Detect(ctx context.Context, c *driver.Client, opt comm.DetectOptions, cb comm.Callback) ([]comm.Record, error) {
	rs, err := c.Detect(ctx, s.Port, s.Decoder, opt, cb)
	return rs, errors.Annotate(err, s.Name)
}

type Imu struct{ Sensor }
type Humidity struct{ Sensor }
type Pressure struct{ Sensor }
type UV struct{ Sensor }

func NewImu(port int) Imu {
	return Imu{Sensor{Name: "imu", Port: portOrDefault(port, DefaultImuPort), Decoder: malos.ImuDecoder}}
}
func NewHumidity(port int) Humidity {
	return Humidity{Sensor{Name: "humidity", Port: portOrDefault(port, DefaultHumidityPort), Decoder: malos.HumidityDecoder}}
}
func NewPressure(port int) Pressure {
	return Pressure{Sensor{Name: "pressure", Port: portOrDefault(port, DefaultPressurePort), Decoder: malos.PressureDecoder}}
}
func NewUV(port int) UV {
	return UV{Sensor{Name: "uv", Port: portOrDefault(port, DefaultUVPort), Decoder: malos.UVDecoder}}
}

func (s Imu) Detect(ctx context.Context, c *driver.Client, opt comm.DetectOptions, fun func(*malos.Imu) error) ([]*malos.Imu, error) {
	var cb comm.Callback
	if fun != nil {
		cb = func(r comm.Record) error { return fun(r.(*malos.Imu)) }
	}
	rs, err := s.Sensor.Detect(ctx, c, opt, cb)
	out := make([]*malos.Imu, len(rs))
	for i, r := range rs {
		out[i] = r.(*malos.Imu)
	}
	return out, err
}

// DetectOnce returns first record or nil when driver sent nothing.
func (s Imu) DetectOnce(ctx context.Context, c *driver.Client) (*malos.Imu, error) {
	rs, err := s.Detect(ctx, c, comm.DetectOptions{}.WithMaxResp(1), nil)
	if err != nil || len(rs) == 0 {
		return nil, err
	}
	return rs[0], nil
}

func (s Humidity) Detect(ctx context.Context, c *driver.Client, opt comm.DetectOptions, fun func(*malos.Humidity) error) ([]*malos.Humidity, error) {
	var cb comm.Callback
	if fun != nil {
		cb = func(r comm.Record) error { return fun(r.(*malos.Humidity)) }
	}
	rs, err := s.Sensor.Detect(ctx, c, opt, cb)
	out := make([]*malos.Humidity, len(rs))
	for i, r := range rs {
		out[i] = r.(*malos.Humidity)
	}
	return out, err
}

func (s Humidity) DetectOnce(ctx context.Context, c *driver.Client) (*malos.Humidity, error) {
	rs, err := s.Detect(ctx, c, comm.DetectOptions{}.WithMaxResp(1), nil)
	if err != nil || len(rs) == 0 {
		return nil, err
	}
	return rs[0], nil
}

// Calibrate sends current ambient temperature used by driver to correct readings.
func (s Humidity) Calibrate(ctx context.Context, c *driver.Client, celsius float32) error {
	msg := &malos.DriverConfig{Humidity: &malos.HumidityParams{CurrentTemperature: celsius}}
	return errors.Annotate(c.Configure(ctx, s.Port, msg), "humidity calibrate")
}

func (s Pressure) Detect(ctx context.Context, c *driver.Client, opt comm.DetectOptions, fun func(*malos.Pressure) error) ([]*malos.Pressure, error) {
	var cb comm.Callback
	if fun != nil {
		cb = func(r comm.Record) error { return fun(r.(*malos.Pressure)) }
	}
	rs, err := s.Sensor.Detect(ctx, c, opt, cb)
	out := make([]*malos.Pressure, len(rs))
	for i, r := range rs {
		out[i] = r.(*malos.Pressure)
	}
	return out, err
}

func (s Pressure) DetectOnce(ctx context.Context, c *driver.Client) (*malos.Pressure, error) {
	rs, err := s.Detect(ctx, c, comm.DetectOptions{}.WithMaxResp(1), nil)
	if err != nil || len(rs) == 0 {
		return nil, err
	}
	return rs[0], nil
}

func (s UV) Detect(ctx context.Context, c *driver.Client, opt comm.DetectOptions, fun func(*malos.UV) error) ([]*malos.UV, error) {
	var cb comm.Callback
	if fun != nil {
		cb = func(r comm.Record) error { return fun(r.(*malos.UV)) }
	}
	rs, err := s.Sensor.Detect(ctx, c, opt, cb)
	out := make([]*malos.UV, len(rs))
	for i, r := range rs {
		out[i] = r.(*malos.UV)
	}
	return out, err
}

func (s UV) DetectOnce(ctx context.Context, c *driver.Client) (*malos.UV, error) {
	rs, err := s.Detect(ctx, c, comm.DetectOptions{}.WithMaxResp(1), nil)
	if err != nil || len(rs) == 0 {
		return nil, err
	}
	return rs[0], nil
}

// ByName returns raw sensor for CLI and config lookups, ports map overrides defaults.
func ByName(name string, ports map[string]int) (Sensor, error) {
	port := ports[name]
	switch name {
	case "imu":
		return NewImu(port).Sensor, nil
	case "humidity":
		return NewHumidity(port).Sensor, nil
	case "pressure":
		return NewPressure(port).Sensor, nil
	case "uv":
		return NewUV(port).Sensor, nil
	}
	return Sensor{}, errors.NotFoundf("sensor %q", name)
}

func Names() []string { return []string{"humidity", "imu", "pressure", "uv"} }

func portOrDefault(port, def int) int {
	if port == 0 {
		return def
	}
	return port
}
