// Package state loads client configuration.
package state

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/vikonava/matrix-creator/comm"
	"github.com/vikonava/matrix-creator/driver"
	"github.com/vikonava/matrix-creator/everloop"
	"github.com/vikonava/matrix-creator/helpers"
	"github.com/vikonava/matrix-creator/log2"
	"github.com/vikonava/matrix-creator/sensor"
	"github.com/vikonava/matrix-creator/tele"
	"github.com/vikonava/matrix-creator/vision"
	"gopkg.in/yaml.v2"
)

const (
	EnvIP          = "MATRIX_IP"
	DefaultLogFile = "log/matrix_creator.log"
)

var DefaultPorts = map[string]int{
	"everloop": everloop.DefaultPort,
	"humidity": sensor.DefaultHumidityPort,
	"imu":      sensor.DefaultImuPort,
	"pressure": sensor.DefaultPressurePort,
	"uv":       sensor.DefaultUVPort,
	"vision":   vision.DefaultPort,
}

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include" yaml:"include" toml:"include"`

	Matrix struct {
		IP string `hcl:"ip" yaml:"ip" toml:"ip"`
		// yaml/toml form: devices: {imu: {port: 20013}}
		Devices map[string]DeviceConfig `yaml:"devices" toml:"devices"`
		// hcl form: device "imu" { port = 20013 }
		DeviceList []DeviceConfig `hcl:"device" yaml:"-" toml:"-"`
	} `hcl:"matrix" yaml:"matrix" toml:"matrix"`

	Comm struct {
		PingIntervalSec float64 `hcl:"ping_interval_sec" yaml:"ping_interval_sec" toml:"ping_interval_sec"`
		TimeoutPollSec  float64 `hcl:"timeout_poll_sec" yaml:"timeout_poll_sec" toml:"timeout_poll_sec"`
		DialRetryMs     int     `hcl:"dial_retry_ms" yaml:"dial_retry_ms" toml:"dial_retry_ms"`
		DialMaxRetries  int     `hcl:"dial_max_retries" yaml:"dial_max_retries" toml:"dial_max_retries"`
	} `hcl:"comm" yaml:"comm" toml:"comm"`

	// Zero limits mean unlimited.
	Detect struct {
		Speed   float64 `hcl:"speed" yaml:"speed" toml:"speed"`
		MaxResp int     `hcl:"max_resp" yaml:"max_resp" toml:"max_resp"`
		MaxSecs float64 `hcl:"max_secs" yaml:"max_secs" toml:"max_secs"`
	} `hcl:"detect" yaml:"detect" toml:"detect"`

	Log struct {
		Level      string `hcl:"level" yaml:"level" toml:"level"`
		File       string `hcl:"file" yaml:"file" toml:"file"`
		MaxBackups int    `hcl:"max_backups" yaml:"max_backups" toml:"max_backups"`
		MaxSizeMB  int    `hcl:"max_size_mb" yaml:"max_size_mb" toml:"max_size_mb"`
	} `hcl:"log" yaml:"log" toml:"log"`

	Tele tele.Config `hcl:"tele" yaml:"tele" toml:"tele"`
}

type ConfigSource struct {
	Name     string `hcl:"name,key" yaml:"name" toml:"name"`
	Optional bool   `hcl:"optional" yaml:"optional" toml:"optional"`
}

type DeviceConfig struct {
	Name string `hcl:"name,key" yaml:"-" toml:"-"`
	Port int    `hcl:"port" yaml:"port" toml:"port"`
}

// Port of named driver: hcl device block, then devices map, then default.
func (c *Config) Port(name string) int {
	for _, d := range c.Matrix.DeviceList {
		if d.Name == name && d.Port != 0 {
			return d.Port
		}
	}
	if d, ok := c.Matrix.Devices[name]; ok && d.Port != 0 {
		return d.Port
	}
	return DefaultPorts[name]
}

func (c *Config) Ports() map[string]int {
	names := make(map[string]struct{}, len(DefaultPorts))
	for name := range DefaultPorts {
		names[name] = struct{}{}
	}
	for name := range c.Matrix.Devices {
		names[name] = struct{}{}
	}
	for _, d := range c.Matrix.DeviceList {
		names[d.Name] = struct{}{}
	}
	m := make(map[string]int, len(names))
	for name := range names {
		m[name] = c.Port(name)
	}
	return m
}

func (c *Config) DeviceNames() []string {
	ps := c.Ports()
	ss := make([]string, 0, len(ps))
	for name := range ps {
		ss = append(ss, name)
	}
	sort.Strings(ss)
	return ss
}

func (c *Config) DetectOptions() comm.DetectOptions {
	opt := comm.DetectOptions{Speed: c.Detect.Speed}
	if c.Detect.MaxResp > 0 {
		opt = opt.WithMaxResp(c.Detect.MaxResp)
	}
	if c.Detect.MaxSecs > 0 {
		opt = opt.WithMaxSecs(c.Detect.MaxSecs)
	}
	return opt
}

// Client for configured device IP, transport is ZeroMQ with configured dial policy.
func (c *Config) Client(log *log2.Log) *driver.Client {
	zopt := comm.ZmqOptions{
		DialRetry:      helpers.FloatSecond(float64(c.Comm.DialRetryMs) / 1000),
		DialMaxRetries: c.Comm.DialMaxRetries,
	}
	return &driver.Client{
		IP:           c.Matrix.IP,
		Log:          log,
		PingInterval: helpers.FloatSecond(c.Comm.PingIntervalSec),
		TimeoutPoll:  helpers.FloatSecond(c.Comm.TimeoutPollSec),
		NewTransport: func(ctx context.Context, log *log2.Log) comm.Transport {
			o := zopt
			o.Log = log
			return comm.NewZmqTransport(ctx, o)
		},
	}
}

// NewLog writes to configured file with rotation, or stderr when file is "-".
// Returned close func is never nil.
func (c *Config) NewLog() (*log2.Log, func() error, error) {
	var level log2.Level = log2.LInfo
	if c.Log.Level != "" {
		l, ok := log2.ParseLevel(c.Log.Level)
		if !ok {
			return nil, func() error { return nil }, errors.NotValidf("log level=%q", c.Log.Level)
		}
		level = l
	}
	if c.Log.File == "-" {
		return log2.NewStderr(level), func() error { return nil }, nil
	}
	log, closer, err := log2.NewRotating(log2.FileOptions{
		Path:       c.Log.File,
		MaxBackups: c.Log.MaxBackups,
		MaxSizeMB:  c.Log.MaxSizeMB,
	}, level)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return log, closer, nil
}

func (c *Config) applyDefaults() {
	if c.Matrix.IP == "" {
		c.Matrix.IP = driver.DefaultIP
	}
	if c.Log.File == "" {
		c.Log.File = DefaultLogFile
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	if ip := getenv(EnvIP); ip != "" {
		c.Matrix.IP = ip
	}
}

func unmarshal(name string, b []byte, c *Config) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml":
		return yaml.Unmarshal(b, c)
	case ".toml":
		_, err := toml.NewDecoder(bytes.NewReader(b)).Decode(c)
		return err
	}
	return hcl.Unmarshal(b, c)
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		*errs = append(*errs, errors.Errorf("config duplicate source=%s", source.Name))
		return
	}
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			*errs = append(*errs, errors.NotFoundf("config required name=%s path=%s", source.Name, norm))
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	if err = unmarshal(source.Name, bs, c); err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs)))
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		if _, ok := c.includeSeen[fs.Normalize(include.Name)]; ok {
			*errs = append(*errs, errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name))
			continue
		}
		c.read(log, fs, include, errs)
	}
}

// ReadConfig merges names in order, later sources override earlier ones.
// MATRIX_IP environment variable overrides matrix.ip.
func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	return readConfig(log, fs, os.Getenv, names...)
}

func readConfig(log *log2.Log, fs FullReader, getenv func(string) string, names ...string) (*Config, error) {
	if len(names) == 0 {
		return nil, errors.NotValidf("config names empty")
	}
	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names = append([]string{name}, names[1:]...)
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	c.applyEnv(getenv)
	c.applyDefaults()
	return c, helpers.FoldErrors(errs...)
}

// Default is configuration without sources, environment still applies.
func Default() *Config {
	c := &Config{}
	c.applyEnv(os.Getenv)
	c.applyDefaults()
	return c
}
