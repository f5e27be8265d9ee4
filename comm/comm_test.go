package comm

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vikonava/matrix-creator/log2"
	"github.com/vikonava/matrix-creator/malos"
)

const testIP = "10.0.0.42"

var testDecoder = DecoderFunc(func(b []byte) (Record, error) {
	if string(b) == "bad" {
		return nil, errors.New("bad payload")
	}
	return string(b), nil
})

func testOptions(t testing.TB, f *MemFabric, port int) Options {
	return Options{
		IP:           testIP,
		Port:         port,
		Log:          log2.NewTest(t, log2.LDebug),
		Transport:    f.NewContext(),
		PingInterval: 20 * time.Millisecond,
		TimeoutPoll:  5 * time.Millisecond,
	}
}

func testComm(t testing.TB, f *MemFabric, port int) *Comm {
	c, err := New(context.Background(), testOptions(t, f, port))
	require.NoError(t, err)
	return c
}

func publishData(f *MemFabric, port int, payloads ...string) {
	for _, p := range payloads {
		f.Publish(Address(testIP, port, KindData), []byte(p))
	}
}

func recordStrings(rs []Record) []string {
	ss := make([]string, len(rs))
	for i, r := range rs {
		ss[i] = r.(string)
	}
	return ss
}

func TestNewChannels(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	c := testComm(t, f, 20013)
	assert.Equal(t, 20013, c.Port())
	assert.NotEmpty(t, c.ID())
	assert.Equal(t, "tcp://10.0.0.42:20016", c.Address(KindData))
	assert.Equal(t, 1, f.Subscribers("tcp://10.0.0.42:20015"))
	assert.Equal(t, 1, f.Subscribers("tcp://10.0.0.42:20016"))
	assert.Equal(t, 0, f.Subscribers("tcp://10.0.0.42:20013"))
	require.NoError(t, c.Destroy())
	assert.Equal(t, 0, f.Subscribers("tcp://10.0.0.42:20016"))
	assert.Equal(t, 0, f.Live())
}

func TestNewInvalid(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	cases := []struct {
		name string
		edit func(*Options)
	}{
		{"empty-ip", func(o *Options) { o.IP = "" }},
		{"zero-port", func(o *Options) { o.Port = 0 }},
		{"port-overflow", func(o *Options) { o.Port = 0xffff - 1 }},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			opt := testOptions(t, f, 20013)
			c.edit(&opt)
			_, err := New(context.Background(), opt)
			require.Error(t, err)
			assert.True(t, errors.IsNotValid(err), err.Error())
		})
	}
}

func TestNewConnectionError(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	addr := Address(testIP, 20017, KindError)
	f.Refuse(addr, errors.New("connection refused"))
	_, err := New(context.Background(), testOptions(t, f, 20017))
	require.Error(t, err)
	assert.True(t, IsConnectionError(err))
	cerr := errors.Cause(err).(*ConnectionError)
	assert.Equal(t, KindError, cerr.Kind)
	assert.Equal(t, addr, cerr.Addr)
	assert.Contains(t, err.Error(), "connection refused")
	// already opened config and ping channels are released with context
	assert.Equal(t, 0, f.Live())
	assert.Equal(t, 0, f.Subscribers(Address(testIP, 20017, KindData)))
}

func TestSendConfiguration(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	c := testComm(t, f, 20013)
	defer c.Destroy()

	msg := malos.NewDriverConfig(0.5)
	require.NoError(t, c.SendConfiguration(context.Background(), msg))
	expect, err := proto.Marshal(msg)
	require.NoError(t, err)
	select {
	case b := <-f.Pushed(c.Address(KindConfig)):
		assert.Equal(t, expect, b)
	case <-time.After(time.Second):
		t.Fatal("configuration not pushed")
	}
	assert.Len(t, f.PushTimes(c.Address(KindPing)), 0)
}

func TestSendConfigurationEncodeError(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	opt := testOptions(t, f, 20013)
	opt.Encoder = func(proto.Message) ([]byte, error) { return nil, errors.New("no space") }
	c, err := New(context.Background(), opt)
	require.NoError(t, err)
	defer c.Destroy()
	err = c.SendConfiguration(context.Background(), malos.NewDriverConfig(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode configuration")
	assert.Len(t, f.PushTimes(c.Address(KindConfig)), 0)
}

func TestDestroyTwice(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	c := testComm(t, f, 20013)
	require.NoError(t, c.Destroy())
	assert.True(t, c.Destroyed())
	assert.Equal(t, ErrDestroyed, c.Destroy())
	assert.Equal(t, ErrDestroyed, c.SendConfiguration(context.Background(), malos.NewDriverConfig(1)))
	_, err := c.Perform(context.Background(), testDecoder, DetectOptions{}.WithMaxResp(1), nil)
	assert.Equal(t, ErrDestroyed, err)
}

// 10 Hz stream, max_resp=3: first three records in arrival order.
func TestPerformMaxResp(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	c := testComm(t, f, 20013)
	defer c.Destroy()
	publishData(f, 20013, "r1", "r2", "r3", "r4", "r5")

	r, err := c.Run(context.Background(), testDecoder, DetectOptions{}.WithMaxResp(3), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3"}, recordStrings(r.Records))
	assert.Equal(t, StateLimitReached, r.State)
	assert.False(t, r.TimedOut)
	assert.NoError(t, r.Err)
}

func TestPerformMaxRespZero(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	c := testComm(t, f, 20013)
	defer c.Destroy()
	publishData(f, 20013, "r1", "r2")

	r, err := c.Run(context.Background(), testDecoder, DetectOptions{}.WithMaxResp(0), nil)
	require.NoError(t, err)
	assert.Len(t, r.Records, 0)
	assert.Equal(t, StateLimitReached, r.State)
}

func TestPerformMaxRespHuge(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	c := testComm(t, f, 20013)
	defer c.Destroy()
	publishData(f, 20013, "r1", "r2")

	var r *Result
	var err error
	opt := DetectOptions{}.WithMaxResp(math.MaxInt).WithMaxSecs(0.1)
	require.NotPanics(t, func() {
		r, err = c.Run(context.Background(), testDecoder, opt, nil)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, recordStrings(r.Records))
	assert.True(t, r.TimedOut)
}

func TestPerformDiscard(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	c := testComm(t, f, 20013)
	defer c.Destroy()
	publishData(f, 20013, "r1", "r2", "r3")

	var seen []string
	cb := func(r Record) error {
		seen = append(seen, r.(string))
		return nil
	}
	opt := DetectOptions{Discard: true}.WithMaxResp(2)
	r, err := c.Run(context.Background(), testDecoder, opt, cb)
	require.NoError(t, err)
	assert.Len(t, r.Records, 0)
	assert.Equal(t, []string{"r1", "r2"}, seen)
	assert.Equal(t, StateLimitReached, r.State)
}

func TestPerformOrder(t *testing.T) {
	t.Parallel()
	const n = 200
	f := NewMemFabric()
	c := testComm(t, f, 20013)
	defer c.Destroy()
	expect := make([]string, n)
	for i := range expect {
		expect[i] = fmt.Sprintf("m%03d", i)
	}
	go publishData(f, 20013, expect...)

	var seen []string
	cb := func(r Record) error {
		seen = append(seen, r.(string))
		return nil
	}
	rs, err := c.Perform(context.Background(), testDecoder, DetectOptions{}.WithMaxResp(n), cb)
	require.NoError(t, err)
	assert.Equal(t, expect, recordStrings(rs))
	assert.Equal(t, expect, seen)
}

// Silent driver, max_secs=0.1: empty result after about 100ms.
func TestPerformTimeout(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	c := testComm(t, f, 20025)
	defer c.Destroy()

	start := time.Now()
	r, err := c.Run(context.Background(), testDecoder, DetectOptions{}.WithMaxSecs(0.1), nil)
	elapsed := time.Since(start)
	require.NoError(t, err)
	assert.Len(t, r.Records, 0)
	assert.True(t, r.TimedOut)
	assert.Equal(t, StateCancelled, r.State)
	assert.True(t, elapsed >= 100*time.Millisecond, elapsed.String())
	assert.True(t, elapsed < time.Second, elapsed.String())
}

func TestPerformTimeoutPartial(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	c := testComm(t, f, 20025)
	defer c.Destroy()
	publishData(f, 20025, "a", "b")

	r, err := c.Run(context.Background(), testDecoder, DetectOptions{}.WithMaxResp(5).WithMaxSecs(0.1), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, recordStrings(r.Records))
	assert.True(t, r.TimedOut)
}

func TestPerformMaxSecsZero(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	c := testComm(t, f, 20025)
	defer c.Destroy()

	start := time.Now()
	r, err := c.Run(context.Background(), testDecoder, DetectOptions{}.WithMaxSecs(0), nil)
	require.NoError(t, err)
	assert.Len(t, r.Records, 0)
	assert.True(t, r.TimedOut)
	assert.True(t, time.Since(start) < 500*time.Millisecond)
}

// Unbounded session stopped by external cancel keeps records received so far.
func TestPerformCancel(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	c := testComm(t, f, 20013)
	defer c.Destroy()
	publishData(f, 20013, "x", "y")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	count := 0
	cb := func(Record) error {
		count++
		if count == 2 {
			cancel()
		}
		return nil
	}
	r, err := c.Run(ctx, testDecoder, DetectOptions{}, cb)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, recordStrings(r.Records))
	assert.Equal(t, StateCancelled, r.State)
	assert.False(t, r.TimedOut)
}

func TestPerformDecodeError(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	c := testComm(t, f, 20013)
	defer c.Destroy()
	publishData(f, 20013, "ok", "bad", "late")

	r, err := c.Run(context.Background(), testDecoder, DetectOptions{}.WithMaxResp(10), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, recordStrings(r.Records))
	assert.Equal(t, StateFailed, r.State)
	require.Error(t, r.Err)
	require.True(t, IsDecodeError(r.Err))
	assert.Equal(t, 2, errors.Cause(r.Err).(*DecodeError).Index)
}

func TestPerformCallbackFailure(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		cb     Callback
		expect string
	}{
		{"error", func(Record) error { return errors.New("disk full") }, "disk full"},
		{"panic", func(Record) error { panic("boom") }, "panic record=1: boom"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			f := NewMemFabric()
			cm := testComm(t, f, 20013)
			defer cm.Destroy()
			publishData(f, 20013, "first", "second")

			r, err := cm.Run(context.Background(), testDecoder, DetectOptions{}.WithMaxResp(2), c.cb)
			require.NoError(t, err)
			assert.Equal(t, []string{"first"}, recordStrings(r.Records))
			assert.Equal(t, StateFailed, r.State)
			require.Error(t, r.Err)
			assert.Contains(t, r.Err.Error(), c.expect)
		})
	}
}

func TestPerformDecoderPanic(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	c := testComm(t, f, 20013)
	defer c.Destroy()
	publishData(f, 20013, "x")

	dec := DecoderFunc(func([]byte) (Record, error) { panic("nil map") })
	r, err := c.Run(context.Background(), dec, DetectOptions{}.WithMaxResp(1), nil)
	require.NoError(t, err)
	assert.Len(t, r.Records, 0)
	assert.Equal(t, StateFailed, r.State)
}

func TestPerformTwice(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	c := testComm(t, f, 20013)
	defer c.Destroy()

	_, err := c.Perform(context.Background(), testDecoder, DetectOptions{}.WithMaxResp(0), nil)
	require.NoError(t, err)
	_, err = c.Perform(context.Background(), testDecoder, DetectOptions{}.WithMaxResp(0), nil)
	assert.Equal(t, ErrPerformed, err)
}

func TestPerformInvalidOptions(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		opt  DetectOptions
	}{
		{"negative-resp", DetectOptions{}.WithMaxResp(-1)},
		{"negative-secs", DetectOptions{}.WithMaxSecs(-0.5)},
		{"negative-speed", DetectOptions{Speed: -1}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			f := NewMemFabric()
			cm := testComm(t, f, 20013)
			defer cm.Destroy()
			_, err := cm.Perform(context.Background(), testDecoder, c.opt, nil)
			require.Error(t, err)
			assert.True(t, errors.IsNotValid(err), err.Error())
			// no task started
			assert.Len(t, f.PushTimes(cm.Address(KindPing)), 0)
		})
	}
	f := NewMemFabric()
	cm := testComm(t, f, 20013)
	defer cm.Destroy()
	_, err := cm.Perform(context.Background(), nil, DetectOptions{}, nil)
	assert.True(t, errors.IsNotValid(err))
}

func TestPinger(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	opt := testOptions(t, f, 20013)
	opt.PingInterval = 30 * time.Millisecond
	c, err := New(context.Background(), opt)
	require.NoError(t, err)
	defer c.Destroy()

	r, err := c.Run(context.Background(), testDecoder, DetectOptions{}.WithMaxSecs(0.2), nil)
	require.NoError(t, err)
	times := f.PushTimes(c.Address(KindPing))
	assert.Equal(t, int(r.Pings), len(times))
	assert.True(t, len(times) >= 2, "pings=%d", len(times))
	assert.True(t, len(times) <= 8, "pings=%d", len(times))
	for i := 1; i < len(times); i++ {
		d := times[i].Sub(times[i-1])
		assert.True(t, d >= opt.PingInterval, "ping %d after %s", i, d)
	}
	for range times {
		b := <-f.Pushed(c.Address(KindPing))
		assert.Len(t, b, 0)
	}
}

func TestDriverErrors(t *testing.T) {
	t.Parallel()
	f := NewMemFabric()
	opt := testOptions(t, f, 20017)
	got := make(chan string, 4)
	opt.OnDriverError = func(s string) { got <- s }
	c, err := New(context.Background(), opt)
	require.NoError(t, err)
	defer c.Destroy()
	f.Publish(c.Address(KindError), []byte("Invalid configuration"))

	r, err := c.Run(context.Background(), testDecoder, DetectOptions{}.WithMaxSecs(0.1), nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), r.DriverErrors)
	assert.Equal(t, "Invalid configuration", <-got)
	// error listener is gone after perform
	assert.Equal(t, 0, f.Subscribers(c.Address(KindError)))
}

func TestStateString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "limit-reached", StateLimitReached.String())
	assert.Equal(t, "cancelled", StateCancelled.String())
	assert.Equal(t, "state(9)", State(9).String())
	assert.Equal(t, "data", KindData.String())
	assert.True(t, KindError.Subscribe())
	assert.False(t, KindPing.Subscribe())
}
