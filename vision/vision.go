// Package vision detects faces and hand gestures with MALOS eye driver.
//
// Unlike simple sensors, one session pushes several configurations:
// camera setup, objects to detect, then STOP after telemetry is collected.
package vision

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/vikonava/matrix-creator/comm"
	"github.com/vikonava/matrix-creator/driver"
	"github.com/vikonava/matrix-creator/malos"
)

const (
	DefaultPort  = 22013
	CameraWidth  = 1280
	CameraHeight = 720
	// seconds between updates when DetectOptions.Speed is not set
	DefaultSpeed = 0.1
)

// STOP is sent after caller ctx may be done.
const stopTimeout = time.Second

type Vision struct {
	Client *driver.Client
	Port   int
}

// New with port 0 uses DefaultPort.
func New(c *driver.Client, port int) *Vision {
	if port == 0 {
		port = DefaultPort
	}
	return &Vision{Client: c, Port: port}
}

func (v *Vision) DetectObjects(ctx context.Context, objects []malos.EnumMalosEyeDetectionType, opt comm.DetectOptions, fun func(*malos.VisionResult) error) ([]*malos.VisionResult, error) {
	r, err := v.DetectResult(ctx, objects, opt, fun)
	if err != nil {
		return nil, err
	}
	return results(r.Records), nil
}

func (v *Vision) DetectResult(ctx context.Context, objects []malos.EnumMalosEyeDetectionType, opt comm.DetectOptions, fun func(*malos.VisionResult) error) (*comm.Result, error) {
	if len(objects) == 0 {
		return nil, errors.NotValidf("vision objects empty")
	}
	if err := opt.Validate(); err != nil {
		return nil, errors.Annotatef(err, "vision port=%d", v.Port)
	}
	cm, err := v.Client.Open(ctx, v.Port)
	if err != nil {
		return nil, errors.Annotatef(err, "vision port=%d", v.Port)
	}
	defer func() {
		if err := cm.Destroy(); err != nil {
			cm.Log().Errorf("destroy err=%v", err)
		}
	}()

	if err = cm.SendConfiguration(ctx, CameraSetup(opt.Speed)); err != nil {
		return nil, errors.Annotate(err, "vision camera setup")
	}
	if err = cm.SendConfiguration(ctx, Request(objects...)); err != nil {
		return nil, errors.Annotate(err, "vision detect request")
	}

	var cb comm.Callback
	if fun != nil {
		cb = func(r comm.Record) error { return fun(r.(*malos.VisionResult)) }
	}
	r, runErr := cm.Run(ctx, malos.VisionDecoder, opt, cb)

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
	defer cancel()
	if err = cm.SendConfiguration(stopCtx, Request(malos.EnumMalosEyeDetectionType_STOP)); err != nil {
		cm.Log().Errorf("vision stop err=%v", err)
	}
	return r, runErr
}

// DetectOnce repeats single response sessions until one has rectangle detections.
// Returns ctx error when cancelled before that.
func (v *Vision) DetectOnce(ctx context.Context, object malos.EnumMalosEyeDetectionType) (*malos.VisionResult, error) {
	opt := comm.DetectOptions{}.WithMaxResp(1)
	for {
		r, err := v.DetectResult(ctx, []malos.EnumMalosEyeDetectionType{object}, opt, nil)
		if err != nil {
			return nil, err
		}
		if r.Err != nil {
			return nil, errors.Annotatef(r.Err, "vision detect %s", object)
		}
		if rs := results(r.Records); len(rs) != 0 && len(rs[0].RectDetection) != 0 {
			return rs[0], nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

func (v *Vision) DetectFace(ctx context.Context) (*malos.VisionResult, error) {
	return v.DetectOnce(ctx, malos.EnumMalosEyeDetectionType_FACE)
}

func (v *Vision) DetectDemographics(ctx context.Context) (*malos.VisionResult, error) {
	return v.DetectOnce(ctx, malos.EnumMalosEyeDetectionType_FACE_DEMOGRAPHICS)
}

func (v *Vision) DetectThumbUp(ctx context.Context) (*malos.VisionResult, error) {
	return v.DetectOnce(ctx, malos.EnumMalosEyeDetectionType_HAND_THUMB_UP)
}

func (v *Vision) DetectPalm(ctx context.Context) (*malos.VisionResult, error) {
	return v.DetectOnce(ctx, malos.EnumMalosEyeDetectionType_HAND_PALM)
}

func (v *Vision) DetectPinch(ctx context.Context) (*malos.VisionResult, error) {
	return v.DetectOnce(ctx, malos.EnumMalosEyeDetectionType_HAND_PINCH)
}

func (v *Vision) DetectFist(ctx context.Context) (*malos.VisionResult, error) {
	return v.DetectOnce(ctx, malos.EnumMalosEyeDetectionType_HAND_FIST)
}

// CameraSetup opens camera 0, speed<=0 means DefaultSpeed.
func CameraSetup(speed float64) *malos.DriverConfig {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return &malos.DriverConfig{
		DelayBetweenUpdates:  float32(speed),
		TimeoutAfterLastPing: malos.DefaultTimeoutAfterLastPing,
		MalosEyeConfig: &malos.MalosEyeConfig{
			CameraConfig: &malos.CameraConfig{CameraId: 0, Width: CameraWidth, Height: CameraHeight},
		},
	}
}

func Request(objects ...malos.EnumMalosEyeDetectionType) *malos.DriverConfig {
	return &malos.DriverConfig{
		MalosEyeConfig: &malos.MalosEyeConfig{ObjectToDetect: objects},
	}
}

// ParseObject accepts detection type name in any case, STOP excluded.
func ParseObject(s string) (malos.EnumMalosEyeDetectionType, error) {
	v, ok := malos.EnumMalosEyeDetectionType_value[strings.ToUpper(s)]
	if !ok || v == int32(malos.EnumMalosEyeDetectionType_STOP) {
		return 0, errors.NotValidf("vision object=%q", s)
	}
	return malos.EnumMalosEyeDetectionType(v), nil
}

func ObjectNames() []string {
	ss := make([]string, 0, len(malos.EnumMalosEyeDetectionType_name)-1)
	for v, name := range malos.EnumMalosEyeDetectionType_name {
		if v != int32(malos.EnumMalosEyeDetectionType_STOP) {
			ss = append(ss, strings.ToLower(name))
		}
	}
	sort.Strings(ss)
	return ss
}

func results(rs []comm.Record) []*malos.VisionResult {
	out := make([]*malos.VisionResult, len(rs))
	for i, r := range rs {
		out[i] = r.(*malos.VisionResult)
	}
	return out
}
