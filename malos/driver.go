// Package malos holds the MALOS driver wire schema and codecs.
//
// Messages are wire-compatible with matrix-io protocol-buffers (malos v1 driver.proto).
// They are maintained by hand in the shape protoc-gen-go v1 produces,
// marshaling relies on struct tags via github.com/golang/protobuf/proto.
package malos

import (
	"github.com/golang/protobuf/proto"
)

const (
	DefaultDelayBetweenUpdates  float32 = 1.0
	DefaultTimeoutAfterLastPing float32 = 4.0
)

// DriverConfig is pushed on driver base port.
// Only fields set are sent, device payloads are mutually independent.
type DriverConfig struct {
	// Delay between telemetry updates, seconds.
	DelayBetweenUpdates float32 `protobuf:"fixed32,1,opt,name=delay_between_updates,json=delayBetweenUpdates,proto3" json:"delay_between_updates,omitempty"`
	// Driver stops sending telemetry when no ping arrived for this long, seconds.
	TimeoutAfterLastPing float32         `protobuf:"fixed32,2,opt,name=timeout_after_last_ping,json=timeoutAfterLastPing,proto3" json:"timeout_after_last_ping,omitempty"`
	Image                *EverloopImage  `protobuf:"bytes,3,opt,name=image,proto3" json:"image,omitempty"`
	MalosEyeConfig       *MalosEyeConfig `protobuf:"bytes,4,opt,name=malos_eye_config,json=malosEyeConfig,proto3" json:"malos_eye_config,omitempty"`
	Humidity             *HumidityParams `protobuf:"bytes,9,opt,name=humidity,proto3" json:"humidity,omitempty"`
}

func (m *DriverConfig) Reset()         { *m = DriverConfig{} }
func (m *DriverConfig) String() string { return proto.CompactTextString(m) }
func (*DriverConfig) ProtoMessage()    {}

// NewDriverConfig returns telemetry settings, speed<=0 means default.
func NewDriverConfig(speed float32) *DriverConfig {
	if speed <= 0 {
		speed = DefaultDelayBetweenUpdates
	}
	return &DriverConfig{
		DelayBetweenUpdates:  speed,
		TimeoutAfterLastPing: DefaultTimeoutAfterLastPing,
	}
}

type LedValue struct {
	Red   uint32 `protobuf:"varint,1,opt,name=red,proto3" json:"red,omitempty"`
	Green uint32 `protobuf:"varint,2,opt,name=green,proto3" json:"green,omitempty"`
	Blue  uint32 `protobuf:"varint,3,opt,name=blue,proto3" json:"blue,omitempty"`
	White uint32 `protobuf:"varint,4,opt,name=white,proto3" json:"white,omitempty"`
}

func (m *LedValue) Reset()         { *m = LedValue{} }
func (m *LedValue) String() string { return proto.CompactTextString(m) }
func (*LedValue) ProtoMessage()    {}

type EverloopImage struct {
	Led            []*LedValue `protobuf:"bytes,1,rep,name=led,proto3" json:"led,omitempty"`
	EverloopLength uint32      `protobuf:"varint,2,opt,name=everloop_length,json=everloopLength,proto3" json:"everloop_length,omitempty"`
}

func (m *EverloopImage) Reset()         { *m = EverloopImage{} }
func (m *EverloopImage) String() string { return proto.CompactTextString(m) }
func (*EverloopImage) ProtoMessage()    {}

// HumidityParams calibrates humidity driver temperature.
type HumidityParams struct {
	CurrentTemperature float32 `protobuf:"fixed32,1,opt,name=current_temperature,json=currentTemperature,proto3" json:"current_temperature,omitempty"`
}

func (m *HumidityParams) Reset()         { *m = HumidityParams{} }
func (m *HumidityParams) String() string { return proto.CompactTextString(m) }
func (*HumidityParams) ProtoMessage()    {}
