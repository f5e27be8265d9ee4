package malos

import (
	"github.com/golang/protobuf/proto"
)

type Imu struct {
	Yaw    float32 `protobuf:"fixed32,1,opt,name=yaw,proto3" json:"yaw,omitempty"`
	Pitch  float32 `protobuf:"fixed32,2,opt,name=pitch,proto3" json:"pitch,omitempty"`
	Roll   float32 `protobuf:"fixed32,3,opt,name=roll,proto3" json:"roll,omitempty"`
	AccelX float32 `protobuf:"fixed32,4,opt,name=accel_x,json=accelX,proto3" json:"accel_x,omitempty"`
	AccelY float32 `protobuf:"fixed32,5,opt,name=accel_y,json=accelY,proto3" json:"accel_y,omitempty"`
	AccelZ float32 `protobuf:"fixed32,6,opt,name=accel_z,json=accelZ,proto3" json:"accel_z,omitempty"`
	GyroX  float32 `protobuf:"fixed32,7,opt,name=gyro_x,json=gyroX,proto3" json:"gyro_x,omitempty"`
	GyroY  float32 `protobuf:"fixed32,8,opt,name=gyro_y,json=gyroY,proto3" json:"gyro_y,omitempty"`
	GyroZ  float32 `protobuf:"fixed32,9,opt,name=gyro_z,json=gyroZ,proto3" json:"gyro_z,omitempty"`
	MagX   float32 `protobuf:"fixed32,10,opt,name=mag_x,json=magX,proto3" json:"mag_x,omitempty"`
	MagY   float32 `protobuf:"fixed32,11,opt,name=mag_y,json=magY,proto3" json:"mag_y,omitempty"`
	MagZ   float32 `protobuf:"fixed32,12,opt,name=mag_z,json=magZ,proto3" json:"mag_z,omitempty"`
}

func (m *Imu) Reset()         { *m = Imu{} }
func (m *Imu) String() string { return proto.CompactTextString(m) }
func (*Imu) ProtoMessage()    {}

type Humidity struct {
	Humidity                float32 `protobuf:"fixed32,1,opt,name=humidity,proto3" json:"humidity,omitempty"`
	Temperature             float32 `protobuf:"fixed32,2,opt,name=temperature,proto3" json:"temperature,omitempty"`
	TemperatureRaw          float32 `protobuf:"fixed32,3,opt,name=temperature_raw,json=temperatureRaw,proto3" json:"temperature_raw,omitempty"`
	TemperatureIsCalibrated bool    `protobuf:"varint,4,opt,name=temperature_is_calibrated,json=temperatureIsCalibrated,proto3" json:"temperature_is_calibrated,omitempty"`
}

func (m *Humidity) Reset()         { *m = Humidity{} }
func (m *Humidity) String() string { return proto.CompactTextString(m) }
func (*Humidity) ProtoMessage()    {}

type Pressure struct {
	Pressure    float32 `protobuf:"fixed32,1,opt,name=pressure,proto3" json:"pressure,omitempty"`
	Altitude    float32 `protobuf:"fixed32,2,opt,name=altitude,proto3" json:"altitude,omitempty"`
	Temperature float32 `protobuf:"fixed32,3,opt,name=temperature,proto3" json:"temperature,omitempty"`
}

func (m *Pressure) Reset()         { *m = Pressure{} }
func (m *Pressure) String() string { return proto.CompactTextString(m) }
func (*Pressure) ProtoMessage()    {}

type UV struct {
	UvIndex float32 `protobuf:"fixed32,1,opt,name=uv_index,json=uvIndex,proto3" json:"uv_index,omitempty"`
	OmsRisk string  `protobuf:"bytes,2,opt,name=oms_risk,json=omsRisk,proto3" json:"oms_risk,omitempty"`
}

func (m *UV) Reset()         { *m = UV{} }
func (m *UV) String() string { return proto.CompactTextString(m) }
func (*UV) ProtoMessage()    {}
