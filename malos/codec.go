package malos

import (
	"bytes"

	"github.com/golang/protobuf/jsonpb"
	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
)

// ProtoDecoder turns one data port message into a fresh message from New.
type ProtoDecoder struct {
	Name string
	New  func() proto.Message
}

func (d ProtoDecoder) Decode(b []byte) (interface{}, error) {
	m := d.New()
	if err := proto.Unmarshal(b, m); err != nil {
		return nil, errors.Annotatef(err, "decode %s len=%d", d.Name, len(b))
	}
	return m, nil
}

var (
	ImuDecoder      = ProtoDecoder{Name: "imu", New: func() proto.Message { return &Imu{} }}
	HumidityDecoder = ProtoDecoder{Name: "humidity", New: func() proto.Message { return &Humidity{} }}
	PressureDecoder = ProtoDecoder{Name: "pressure", New: func() proto.Message { return &Pressure{} }}
	UVDecoder       = ProtoDecoder{Name: "uv", New: func() proto.Message { return &UV{} }}
)

func Encode(m proto.Message) ([]byte, error) {
	b, err := proto.Marshal(m)
	return b, errors.Annotate(err, "encode")
}

var jsonMarshaler = jsonpb.Marshaler{OrigName: true, EmitDefaults: true}

// MarshalJSON renders message with proto field names, zero values included.
func MarshalJSON(m proto.Message) ([]byte, error) {
	var buf bytes.Buffer
	if err := jsonMarshaler.Marshal(&buf, m); err != nil {
		return nil, errors.Annotatef(err, "json %T", m)
	}
	return buf.Bytes(), nil
}
