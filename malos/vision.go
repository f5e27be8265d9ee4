package malos

import (
	"github.com/golang/protobuf/proto"
)

// Camera setup and detection requests go inside DriverConfig.MalosEyeConfig.
// Results on vision data port are admobilize_vision.VisionResult.

type EnumMalosEyeDetectionType int32

const (
	// STOP ends detection, driver keeps camera open.
	EnumMalosEyeDetectionType_STOP              EnumMalosEyeDetectionType = 0
	EnumMalosEyeDetectionType_FACE              EnumMalosEyeDetectionType = 1
	EnumMalosEyeDetectionType_FACE_DEMOGRAPHICS EnumMalosEyeDetectionType = 2
	EnumMalosEyeDetectionType_HAND_THUMB_UP     EnumMalosEyeDetectionType = 3
	EnumMalosEyeDetectionType_HAND_PALM         EnumMalosEyeDetectionType = 4
	EnumMalosEyeDetectionType_HAND_PINCH        EnumMalosEyeDetectionType = 5
	EnumMalosEyeDetectionType_HAND_FIST         EnumMalosEyeDetectionType = 6
	EnumMalosEyeDetectionType_PERSON            EnumMalosEyeDetectionType = 7
)

var EnumMalosEyeDetectionType_name = map[int32]string{
	0: "STOP",
	1: "FACE",
	2: "FACE_DEMOGRAPHICS",
	3: "HAND_THUMB_UP",
	4: "HAND_PALM",
	5: "HAND_PINCH",
	6: "HAND_FIST",
	7: "PERSON",
}

var EnumMalosEyeDetectionType_value = map[string]int32{
	"STOP":              0,
	"FACE":              1,
	"FACE_DEMOGRAPHICS": 2,
	"HAND_THUMB_UP":     3,
	"HAND_PALM":         4,
	"HAND_PINCH":        5,
	"HAND_FIST":         6,
	"PERSON":            7,
}

func (x EnumMalosEyeDetectionType) String() string {
	return proto.EnumName(EnumMalosEyeDetectionType_name, int32(x))
}

type CameraConfig struct {
	CameraId int32 `protobuf:"varint,1,opt,name=camera_id,json=cameraId,proto3" json:"camera_id,omitempty"`
	Width    int32 `protobuf:"varint,2,opt,name=width,proto3" json:"width,omitempty"`
	Height   int32 `protobuf:"varint,3,opt,name=height,proto3" json:"height,omitempty"`
}

func (m *CameraConfig) Reset()         { *m = CameraConfig{} }
func (m *CameraConfig) String() string { return proto.CompactTextString(m) }
func (*CameraConfig) ProtoMessage()    {}

type MalosEyeConfig struct {
	ObjectToDetect []EnumMalosEyeDetectionType `protobuf:"varint,1,rep,packed,name=object_to_detect,json=objectToDetect,proto3,enum=matrix_malos.EnumMalosEyeDetectionType" json:"object_to_detect,omitempty"`
	CameraConfig   *CameraConfig               `protobuf:"bytes,2,opt,name=camera_config,json=cameraConfig,proto3" json:"camera_config,omitempty"`
}

func (m *MalosEyeConfig) Reset()         { *m = MalosEyeConfig{} }
func (m *MalosEyeConfig) String() string { return proto.CompactTextString(m) }
func (*MalosEyeConfig) ProtoMessage()    {}

type Point struct {
	X float32 `protobuf:"fixed32,1,opt,name=x,proto3" json:"x,omitempty"`
	Y float32 `protobuf:"fixed32,2,opt,name=y,proto3" json:"y,omitempty"`
}

func (m *Point) Reset()         { *m = Point{} }
func (m *Point) String() string { return proto.CompactTextString(m) }
func (*Point) ProtoMessage()    {}

type Rectangle struct {
	X      float32 `protobuf:"fixed32,1,opt,name=x,proto3" json:"x,omitempty"`
	Y      float32 `protobuf:"fixed32,2,opt,name=y,proto3" json:"y,omitempty"`
	Width  float32 `protobuf:"fixed32,3,opt,name=width,proto3" json:"width,omitempty"`
	Height float32 `protobuf:"fixed32,4,opt,name=height,proto3" json:"height,omitempty"`
}

func (m *Rectangle) Reset()         { *m = Rectangle{} }
func (m *Rectangle) String() string { return proto.CompactTextString(m) }
func (*Rectangle) ProtoMessage()    {}

type EnumFacialRecognitionTag int32

var EnumFacialRecognitionTag_name = map[int32]string{
	0: "AGE",
	1: "EMOTION",
	2: "GENDER",
	3: "FACE_ID",
	4: "HEAD_POSE",
	5: "FACE_FEATURES",
	6: "FACE_DESCRIPTOR",
}

var EnumFacialRecognitionTag_value = map[string]int32{
	"AGE":             0,
	"EMOTION":         1,
	"GENDER":          2,
	"FACE_ID":         3,
	"HEAD_POSE":       4,
	"FACE_FEATURES":   5,
	"FACE_DESCRIPTOR": 6,
}

func (x EnumFacialRecognitionTag) String() string {
	return proto.EnumName(EnumFacialRecognitionTag_name, int32(x))
}

type FacialRecognition_Gender int32

var FacialRecognition_Gender_name = map[int32]string{0: "MALE", 1: "FEMALE"}
var FacialRecognition_Gender_value = map[string]int32{"MALE": 0, "FEMALE": 1}

func (x FacialRecognition_Gender) String() string {
	return proto.EnumName(FacialRecognition_Gender_name, int32(x))
}

type FacialRecognition_Emotion int32

var FacialRecognition_Emotion_name = map[int32]string{
	0: "ANGRY",
	1: "DISGUST",
	2: "CONFUSED",
	3: "HAPPY",
	4: "SAD",
	5: "SURPRISED",
	6: "CALM",
}

var FacialRecognition_Emotion_value = map[string]int32{
	"ANGRY":     0,
	"DISGUST":   1,
	"CONFUSED":  2,
	"HAPPY":     3,
	"SAD":       4,
	"SURPRISED": 5,
	"CALM":      6,
}

func (x FacialRecognition_Emotion) String() string {
	return proto.EnumName(FacialRecognition_Emotion_name, int32(x))
}

type FacialRecognition struct {
	Tag            EnumFacialRecognitionTag            `protobuf:"varint,1,opt,name=tag,proto3,enum=admobilize_vision.EnumFacialRecognitionTag" json:"tag,omitempty"`
	Confidence     float32                             `protobuf:"fixed32,2,opt,name=confidence,proto3" json:"confidence,omitempty"`
	Age            int32                               `protobuf:"varint,3,opt,name=age,proto3" json:"age,omitempty"`
	Gender         FacialRecognition_Gender            `protobuf:"varint,4,opt,name=gender,proto3,enum=admobilize_vision.FacialRecognition_Gender" json:"gender,omitempty"`
	Emotion        FacialRecognition_Emotion           `protobuf:"varint,5,opt,name=emotion,proto3,enum=admobilize_vision.FacialRecognition_Emotion" json:"emotion,omitempty"`
	FaceDescriptor []float32                           `protobuf:"fixed32,6,rep,packed,name=face_descriptor,json=faceDescriptor,proto3" json:"face_descriptor,omitempty"`
	FaceId         string                              `protobuf:"bytes,7,opt,name=face_id,json=faceId,proto3" json:"face_id,omitempty"`
	PoseYaw        float32                             `protobuf:"fixed32,8,opt,name=pose_yaw,json=poseYaw,proto3" json:"pose_yaw,omitempty"`
	PoseRoll       float32                             `protobuf:"fixed32,9,opt,name=pose_roll,json=poseRoll,proto3" json:"pose_roll,omitempty"`
	PosePitch      float32                             `protobuf:"fixed32,10,opt,name=pose_pitch,json=posePitch,proto3" json:"pose_pitch,omitempty"`
	BasicFeature   *FacialRecognition_BasicFaceFeature `protobuf:"bytes,11,opt,name=basic_feature,json=basicFeature,proto3" json:"basic_feature,omitempty"`
}

func (m *FacialRecognition) Reset()         { *m = FacialRecognition{} }
func (m *FacialRecognition) String() string { return proto.CompactTextString(m) }
func (*FacialRecognition) ProtoMessage()    {}

type FacialRecognition_BasicFaceFeature struct {
	Mouth    []*Point `protobuf:"bytes,1,rep,name=mouth,proto3" json:"mouth,omitempty"`
	LeftEye  []*Point `protobuf:"bytes,2,rep,name=left_eye,json=leftEye,proto3" json:"left_eye,omitempty"`
	RightEye []*Point `protobuf:"bytes,3,rep,name=right_eye,json=rightEye,proto3" json:"right_eye,omitempty"`
	Nose     []*Point `protobuf:"bytes,4,rep,name=nose,proto3" json:"nose,omitempty"`
}

func (m *FacialRecognition_BasicFaceFeature) Reset() {
	*m = FacialRecognition_BasicFaceFeature{}
}
func (m *FacialRecognition_BasicFaceFeature) String() string { return proto.CompactTextString(m) }
func (*FacialRecognition_BasicFaceFeature) ProtoMessage()    {}

type EventTag int32

var EventTag_name = map[int32]string{0: "TRACKING_START", 1: "TRACKING_END"}
var EventTag_value = map[string]int32{"TRACKING_START": 0, "TRACKING_END": 1}

func (x EventTag) String() string { return proto.EnumName(EventTag_name, int32(x)) }

type VisionEvent struct {
	Tag         EventTag `protobuf:"varint,1,opt,name=tag,proto3,enum=admobilize_vision.EventTag" json:"tag,omitempty"`
	TrackingId  uint64   `protobuf:"varint,2,opt,name=tracking_id,json=trackingId,proto3" json:"tracking_id,omitempty"`
	SessionTime float32  `protobuf:"fixed32,3,opt,name=session_time,json=sessionTime,proto3" json:"session_time,omitempty"`
	DwellTime   float32  `protobuf:"fixed32,4,opt,name=dwell_time,json=dwellTime,proto3" json:"dwell_time,omitempty"`
}

func (m *VisionEvent) Reset()         { *m = VisionEvent{} }
func (m *VisionEvent) String() string { return proto.CompactTextString(m) }
func (*VisionEvent) ProtoMessage()    {}

type EnumDetectionTag int32

var EnumDetectionTag_name = map[int32]string{
	0: "FACE",
	1: "HAND_THUMB",
	2: "HAND_PALM",
	3: "HAND_PINCH",
	4: "HAND_FIST",
	5: "PERSON",
}

var EnumDetectionTag_value = map[string]int32{
	"FACE":       0,
	"HAND_THUMB": 1,
	"HAND_PALM":  2,
	"HAND_PINCH": 3,
	"HAND_FIST":  4,
	"PERSON":     5,
}

func (x EnumDetectionTag) String() string { return proto.EnumName(EnumDetectionTag_name, int32(x)) }

type EnumDetectionAlgorithm int32

var EnumDetectionAlgorithm_name = map[int32]string{0: "DEFAULT", 1: "FIRST_ALTERNATIVE"}
var EnumDetectionAlgorithm_value = map[string]int32{"DEFAULT": 0, "FIRST_ALTERNATIVE": 1}

func (x EnumDetectionAlgorithm) String() string {
	return proto.EnumName(EnumDetectionAlgorithm_name, int32(x))
}

type RectangularDetection struct {
	Algorithm         EnumDetectionAlgorithm `protobuf:"varint,1,opt,name=algorithm,proto3,enum=admobilize_vision.EnumDetectionAlgorithm" json:"algorithm,omitempty"`
	Location          *Rectangle             `protobuf:"bytes,2,opt,name=location,proto3" json:"location,omitempty"`
	Tag               EnumDetectionTag       `protobuf:"varint,3,opt,name=tag,proto3,enum=admobilize_vision.EnumDetectionTag" json:"tag,omitempty"`
	Confidence        float32                `protobuf:"fixed32,4,opt,name=confidence,proto3" json:"confidence,omitempty"`
	FacialRecognition []*FacialRecognition   `protobuf:"bytes,5,rep,name=facial_recognition,json=facialRecognition,proto3" json:"facial_recognition,omitempty"`
	Image             []byte                 `protobuf:"bytes,6,opt,name=image,proto3" json:"image,omitempty"`
	ImageSmall        []byte                 `protobuf:"bytes,7,opt,name=image_small,json=imageSmall,proto3" json:"image_small,omitempty"`
	TrackingId        uint64                 `protobuf:"varint,8,opt,name=tracking_id,json=trackingId,proto3" json:"tracking_id,omitempty"`
}

func (m *RectangularDetection) Reset()         { *m = RectangularDetection{} }
func (m *RectangularDetection) String() string { return proto.CompactTextString(m) }
func (*RectangularDetection) ProtoMessage()    {}

type VisionResult struct {
	RectDetection []*RectangularDetection `protobuf:"bytes,1,rep,name=rect_detection,json=rectDetection,proto3" json:"rect_detection,omitempty"`
	VisionEvent   []*VisionEvent          `protobuf:"bytes,4,rep,name=vision_event,json=visionEvent,proto3" json:"vision_event,omitempty"`
	Image         []byte                  `protobuf:"bytes,2,opt,name=image,proto3" json:"image,omitempty"`
	ImageSmall    []byte                  `protobuf:"bytes,3,opt,name=image_small,json=imageSmall,proto3" json:"image_small,omitempty"`
}

func (m *VisionResult) Reset()         { *m = VisionResult{} }
func (m *VisionResult) String() string { return proto.CompactTextString(m) }
func (*VisionResult) ProtoMessage()    {}

var VisionDecoder = ProtoDecoder{Name: "vision", New: func() proto.Message { return &VisionResult{} }}

func init() {
	proto.RegisterEnum("matrix_malos.EnumMalosEyeDetectionType", EnumMalosEyeDetectionType_name, EnumMalosEyeDetectionType_value)
	proto.RegisterEnum("admobilize_vision.EnumFacialRecognitionTag", EnumFacialRecognitionTag_name, EnumFacialRecognitionTag_value)
	proto.RegisterEnum("admobilize_vision.FacialRecognition_Gender", FacialRecognition_Gender_name, FacialRecognition_Gender_value)
	proto.RegisterEnum("admobilize_vision.FacialRecognition_Emotion", FacialRecognition_Emotion_name, FacialRecognition_Emotion_value)
	proto.RegisterEnum("admobilize_vision.EventTag", EventTag_name, EventTag_value)
	proto.RegisterEnum("admobilize_vision.EnumDetectionTag", EnumDetectionTag_name, EnumDetectionTag_value)
	proto.RegisterEnum("admobilize_vision.EnumDetectionAlgorithm", EnumDetectionAlgorithm_name, EnumDetectionAlgorithm_value)
}
