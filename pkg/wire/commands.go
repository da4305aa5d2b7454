package wire

import "reflect"

// CommandType is the Type discriminator of an outbound command payload.
type CommandType string

// CommandTypeOf extracts the Type discriminator from any command
// payload struct, or "" when the value carries none.
func CommandTypeOf(cmd any) CommandType {
	v := reflect.ValueOf(cmd)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return ""
	}
	f := v.FieldByName("Type")
	if !f.IsValid() || f.Kind() != reflect.String {
		return ""
	}
	return CommandType(f.String())
}

// Command types understood by the device.
const (
	CmdStartSession  CommandType = "StartSession"
	CmdGetConfig     CommandType = "GetConfig"
	CmdSetConfig     CommandType = "SetConfig"
	CmdCancel        CommandType = "Cancel"
	CmdDisplay       CommandType = "Display"
	CmdSetAttention  CommandType = "SetAttention"
	CmdSay           CommandType = "Say"
	CmdListen        CommandType = "Listen"
	CmdLookAt        CommandType = "LookAt"
	CmdTakePhoto     CommandType = "TakePhoto"
	CmdVideo         CommandType = "Video"
	CmdSubscribe     CommandType = "Subscribe"
	CmdFetchAsset    CommandType = "FetchAsset"
	CmdUnloadAsset   CommandType = "UnloadAsset"
	CmdVideoPlayback CommandType = "VideoPlayback"
)

// StreamType identifies the perception stream of a Subscribe command.
type StreamType string

// Stream types available for subscription.
const (
	StreamEntity        StreamType = "Entity"
	StreamHotWord       StreamType = "HotWord"
	StreamHeadTouch     StreamType = "HeadTouch"
	StreamMotion        StreamType = "Motion"
	StreamScreenGesture StreamType = "ScreenGesture"
)

// AttentionMode is a device attention setting.
type AttentionMode string

// Attention modes.
const (
	AttentionOff         AttentionMode = "OFF"
	AttentionIdle        AttentionMode = "IDLE"
	AttentionDisengage   AttentionMode = "DISENGAGE"
	AttentionEngaged     AttentionMode = "ENGAGED"
	AttentionSpeaking    AttentionMode = "SPEAKING"
	AttentionFixated     AttentionMode = "FIXATED"
	AttentionAttractable AttentionMode = "ATTRACTABLE"
	AttentionMenu        AttentionMode = "MENU"
	AttentionCommand     AttentionMode = "COMMAND"
)

// StartSessionCommand begins a session on a freshly opened connection.
type StartSessionCommand struct {
	Type CommandType `json:"Type"`
}

// CancelCommand requests best-effort cancellation of the command that was
// sent under the referenced transaction id.
type CancelCommand struct {
	Type CommandType `json:"Type"`
	ID   string      `json:"ID"`
}

// SpeakOptions tune speech synthesis for a Say command.
type SpeakOptions struct {
	Volume float64 `json:"Volume,omitempty"`
	Speed  float64 `json:"Speed,omitempty"`
	Pitch  float64 `json:"Pitch,omitempty"`
}

// SayCommand speaks markup or plays a sound URI.
type SayCommand struct {
	Type         CommandType   `json:"Type"`
	ESML         string        `json:"ESML"`
	SpeakOptions *SpeakOptions `json:"SpeakOptions,omitempty"`
}

// AngleVector is a (theta, psi) look-at angle in radians.
type AngleVector struct {
	Theta float64 `json:"theta"`
	Psi   float64 `json:"psi"`
}

// Vector3 is a point in device world space, in meters.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LookAtTarget is the closed union of look-at target variants. Exactly
// one field is set; the device dispatches on which key is present.
type LookAtTarget struct {
	Angle        *AngleVector `json:"Angle,omitempty"`
	Position     *Vector3     `json:"Position,omitempty"`
	Entity       *int64       `json:"Entity,omitempty"`
	ScreenCoords *Vector3     `json:"ScreenCoords,omitempty"`
}

// LookAtCommand orients the device toward a target.
type LookAtCommand struct {
	Type          CommandType  `json:"Type"`
	LookAtTarget  LookAtTarget `json:"LookAtTarget"`
	TrackFlag     bool         `json:"TrackFlag"`
	LevelHeadFlag bool         `json:"LevelHeadFlag"`
}

// DisplayViewType selects what the screen shows.
type DisplayViewType string

// Display view types.
const (
	DisplayEye   DisplayViewType = "Eye"
	DisplayText  DisplayViewType = "Text"
	DisplayImage DisplayViewType = "Image"
)

// ImageData references a previously loaded image asset.
type ImageData struct {
	Name   string  `json:"name"`
	Source string  `json:"src"`
	Scale  float64 `json:"set_size,omitempty"`
}

// DisplayView describes one screen view.
type DisplayView struct {
	Type  DisplayViewType `json:"Type"`
	Name  string          `json:"Name"`
	Text  string          `json:"Text,omitempty"`
	Image *ImageData      `json:"Image,omitempty"`
}

// DisplayCommand changes what is shown on the device screen.
type DisplayCommand struct {
	Type CommandType `json:"Type"`
	View DisplayView `json:"View"`
}

// Camera selects which camera takes a photo.
type Camera string

// CameraResolution selects photo resolution.
type CameraResolution string

// Camera and resolution options.
const (
	CameraLeft  Camera = "left"
	CameraRight Camera = "right"

	ResolutionHigh   CameraResolution = "highRes"
	ResolutionMedium CameraResolution = "medRes"
	ResolutionLow    CameraResolution = "lowRes"
	ResolutionMicro  CameraResolution = "microRes"
)

// TakePhotoCommand captures a photo.
type TakePhotoCommand struct {
	Type       CommandType      `json:"Type"`
	Camera     Camera           `json:"Camera"`
	Resolution CameraResolution `json:"Resolution"`
	Distortion bool             `json:"Distortion"`
}

// VideoCommand records a short video clip.
type VideoCommand struct {
	Type      CommandType `json:"Type"`
	VideoType string      `json:"VideoType"`
	Duration  int64       `json:"Duration,omitempty"`
}

// ListenCommand starts a speech capture.
type ListenCommand struct {
	Type               CommandType `json:"Type"`
	LanguageCode       string      `json:"LanguageCode,omitempty"`
	MaxSpeechTimeout   int64       `json:"MaxSpeechTimeout,omitempty"`
	MaxNoSpeechTimeout int64       `json:"MaxNoSpeechTimeout,omitempty"`
}

// SubscribeCommand opens a perception stream.
type SubscribeCommand struct {
	Type         CommandType    `json:"Type"`
	StreamType   StreamType     `json:"StreamType"`
	StreamFilter map[string]any `json:"StreamFilter"`
}

// SetAttentionCommand changes the device attention mode.
type SetAttentionCommand struct {
	Type CommandType   `json:"Type"`
	Mode AttentionMode `json:"Mode"`
}

// GetConfigCommand reads the current device configuration.
type GetConfigCommand struct {
	Type CommandType `json:"Type"`
}

// ConfigOptions holds the writable device settings.
type ConfigOptions struct {
	Mixer float64 `json:"Mixer,omitempty"`
}

// SetConfigCommand writes device configuration.
type SetConfigCommand struct {
	Type    CommandType   `json:"Type"`
	Options ConfigOptions `json:"Options"`
}

// FetchAssetCommand loads an external asset into device memory.
type FetchAssetCommand struct {
	Type CommandType `json:"Type"`
	URI  string      `json:"URI"`
	Name string      `json:"Name"`
}

// UnloadAssetCommand evicts a previously loaded asset.
type UnloadAssetCommand struct {
	Type CommandType `json:"Type"`
	Name string      `json:"Name"`
}

// VideoPlaybackCommand plays a video asset on the device screen.
type VideoPlaybackCommand struct {
	Type CommandType `json:"Type"`
	URI  string      `json:"URI"`
}
