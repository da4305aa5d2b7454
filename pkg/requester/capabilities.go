package requester

import (
	"github.com/rom-protocol/rom-go/pkg/token"
	"github.com/rom-protocol/rom-go/pkg/wire"
)

// PlayAPI sends expressive output commands.
type PlayAPI struct{ r *Requester }

// Say speaks embodied speech markup, or plays a sound when the markup
// is a bare URI.
func (a *PlayAPI) Say(esml string, opts *wire.SpeakOptions) *token.SayToken {
	tok := token.NewSayToken(a.r, wire.SayCommand{
		Type:         wire.CmdSay,
		ESML:         esml,
		SpeakOptions: opts,
	})
	a.r.Send(tok)
	return tok
}

// Video plays a previously fetched video asset on the device screen.
func (a *PlayAPI) Video(uri string) *token.VideoPlaybackToken {
	tok := token.NewVideoPlaybackToken(a.r, wire.VideoPlaybackCommand{
		Type: wire.CmdVideoPlayback,
		URI:  uri,
	})
	a.r.Send(tok)
	return tok
}

// LookAtAPI orients the device toward targets.
type LookAtAPI struct{ r *Requester }

func (a *LookAtAPI) send(target wire.LookAtTarget, track, levelHead bool) *token.LookAtToken {
	tok := token.NewLookAtToken(a.r, wire.LookAtCommand{
		Type:          wire.CmdLookAt,
		LookAtTarget:  target,
		TrackFlag:     track,
		LevelHeadFlag: levelHead,
	})
	a.r.Send(tok)
	return tok
}

// Angle orients toward a (theta, psi) angle.
func (a *LookAtAPI) Angle(angle wire.AngleVector, levelHead bool) *token.LookAtToken {
	return a.send(wire.LookAtTarget{Angle: &angle}, false, levelHead)
}

// Position orients toward a world-space point.
func (a *LookAtAPI) Position(pos wire.Vector3, levelHead bool) *token.LookAtToken {
	return a.send(wire.LookAtTarget{Position: &pos}, false, levelHead)
}

// Entity orients toward (and optionally tracks) a perceived entity.
func (a *LookAtAPI) Entity(entityID int64, track bool) *token.LookAtToken {
	return a.send(wire.LookAtTarget{Entity: &entityID}, track, false)
}

// Screen orients toward screen coordinates.
func (a *LookAtAPI) Screen(coords wire.Vector3, levelHead bool) *token.LookAtToken {
	return a.send(wire.LookAtTarget{ScreenCoords: &coords}, false, levelHead)
}

// DisplayAPI changes what the device screen shows.
type DisplayAPI struct{ r *Requester }

func (a *DisplayAPI) send(view wire.DisplayView) *token.DisplayToken {
	tok := token.NewDisplayToken(a.r, wire.DisplayCommand{
		Type: wire.CmdDisplay,
		View: view,
	})
	a.r.Send(tok)
	return tok
}

// Eye shows the idle eye view.
func (a *DisplayAPI) Eye(name string) *token.DisplayToken {
	return a.send(wire.DisplayView{Type: wire.DisplayEye, Name: name})
}

// Text shows a text view.
func (a *DisplayAPI) Text(name, text string) *token.DisplayToken {
	return a.send(wire.DisplayView{Type: wire.DisplayText, Name: name, Text: text})
}

// Image shows a previously fetched image asset.
func (a *DisplayAPI) Image(name string, image wire.ImageData) *token.DisplayToken {
	return a.send(wire.DisplayView{Type: wire.DisplayImage, Name: name, Image: &image})
}

// PhotoAPI captures photos.
type PhotoAPI struct{ r *Requester }

// Take captures one photo.
func (a *PhotoAPI) Take(camera wire.Camera, resolution wire.CameraResolution, distortion bool) *token.PhotoToken {
	tok := token.NewPhotoToken(a.r, wire.TakePhotoCommand{
		Type:       wire.CmdTakePhoto,
		Camera:     camera,
		Resolution: resolution,
		Distortion: distortion,
	})
	a.r.Send(tok)
	return tok
}

// VideoAPI records video clips.
type VideoAPI struct{ r *Requester }

// Record records a clip of the given duration in milliseconds.
func (a *VideoAPI) Record(videoType string, durationMS int64) *token.VideoToken {
	tok := token.NewVideoToken(a.r, wire.VideoCommand{
		Type:      wire.CmdVideo,
		VideoType: videoType,
		Duration:  durationMS,
	})
	a.r.Send(tok)
	return tok
}

// ListenOptions tune a speech capture.
type ListenOptions struct {
	LanguageCode       string
	MaxSpeechTimeout   int64
	MaxNoSpeechTimeout int64
}

// ListenAPI captures speech.
type ListenAPI struct{ r *Requester }

// Start begins one speech capture.
func (a *ListenAPI) Start(opts ListenOptions) *token.ListenToken {
	tok := token.NewListenToken(a.r, wire.ListenCommand{
		Type:               wire.CmdListen,
		LanguageCode:       opts.LanguageCode,
		MaxSpeechTimeout:   opts.MaxSpeechTimeout,
		MaxNoSpeechTimeout: opts.MaxNoSpeechTimeout,
	})
	a.r.Send(tok)
	return tok
}

// HotWordAPI subscribes to hot-word detections.
type HotWordAPI struct{ r *Requester }

// Listen opens the hot-word stream. With listenResults set, each
// detection is followed by a speech-capture result on the token's
// Results channel.
func (a *HotWordAPI) Listen(listenResults bool) *token.HotWordToken {
	tok := token.NewHotWordToken(a.r, wire.SubscribeCommand{
		Type:         wire.CmdSubscribe,
		StreamType:   wire.StreamHotWord,
		StreamFilter: map[string]any{"listen": listenResults},
	})
	a.r.Send(tok)
	return tok
}

// HeadTouchAPI subscribes to touchpad state changes.
type HeadTouchAPI struct{ r *Requester }

// Listen opens the head-touch stream.
func (a *HeadTouchAPI) Listen() *token.HeadTouchToken {
	tok := token.NewHeadTouchToken(a.r, wire.SubscribeCommand{
		Type:         wire.CmdSubscribe,
		StreamType:   wire.StreamHeadTouch,
		StreamFilter: map[string]any{},
	})
	a.r.Send(tok)
	return tok
}

// ScreenGestureAPI subscribes to taps and swipes.
type ScreenGestureAPI struct{ r *Requester }

// Listen opens the screen-gesture stream. The filter may constrain
// gesture type and screen area; nil subscribes to everything.
func (a *ScreenGestureAPI) Listen(filter map[string]any) *token.ScreenGestureToken {
	if filter == nil {
		filter = map[string]any{}
	}
	tok := token.NewScreenGestureToken(a.r, wire.SubscribeCommand{
		Type:         wire.CmdSubscribe,
		StreamType:   wire.StreamScreenGesture,
		StreamFilter: filter,
	})
	a.r.Send(tok)
	return tok
}

// MotionTrackAPI subscribes to motion detection.
type MotionTrackAPI struct{ r *Requester }

// Track opens the motion stream.
func (a *MotionTrackAPI) Track() *token.MotionTrackToken {
	tok := token.NewMotionTrackToken(a.r, wire.SubscribeCommand{
		Type:         wire.CmdSubscribe,
		StreamType:   wire.StreamMotion,
		StreamFilter: map[string]any{},
	})
	a.r.Send(tok)
	return tok
}

// FaceTrackAPI subscribes to entity (face) tracking.
type FaceTrackAPI struct{ r *Requester }

// Track opens the entity stream.
func (a *FaceTrackAPI) Track() *token.FaceTrackToken {
	tok := token.NewFaceTrackToken(a.r, wire.SubscribeCommand{
		Type:         wire.CmdSubscribe,
		StreamType:   wire.StreamEntity,
		StreamFilter: map[string]any{},
	})
	a.r.Send(tok)
	return tok
}

// AttentionAPI changes the device attention mode.
type AttentionAPI struct{ r *Requester }

// SetMode switches the attention mode.
func (a *AttentionAPI) SetMode(mode wire.AttentionMode) *token.AttentionToken {
	tok := token.NewAttentionToken(a.r, wire.SetAttentionCommand{
		Type: wire.CmdSetAttention,
		Mode: mode,
	})
	a.r.Send(tok)
	return tok
}

// ConfigAPI reads and writes device configuration.
type ConfigAPI struct{ r *Requester }

// Get reads the current configuration.
func (a *ConfigAPI) Get() *token.GetConfigToken {
	tok := token.NewGetConfigToken(a.r)
	a.r.Send(tok)
	return tok
}

// Set writes configuration options.
func (a *ConfigAPI) Set(opts wire.ConfigOptions) *token.SetConfigToken {
	tok := token.NewSetConfigToken(a.r, wire.SetConfigCommand{
		Type:    wire.CmdSetConfig,
		Options: opts,
	})
	a.r.Send(tok)
	return tok
}

// AssetsAPI manages assets in device memory.
type AssetsAPI struct{ r *Requester }

// Load fetches an external asset into device memory under a name.
func (a *AssetsAPI) Load(uri, name string) *token.LoadAssetsToken {
	tok := token.NewLoadAssetsToken(a.r, wire.FetchAssetCommand{
		Type: wire.CmdFetchAsset,
		URI:  uri,
		Name: name,
	})
	a.r.Send(tok)
	return tok
}

// Unload evicts a previously loaded asset.
func (a *AssetsAPI) Unload(name string) *token.UnloadAssetsToken {
	tok := token.NewUnloadAssetsToken(a.r, wire.UnloadAssetCommand{
		Type: wire.CmdUnloadAsset,
		Name: name,
	})
	a.r.Send(tok)
	return tok
}
