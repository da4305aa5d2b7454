package wire

import "encoding/json"

// EventName is the Event discriminator of an inbound event body.
type EventName string

// Universal asynchronous command markers.
const (
	// EventStart signals that an asynchronous command has started.
	// Informational; no state change.
	EventStart EventName = "onStart"

	// EventStop signals that an asynchronous command has finished.
	EventStop EventName = "onStop"

	// EventError signals that an asynchronous command failed to run.
	EventError EventName = "onError"
)

// Capability-specific event markers.
const (
	EventTakePhoto       EventName = "onTakePhoto"
	EventVideoReady      EventName = "onVideoReady"
	EventLookAtAchieved  EventName = "onLookAtAchieved"
	EventTrackEntityLost EventName = "onTrackEntityLost"
	EventListenResult    EventName = "onListenResult"
	EventHotWordHeard    EventName = "onHotWordHeard"
	EventHeadTouched     EventName = "onHeadTouch"
	EventTap             EventName = "onTap"
	EventSwipe           EventName = "onSwipe"
	EventMotionDetected  EventName = "onMotionDetected"
	EventEntityUpdate    EventName = "onEntityUpdate"
	EventEntityLost      EventName = "onEntityLost"
	EventEntityGained    EventName = "onEntityGained"
	EventViewStateChange EventName = "onViewStateChange"
	EventAssetReady      EventName = "onAssetReady"
	EventAssetFailed     EventName = "onAssetFailed"
	EventConfig          EventName = "onConfig"
)

// ErrorData carries the failure detail of an onError event.
type ErrorData struct {
	ErrorCode   int    `json:"ErrorCode"`
	ErrorString string `json:"ErrorString"`
}

// AsyncErrorEvent is the body of an onError event.
type AsyncErrorEvent struct {
	Event      EventName `json:"Event"`
	EventError ErrorData `json:"EventError"`
}

// TakePhotoEvent is the body of an onTakePhoto event.
type TakePhotoEvent struct {
	Event          EventName    `json:"Event"`
	URI            string       `json:"URI"`
	Name           string       `json:"Name"`
	PositionTarget *Vector3     `json:"PositionTarget,omitempty"`
	AngleTarget    *AngleVector `json:"AngleTarget,omitempty"`
}

// VideoReadyEvent is the body of an onVideoReady event.
type VideoReadyEvent struct {
	Event EventName `json:"Event"`
	URI   string    `json:"URI"`
}

// LookAtAchievedEvent is the body of an onLookAtAchieved event.
type LookAtAchievedEvent struct {
	Event          EventName    `json:"Event"`
	AngleTarget    *AngleVector `json:"AngleTarget,omitempty"`
	PositionTarget *Vector3     `json:"PositionTarget,omitempty"`
}

// TrackEntityLostEvent is the body of an onTrackEntityLost event.
type TrackEntityLostEvent struct {
	Event          EventName    `json:"Event"`
	EntityTarget   int64        `json:"EntityTarget"`
	AngleTarget    *AngleVector `json:"AngleTarget,omitempty"`
	PositionTarget *Vector3     `json:"PositionTarget,omitempty"`
}

// SpeechResult is one recognized utterance.
type SpeechResult struct {
	Speech       string `json:"Speech"`
	LanguageCode string `json:"LanguageCode,omitempty"`
}

// ListenResultEvent is the body of an onListenResult event.
type ListenResultEvent struct {
	Event        EventName `json:"Event"`
	Speech       string    `json:"Speech"`
	LanguageCode string    `json:"LanguageCode,omitempty"`
	// StopReason is set when the listen ended without a match
	// (NoInput, NoMatch, Interrupted).
	StopReason string `json:"StopReason,omitempty"`
}

// HotWordHeardEvent is the body of an onHotWordHeard event.
type HotWordHeardEvent struct {
	Event   EventName `json:"Event"`
	Speaker struct {
		Confidence  float64  `json:"Confidence"`
		LPSPosition *Vector3 `json:"LPSPosition,omitempty"`
		SpeakerID   string   `json:"SpeakerID,omitempty"`
	} `json:"Speaker"`
}

// HeadTouchEvent is the body of an onHeadTouch event. Pads holds the
// touch state of the six touchpad sensors.
type HeadTouchEvent struct {
	Event EventName `json:"Event"`
	Pads  []bool    `json:"Pads"`
}

// ScreenGestureEvent is the body of an onTap or onSwipe event.
type ScreenGestureEvent struct {
	Event     EventName `json:"Event"`
	Coord     *Vector3  `json:"Coord,omitempty"`
	Direction string    `json:"Direction,omitempty"`
}

// MotionEntity is one detected motion region.
type MotionEntity struct {
	Intensity    float64  `json:"Intensity"`
	WorldCoords  *Vector3 `json:"WorldCoords,omitempty"`
	ScreenCoords *Vector3 `json:"ScreenCoords,omitempty"`
}

// MotionDetectedEvent is the body of an onMotionDetected event.
type MotionDetectedEvent struct {
	Event   EventName      `json:"Event"`
	Motions []MotionEntity `json:"Motions"`
}

// TrackedEntity is one face/person track.
type TrackedEntity struct {
	EntityID    int64    `json:"EntityID"`
	Confidence  float64  `json:"Confidence"`
	WorldCoords *Vector3 `json:"WorldCoords,omitempty"`
}

// EntityTrackEvent is the body of onEntityUpdate/onEntityLost/onEntityGained.
type EntityTrackEvent struct {
	Event  EventName       `json:"Event"`
	Tracks []TrackedEntity `json:"Tracks"`
}

// ViewStateChangeEvent is the body of an onViewStateChange event.
type ViewStateChangeEvent struct {
	Event EventName `json:"Event"`
	State string    `json:"State"`
}

// AssetEvent is the body of an onAssetReady or onAssetFailed event.
type AssetEvent struct {
	Event  EventName `json:"Event"`
	Name   string    `json:"Name"`
	Detail string    `json:"Detail,omitempty"`
}

// ConfigInfo is the current device configuration reported by onConfig.
type ConfigInfo struct {
	Battery struct {
		Capacity    float64 `json:"Capacity"`
		MaxCapacity float64 `json:"MaxCapacity"`
		ChargeRate  float64 `json:"ChargeRate"`
	} `json:"Battery"`
	WiFi struct {
		SSID     string  `json:"SSID"`
		Strength float64 `json:"Strength"`
	} `json:"WiFi"`
	Position struct {
		WorldPosition *Vector3     `json:"WorldPosition,omitempty"`
		AnglePosition *AngleVector `json:"AnglePosition,omitempty"`
	} `json:"Position"`
	Mixer float64 `json:"Mixer"`
}

// ConfigEvent is the body of an onConfig event.
type ConfigEvent struct {
	Event EventName  `json:"Event"`
	Info  ConfigInfo `json:"Info"`
}

// SessionInfo is the response body of a successful StartSession
// acknowledgement.
type SessionInfo struct {
	SessionID string `json:"SessionID"`
	Version   string `json:"Version"`
}

// DecodeSessionInfo decodes the body of a StartSession acknowledgement.
func DecodeSessionInfo(body json.RawMessage) (*SessionInfo, error) {
	var info SessionInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
