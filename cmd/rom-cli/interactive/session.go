// Package interactive provides the interactive command loop for
// rom-cli.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/rom-protocol/rom-go/pkg/requester"
	"github.com/rom-protocol/rom-go/pkg/token"
	"github.com/rom-protocol/rom-go/pkg/wire"
)

// commandTimeout bounds how long the loop waits for a single command
// to settle before giving up on the prompt.
const commandTimeout = 30 * time.Second

// Session handles interactive mode for rom-cli.
type Session struct {
	req *requester.Requester
	rl  *readline.Instance

	// streams are the open perception streams, cancellable by index.
	streams []token.Token
}

// New creates an interactive session handler.
func New(req *requester.Requester) (*Session, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "rom> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Session{req: req, rl: rl}, nil
}

// Stdout returns a writer coordinated with the readline prompt.
func (s *Session) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run starts the interactive command loop.
func (s *Session) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "say":
			s.cmdSay(ctx, args)

		case "look":
			s.cmdLook(ctx, args)

		case "photo":
			s.cmdPhoto(ctx, args)

		case "video":
			s.cmdVideo(ctx, args)

		case "listen":
			s.cmdListen(ctx, args)

		case "hotword":
			s.cmdHotWord(args)

		case "touch":
			s.cmdTouch()

		case "gesture":
			s.cmdGesture()

		case "motion":
			s.cmdMotion()

		case "faces":
			s.cmdFaces()

		case "attention":
			s.cmdAttention(ctx, args)

		case "display":
			s.cmdDisplay(args)

		case "config":
			s.cmdConfig(ctx)

		case "mixer":
			s.cmdMixer(ctx, args)

		case "load":
			s.cmdLoad(ctx, args)

		case "unload":
			s.cmdUnload(ctx, args)

		case "streams":
			s.cmdStreams()

		case "stop":
			s.cmdStop(args)

		case "status":
			s.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
ROM Client Commands:
  Expression:
    say <text>                 - Speak text
    look <theta> <psi>         - Look toward an angle (radians)
    attention <mode>           - Set attention mode (OFF, IDLE, ENGAGED, ...)
    display <text>             - Show text on the screen

  Capture:
    photo [left|right]         - Take a photo
    video [ms]                 - Record a video clip
    listen                     - Capture one utterance

  Streams:
    hotword                    - Subscribe to hot-word detections
    touch                      - Subscribe to head-touch updates
    gesture                    - Subscribe to taps and swipes
    motion                     - Subscribe to motion detection
    faces                      - Subscribe to face tracking
    streams                    - List open streams
    stop <n>                   - Cancel stream n

  Configuration & Assets:
    config                     - Read device configuration
    mixer <0..1>               - Set speaker volume
    load <uri> <name>          - Fetch an asset into device memory
    unload <name>              - Evict an asset

  General:
    status                     - Show session status
    help                       - Show this help
    quit                       - Exit`)
}

// await waits for a token to settle, bounded by the command timeout.
func (s *Session) await(ctx context.Context, tok token.Token) (any, bool) {
	waitCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	result, err := tok.Completion().Await(waitCtx)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return nil, false
	}
	return result, true
}

func (s *Session) cmdSay(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: say <text>")
		return
	}
	tok := s.req.Play.Say(strings.Join(args, " "), nil)
	if _, ok := s.await(ctx, tok); ok {
		fmt.Fprintln(s.rl.Stdout(), "Done")
	}
}

func (s *Session) cmdLook(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: look <theta> <psi>")
		return
	}
	theta, err1 := strconv.ParseFloat(args[0], 64)
	psi, err2 := strconv.ParseFloat(args[1], 64)
	if err1 != nil || err2 != nil {
		fmt.Fprintln(s.rl.Stdout(), "Usage: look <theta> <psi> (radians)")
		return
	}
	tok := s.req.LookAt.Angle(wire.AngleVector{Theta: theta, Psi: psi}, false)
	if result, ok := s.await(ctx, tok); ok {
		if la, ok := result.(*token.LookAtResult); ok && la.AngleTarget != nil {
			fmt.Fprintf(s.rl.Stdout(), "Looked at theta=%.2f psi=%.2f\n",
				la.AngleTarget.Theta, la.AngleTarget.Psi)
		} else {
			fmt.Fprintln(s.rl.Stdout(), "Done")
		}
	}
}

func (s *Session) cmdPhoto(ctx context.Context, args []string) {
	camera := wire.CameraLeft
	if len(args) > 0 && strings.EqualFold(args[0], "right") {
		camera = wire.CameraRight
	}
	tok := s.req.Photo.Take(camera, wire.ResolutionMedium, false)
	if result, ok := s.await(ctx, tok); ok {
		if photo, ok := result.(*wire.TakePhotoEvent); ok {
			fmt.Fprintf(s.rl.Stdout(), "Photo ready: %s (name: %s)\n", photo.URI, photo.Name)
		}
	}
}

func (s *Session) cmdVideo(ctx context.Context, args []string) {
	duration := int64(3000)
	if len(args) > 0 {
		if ms, err := strconv.ParseInt(args[0], 10, 64); err == nil {
			duration = ms
		}
	}
	tok := s.req.Video.Record("NORMAL", duration)
	if result, ok := s.await(ctx, tok); ok {
		if video, ok := result.(*wire.VideoReadyEvent); ok {
			fmt.Fprintf(s.rl.Stdout(), "Video ready: %s\n", video.URI)
		}
	}
}

func (s *Session) cmdListen(ctx context.Context, args []string) {
	tok := s.req.Listen.Start(requester.ListenOptions{LanguageCode: "en-US"})
	fmt.Fprintln(s.rl.Stdout(), "Listening...")
	if result, ok := s.await(ctx, tok); ok {
		if speech, ok := result.(*wire.ListenResultEvent); ok {
			fmt.Fprintf(s.rl.Stdout(), "Heard: %q\n", speech.Speech)
		}
	}
}

func (s *Session) cmdHotWord(args []string) {
	tok := s.req.HotWord.Listen(false)
	tok.Heard.On(func(ev wire.HotWordHeardEvent) {
		fmt.Fprintf(s.rl.Stdout(), "[hotword] heard (speaker lpsRadians=%v)\n", ev.Speaker.LPSPosition)
	})
	s.addStream("hotword", tok)
}

func (s *Session) cmdTouch() {
	tok := s.req.HeadTouch.Listen()
	tok.Updates.On(func(pads []bool) {
		fmt.Fprintf(s.rl.Stdout(), "[touch] pads=%v\n", pads)
	})
	s.addStream("touch", tok)
}

func (s *Session) cmdGesture() {
	tok := s.req.ScreenGesture.Listen(nil)
	tok.Updates.On(func(ev wire.ScreenGestureEvent) {
		fmt.Fprintf(s.rl.Stdout(), "[gesture] %s\n", ev.Event)
	})
	s.addStream("gesture", tok)
}

func (s *Session) cmdMotion() {
	tok := s.req.MotionTrack.Track()
	tok.Updates.On(func(motions []wire.MotionEntity) {
		fmt.Fprintf(s.rl.Stdout(), "[motion] %d region(s)\n", len(motions))
	})
	s.addStream("motion", tok)
}

func (s *Session) cmdFaces() {
	tok := s.req.FaceTrack.Track()
	tok.Updates.On(func(update token.FaceTrackUpdate) {
		fmt.Fprintf(s.rl.Stdout(), "[faces] %s: %d track(s)\n", update.Kind, len(update.Tracks))
	})
	s.addStream("faces", tok)
}

// addStream records an open stream and announces its index.
func (s *Session) addStream(name string, tok token.Token) {
	s.streams = append(s.streams, tok)
	fmt.Fprintf(s.rl.Stdout(), "Stream %d (%s) open; 'stop %d' to cancel\n",
		len(s.streams), name, len(s.streams))
}

func (s *Session) cmdStreams() {
	open := 0
	for i, tok := range s.streams {
		if tok.Done() {
			continue
		}
		fmt.Fprintf(s.rl.Stdout(), "  %d. tx %s\n", i+1, tok.TransactionID())
		open++
	}
	if open == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No open streams")
	}
}

func (s *Session) cmdStop(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: stop <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(s.streams) {
		fmt.Fprintln(s.rl.Stdout(), "Usage: stop <n> (see 'streams')")
		return
	}
	s.streams[n-1].Cancel()
	fmt.Fprintf(s.rl.Stdout(), "Stream %d cancelled\n", n)
}

func (s *Session) cmdAttention(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: attention <mode>")
		return
	}
	tok := s.req.Attention.SetMode(wire.AttentionMode(strings.ToUpper(args[0])))
	if _, ok := s.await(ctx, tok); ok {
		fmt.Fprintln(s.rl.Stdout(), "Done")
	}
}

func (s *Session) cmdDisplay(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: display <text>")
		return
	}
	tok := s.req.Display.Text("cli-text", strings.Join(args, " "))
	tok.Updates.On(func(ev wire.ViewStateChangeEvent) {
		fmt.Fprintf(s.rl.Stdout(), "[display] view state: %s\n", ev.State)
	})
	// Display tokens stay pending until the view closes; don't block the
	// prompt on them.
	fmt.Fprintln(s.rl.Stdout(), "Displaying (view stays up until replaced)")
}

func (s *Session) cmdConfig(ctx context.Context) {
	tok := s.req.Config.Get()
	if result, ok := s.await(ctx, tok); ok {
		if info, ok := result.(*wire.ConfigInfo); ok {
			fmt.Fprintf(s.rl.Stdout(), "Battery: %.0f%%  WiFi: %s (%.0f)  Mixer: %.2f\n",
				100*info.Battery.Capacity/info.Battery.MaxCapacity,
				info.WiFi.SSID, info.WiFi.Strength, info.Mixer)
		}
	}
}

func (s *Session) cmdMixer(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: mixer <0..1>")
		return
	}
	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil || value < 0 || value > 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: mixer <0..1>")
		return
	}
	tok := s.req.Config.Set(wire.ConfigOptions{Mixer: value})
	if _, ok := s.await(ctx, tok); ok {
		fmt.Fprintln(s.rl.Stdout(), "Done")
	}
}

func (s *Session) cmdLoad(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: load <uri> <name>")
		return
	}
	tok := s.req.Assets.Load(args[0], args[1])
	if result, ok := s.await(ctx, tok); ok {
		if asset, ok := result.(*wire.AssetEvent); ok {
			fmt.Fprintf(s.rl.Stdout(), "Asset %s ready\n", asset.Name)
		}
	}
}

func (s *Session) cmdUnload(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: unload <name>")
		return
	}
	tok := s.req.Assets.Unload(args[0])
	if _, ok := s.await(ctx, tok); ok {
		fmt.Fprintln(s.rl.Stdout(), "Done")
	}
}

func (s *Session) cmdStatus() {
	sessionID, version := s.req.Session()
	fmt.Fprintf(s.rl.Stdout(), "Device:    %s\n", s.req.Device())
	fmt.Fprintf(s.rl.Stdout(), "Session:   %s\n", sessionID)
	fmt.Fprintf(s.rl.Stdout(), "Version:   %s\n", version)
	fmt.Fprintf(s.rl.Stdout(), "In flight: %d\n", s.req.InFlight())
}
