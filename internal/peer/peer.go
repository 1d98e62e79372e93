// Package peer serves the command loop over a WebRTC data channel. Signaling
// is manual: the offer is pasted on stdin and the answer printed for the
// remote side to paste back.
package peer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"inputcommands/input"
	"inputcommands/internal/commands"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	log "github.com/sirupsen/logrus"
)

// ChannelLabel is the data channel the remote side must open.
const ChannelLabel = "commands"

var ErrConnectionFailed = errors.New("peer connection failed")

// How long Run waits for the Exit reply to leave the channel before it
// closes the connection.
const (
	drainTimeout = 2 * time.Second
	drainPoll    = 10 * time.Millisecond
)

type Config struct {
	Device  input.Device
	STUN    []string
	Logger  log.FieldLogger
	Options []commands.Option
	// Offer is read from In, the answer written to Out.
	In  io.Reader
	Out io.Writer
}

// sender is the part of *webrtc.DataChannel a session replies on.
type sender interface {
	SendText(s string) error
}

// buffered reports how many bytes a channel still has queued to send.
type buffered interface {
	BufferedAmount() uint64
}

// drain waits until b has nothing queued. It reports false when timeout
// passes or ctx ends first.
func drain(ctx context.Context, b buffered, timeout, poll time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for b.BufferedAmount() > 0 {
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return false
		case <-ticker.C:
		}
	}
	return true
}

// session runs one interpreter for one data channel. Every message gets
// exactly one reply with that command's output.
type session struct {
	mu     sync.Mutex
	out    bytes.Buffer
	interp *commands.Interpreter
	ch     sender
}

func newSession(dev input.Device, ch sender, opts ...commands.Option) *session {
	s := &session{ch: ch}
	s.interp = commands.New(dev, &s.out, opts...)
	return s
}

func (s *session) handle(line string) (commands.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.Reset()
	state := s.interp.Execute(strings.TrimRight(line, "\r\n"))
	if err := s.ch.SendText(s.out.String()); err != nil {
		return state, fmt.Errorf("reply: %w", err)
	}
	return state, nil
}

// Run answers a single offer and executes commands until Exit, ctx is
// cancelled or the connection fails.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	logger = logger.WithField("session", uuid.NewString())

	var ice []webrtc.ICEServer
	if len(cfg.STUN) > 0 {
		ice = append(ice, webrtc.ICEServer{URLs: cfg.STUN})
	}
	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{ICEServers: ice})
	if err != nil {
		return fmt.Errorf("new pc: %w", err)
	}
	defer pc.Close()

	exited := make(chan *webrtc.DataChannel, 1)
	failed := make(chan struct{})
	var exitOnce, failOnce sync.Once
	var deviceMu sync.Mutex

	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		logger.WithField("state", s.String()).Info("peer connection state")
		if s == webrtc.PeerConnectionStateFailed || s == webrtc.PeerConnectionStateClosed {
			failOnce.Do(func() { close(failed) })
		}
	})

	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		label := dc.Label()
		if label != ChannelLabel {
			logger.WithField("label", label).Info("ignoring data channel")
			return
		}
		logger.WithField("label", label).Info("data channel")
		opts := append([]commands.Option{
			commands.WithLogger(logger),
			commands.WithLock(&deviceMu),
		}, cfg.Options...)
		sess := newSession(cfg.Device, dc, opts...)
		dc.OnMessage(func(msg webrtc.DataChannelMessage) {
			if !msg.IsString {
				return
			}
			state, err := sess.handle(string(msg.Data))
			if err != nil {
				logger.WithError(err).Warn("data channel write error")
			}
			if state == commands.Terminated {
				exitOnce.Do(func() { exited <- dc })
			}
		})
	})

	fmt.Fprintln(cfg.Out, "Paste base64 Offer then press Enter:")
	offerB64, err := readOffer(cfg.In)
	if err != nil {
		return err
	}
	var offer webrtc.SessionDescription
	if err := Decode(offerB64, &offer); err != nil {
		return fmt.Errorf("offer: %w", err)
	}
	if err := pc.SetRemoteDescription(offer); err != nil {
		return fmt.Errorf("set remote: %w", err)
	}

	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		return fmt.Errorf("create answer: %w", err)
	}
	gatherComplete := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(answer); err != nil {
		return fmt.Errorf("set local: %w", err)
	}
	select {
	case <-gatherComplete:
	case <-ctx.Done():
		return nil
	}
	ansB64, err := Encode(pc.LocalDescription())
	if err != nil {
		return fmt.Errorf("encode answer: %w", err)
	}
	fmt.Fprintln(cfg.Out, "Answer (base64). Copy back to the remote side:\n"+ansB64)

	select {
	case <-ctx.Done():
		return nil
	case dc := <-exited:
		logger.Info("exit requested")
		if !drain(ctx, dc, drainTimeout, drainPoll) {
			logger.Warn("exit reply still queued at close")
		}
		return nil
	case <-failed:
		return ErrConnectionFailed
	}
}

// Encode renders obj as base64 JSON, the format both sides paste.
func Encode(obj any) (string, error) {
	b, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func Decode(in string, obj any) error {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(in))
	if err != nil {
		return fmt.Errorf("decode b64: %w", err)
	}
	if err := json.Unmarshal(b, obj); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

// readOffer returns the first non-blank line of r.
func readOffer(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line, nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read offer: %w", err)
	}
	return "", fmt.Errorf("read offer: %w", io.ErrUnexpectedEOF)
}
