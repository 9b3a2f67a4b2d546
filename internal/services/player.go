// Embedded video player command channel
//
// Mounted players are driven by posting JSON command envelopes in the
// embedded player's postMessage format. The sink is injected so the CLI,
// TUI, and tests can each decide where commands land.
package services

import (
	"encoding/json"
	"fmt"
)

// CommandSink receives one encoded player command. Implementations post to
// an embedded player window, print to a terminal, or capture for tests.
type CommandSink interface {
	Post(message []byte) error
}

// playerCommand is the postMessage envelope the embedded player accepts.
type playerCommand struct {
	Event string `json:"event"`
	Func  string `json:"func"`
	Args  []any  `json:"args"`
}

// PlayerBridge sends commands to every mounted player through a [CommandSink].
type PlayerBridge struct {
	sink CommandSink
}

// NewPlayerBridge creates a bridge over the given sink.
func NewPlayerBridge(sink CommandSink) *PlayerBridge {
	return &PlayerBridge{sink: sink}
}

func (b *PlayerBridge) send(fn string, args ...any) error {
	if b.sink == nil {
		return nil
	}
	if args == nil {
		args = []any{}
	}

	data, err := json.Marshal(playerCommand{Event: "command", Func: fn, Args: args})
	if err != nil {
		return fmt.Errorf("failed to encode player command: %w", err)
	}

	if err := b.sink.Post(data); err != nil {
		return fmt.Errorf("failed to post player command: %w", err)
	}
	return nil
}

// Play resumes playback on the mounted players.
func (b *PlayerBridge) Play() error { return b.send("playVideo") }

// Pause pauses playback on the mounted players.
func (b *PlayerBridge) Pause() error { return b.send("pauseVideo") }

// SeekTo jumps playback to an offset in seconds. allowSeekAhead mirrors the
// player API's flag permitting seeks past the buffered range.
func (b *PlayerBridge) SeekTo(seconds int, allowSeekAhead bool) error {
	return b.send("seekTo", seconds, allowSeekAhead)
}
