// Package input turns a raw terminal byte stream into per-tick command
// state. Keys are tracked with a short hold window so held arrows read as
// continuous steering even though terminals only deliver repeats.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Long enough to bridge terminal key-repeat gaps, short enough that releasing
// a key stops the car from drifting.
const keyHoldDuration = 120 * time.Millisecond

// tapHoldDuration is the shorter window for keys that should act like taps,
// not holds (pause, start/restart, quit).
const tapHoldDuration = 30 * time.Millisecond

// Commands is the decoded input state for one tick.
type Commands struct {
	Throttle   bool
	Brake      bool
	SteerLeft  bool
	SteerRight bool
	Pause      bool
	Restart    bool // Also the start command on the menu
	Quit       bool
}

// keyState tracks the last time each command's key was pressed.
type keyState struct {
	throttle   time.Time
	brake      time.Time
	steerLeft  time.Time
	steerRight time.Time
	pause      time.Time
	restart    time.Time
	quit       time.Time
}

// Stream delivers input bytes via a channel and tracks key state so multiple
// simultaneous keys (throttle + steer) decode correctly.
type Stream struct {
	ch    chan byte
	state keyState
}

// StartStream spawns a goroutine that reads from r and feeds the stream until
// the reader closes.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Read drains all pending bytes (non-blocking), decodes arrow escape
// sequences, and reports which commands are currently held.
func (s *Stream) Read() Commands {
	now := time.Now()
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI arrow sequences: ESC [ A/B/C/D.
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.throttle = now
				i += 2
				continue
			case 'B':
				s.state.brake = now
				i += 2
				continue
			case 'C':
				s.state.steerRight = now
				i += 2
				continue
			case 'D':
				s.state.steerLeft = now
				i += 2
				continue
			}
		}

		s.applyByte(b, now)
	}

	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }
	tapped := func(t time.Time) bool { return now.Sub(t) < tapHoldDuration }

	return Commands{
		Throttle:   held(s.state.throttle),
		Brake:      held(s.state.brake),
		SteerLeft:  held(s.state.steerLeft),
		SteerRight: held(s.state.steerRight),
		Pause:      tapped(s.state.pause),
		Restart:    tapped(s.state.restart),
		Quit:       tapped(s.state.quit),
	}
}

// Reset forgets all held keys, so a state change (restart, resume) doesn't
// inherit stale input.
func (s *Stream) Reset() {
	s.state = keyState{}
}

func (s *Stream) applyByte(b byte, now time.Time) {
	switch b {
	case 'w', 'W':
		s.state.throttle = now
	case 's', 'S':
		s.state.brake = now
	case 'a', 'A':
		s.state.steerLeft = now
	case 'd', 'D':
		s.state.steerRight = now
	case 'p', 'P', '\x1b': // Bare escape also pauses
		s.state.pause = now
	case ' ', '\n', '\r':
		s.state.restart = now
	case 'q', 'Q':
		s.state.quit = now
	}
}
