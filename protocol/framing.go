package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// MaxFrameSize bounds a single envelope including its terminator.
const MaxFrameSize = 1 << 20

var (
	ErrMalformedFrame = errors.New("malformed frame")
	ErrFrameTooLarge  = errors.New("frame too large")
)

// IsRecoverable reports whether the stream can keep being read after err.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrMalformedFrame) || errors.Is(err, ErrFrameTooLarge)
}

// Decoder reads newline-delimited envelopes, tolerating partial reads and
// several frames per read.
type Decoder struct {
	r       *bufio.Reader
	partial []byte
	skip    bool
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next envelope. Blank lines are skipped. A malformed or
// oversized frame is consumed and reported with a recoverable error; any
// read error, io.EOF included, ends the stream.
func (d *Decoder) Next() (Envelope, error) {
	for {
		line, err := d.readLine()
		if err != nil {
			return Envelope{}, err
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var env Envelope
		if err := json.Unmarshal(line, &env); err != nil {
			return Envelope{}, fmt.Errorf("%v: %w", err, ErrMalformedFrame)
		}
		if env.Kind == "" {
			return Envelope{}, fmt.Errorf("missing kind: %w", ErrMalformedFrame)
		}
		return env, nil
	}
}

func (d *Decoder) readLine() ([]byte, error) {
	for {
		chunk, err := d.r.ReadSlice('\n')
		switch {
		case err == nil:
			if d.skip {
				d.skip = false
				d.partial = d.partial[:0]
				return nil, fmt.Errorf("dropped oversized frame: %w", ErrFrameTooLarge)
			}
			if size := len(d.partial) + len(chunk); size > MaxFrameSize {
				d.partial = d.partial[:0]
				return nil, fmt.Errorf("%d bytes: %w", size, ErrFrameTooLarge)
			}
			line := append(d.partial, chunk...)
			d.partial = nil
			return line, nil
		case errors.Is(err, bufio.ErrBufferFull):
			if d.skip {
				continue
			}
			if len(d.partial)+len(chunk) > MaxFrameSize {
				d.skip = true
				d.partial = d.partial[:0]
				continue
			}
			d.partial = append(d.partial, chunk...)
		default:
			return nil, err
		}
	}
}

// Encoder writes one envelope per line. It is safe for concurrent use.
type Encoder struct {
	mu sync.Mutex
	w  io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes env followed by a newline.
func (e *Encoder) Encode(env Envelope) error {
	frame, err := Marshal(env)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err = e.w.Write(frame)
	return err
}

// Marshal renders env as a single terminated frame.
func Marshal(env Envelope) ([]byte, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return append(raw, '\n'), nil
}

// MarshalPayload builds and renders an envelope in one step.
func MarshalPayload(kind Kind, payload any) ([]byte, error) {
	env, err := NewEnvelope(kind, payload)
	if err != nil {
		return nil, err
	}
	return Marshal(env)
}
