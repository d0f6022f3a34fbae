// Package recorder streams world frames to disk as a sequence of msgpack values, so a session
// can be inspected or replayed after it ended.
package recorder

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/oomph-ac/sandbox/world"
	"github.com/oomph-ac/sandbox/worker"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/atomic"
)

// Recorder encodes every frame it receives on a worker queue, off the tick goroutine.
type Recorder struct {
	w      *bufio.Writer
	closer io.Closer
	enc    *msgpack.Encoder
	queue  *worker.Queue
	log    *logrus.Logger

	frames *atomic.Uint64
	// err is the first error encountered. Once set, later frames are dropped.
	err *atomic.Error
}

// New creates a recorder writing to w. If w is an io.Closer, it is closed by Close.
func New(w io.Writer, log *logrus.Logger) *Recorder {
	buf := bufio.NewWriter(w)
	r := &Recorder{
		w:      buf,
		enc:    msgpack.NewEncoder(buf),
		queue:  worker.NewQueue(64),
		log:    log,
		frames: atomic.NewUint64(0),
		err:    atomic.NewError(nil),
	}
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}
	return r
}

// Create creates (or truncates) the file at path and records to it.
func Create(path string, log *logrus.Logger) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return New(f, log), nil
}

// Record queues a frame to be written.
func (r *Recorder) Record(f world.Frame) {
	r.queue.Submit(func() {
		if r.err.Load() != nil {
			return
		}
		if err := r.enc.Encode(&f); err != nil {
			r.log.Errorf("recorder: failed encoding frame %d: %v", f.Tick, err)
			r.err.Store(err)
			return
		}
		r.frames.Inc()
	})
}

// Frames returns the number of frames written so far.
func (r *Recorder) Frames() uint64 {
	return r.frames.Load()
}

// Close writes every queued frame and releases the underlying writer. It returns the first
// error the recorder ran into.
func (r *Recorder) Close() error {
	r.queue.Close()
	err := r.err.Load()
	if ferr := r.w.Flush(); err == nil {
		err = ferr
	}
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// ReadAll decodes every frame in a recording.
func ReadAll(rd io.Reader) ([]world.Frame, error) {
	dec := msgpack.NewDecoder(bufio.NewReader(rd))
	var frames []world.Frame
	for {
		// Only running out of data between two frames ends the recording cleanly.
		if _, err := dec.PeekCode(); err != nil {
			if errors.Is(err, io.EOF) {
				return frames, nil
			}
			return frames, err
		}
		var f world.Frame
		if err := dec.Decode(&f); err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
}
