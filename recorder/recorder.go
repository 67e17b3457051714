// Package recorder writes display frames to an MJPEG AVI file.
package recorder

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"

	"github.com/icza/mjpeg"
)

// Recorder appends every Nth frame it is offered to a video file.
type Recorder struct {
	path   string
	writer mjpeg.AviWriter
	buf    bytes.Buffer
	opts   jpeg.Options
	every  int64
	frames int
}

// New opens path for writing. every <= 0 records every frame; quality is the
// JPEG quality (1-100).
func New(path string, width, height, fps, every, quality int) (*Recorder, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if fps <= 0 {
		fps = 30
	}
	if every <= 0 {
		every = 1
	}
	w, err := mjpeg.New(path, int32(width), int32(height), int32(fps))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	slog.Info("recording started", "path", path, "width", width, "height", height, "fps", fps, "every", every)
	return &Recorder{
		path:   path,
		writer: w,
		opts:   jpeg.Options{Quality: quality},
		every:  int64(every),
	}, nil
}

// Capture encodes img as a frame if tick falls on the recording interval.
func (r *Recorder) Capture(tick int64, img image.Image) error {
	if r == nil || tick%r.every != 0 {
		return nil
	}

	r.buf.Reset()
	if err := jpeg.Encode(&r.buf, img, &r.opts); err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	if err := r.writer.AddFrame(r.buf.Bytes()); err != nil {
		return fmt.Errorf("adding frame: %w", err)
	}
	r.frames++
	return nil
}

// Frames returns the number of frames written.
func (r *Recorder) Frames() int {
	if r == nil {
		return 0
	}
	return r.frames
}

// Path returns the output file.
func (r *Recorder) Path() string {
	if r == nil {
		return ""
	}
	return r.path
}

// Close finalizes the AVI index and closes the file.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	if err := r.writer.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", r.path, err)
	}
	slog.Info("recording finished", "path", r.path, "frames", r.frames)
	return nil
}
