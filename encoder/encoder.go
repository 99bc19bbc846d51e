package encoder

import (
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ErrClosed is returned when writing to a closed Recorder.
var ErrClosed = errors.New("encoder: recorder closed")

// Options configures a Recorder.
type Options struct {
	OutputFile string
	FPS        int
	// Codec is "h264" (default) or "hevc".
	Codec      string
	FFmpegPath string
}

// startFunc launches the encoding process for frames of the given size and
// returns the writer frames go to and a channel reporting its exit.
type startFunc func(width, height int) (io.WriteCloser, <-chan error)

// Recorder pipes raw RGBA frames into ffmpeg. Frames arrive bottom-up, as
// read back from GL, and are flipped by ffmpeg. The output size is fixed by
// the first frame; frames of any other size are dropped.
type Recorder struct {
	opts   Options
	start  startFunc
	sink   io.WriteCloser
	errc   <-chan error
	width  int
	height int
	frames int64
	closed bool
}

func NewRecorder(opts Options) *Recorder {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	r := &Recorder{opts: opts}
	r.start = r.startFFmpeg
	return r
}

// WriteFrame queues one frame of width*height*4 bytes.
func (r *Recorder) WriteFrame(width, height int, pixels []byte) error {
	if r.closed {
		return ErrClosed
	}
	if len(pixels) != width*height*4 {
		return fmt.Errorf("frame is %d bytes, want %d for %dx%d", len(pixels), width*height*4, width, height)
	}
	if r.sink == nil {
		log.Printf("Recording %dx%d at %d fps to %s", width, height, r.opts.FPS, r.opts.OutputFile)
		r.width, r.height = width, height
		r.sink, r.errc = r.start(width, height)
	}
	if width != r.width || height != r.height {
		log.Printf("Warning: skipping %dx%d frame, recording is %dx%d", width, height, r.width, r.height)
		return nil
	}
	if _, err := r.sink.Write(pixels); err != nil {
		return fmt.Errorf("failed to write frame %d to ffmpeg: %w", r.frames, err)
	}
	r.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (r *Recorder) Frames() int64 {
	return r.frames
}

// Close ends the stream and waits for ffmpeg to exit.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.sink == nil {
		return nil
	}
	var errs []error
	if err := r.sink.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close ffmpeg input: %w", err))
	}
	if err := <-r.errc; err != nil {
		errs = append(errs, fmt.Errorf("ffmpeg failed: %w", err))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	log.Printf("Recorded %d frames to %s", r.frames, r.opts.OutputFile)
	return nil
}

func (r *Recorder) startFFmpeg(width, height int) (io.WriteCloser, <-chan error) {
	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := encoderArgs(runtime.GOOS, r.opts, width, height)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(r.opts.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()

	if r.opts.FFmpegPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(r.opts.FFmpegPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		// unblock writers if ffmpeg died early
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()
	return pipeWriter, errc
}

func encoderArgs(goos string, opts Options, width, height int) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": opts.FPS,
	}

	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}

	hevc := opts.Codec == "hevc"
	switch goos {
	case "darwin":
		if hevc {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
	default:
		if hevc {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
	}
	outputArgs["b:v"] = "25M"

	if hevc && strings.HasSuffix(opts.OutputFile, ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return inputArgs, outputArgs
}
