package encode

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"github.com/slidereel/slidereel/internal/platform/errors"
)

// FFmpeg pipes raw RGBA frames into an ffmpeg subprocess encoding H.264.
type FFmpeg struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// NewFFmpeg starts an ffmpeg process encoding to outPath. The process reads
// rawvideo RGBA on stdin at the given geometry and frame rate.
func NewFFmpeg(ctx context.Context, outPath string, width, height, fps int) (*FFmpeg, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner", "-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", strconv.Itoa(fps),
		"-i", "pipe:0",
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "20",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		"-y", outPath,
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(errors.CodeEncoderSinkFailed, "open ffmpeg stdin", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(errors.CodeEncoderSinkFailed, "start ffmpeg", err)
	}
	return &FFmpeg{cmd: cmd, stdin: stdin}, nil
}

// WriteFrame streams the frame's RGBA bytes to the encoder.
func (f *FFmpeg) WriteFrame(ctx context.Context, frame Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	img := frame.Image
	if img == nil {
		return errors.New(errors.CodeEncoderSinkFailed, "frame image is required")
	}

	if img.Stride == 4*img.Bounds().Dx() {
		if _, err := f.stdin.Write(img.Pix); err != nil {
			return errors.Wrap(errors.CodeEncoderSinkFailed, "write frame to ffmpeg", err)
		}
		return nil
	}
	// Strided image: write row by row.
	rowBytes := 4 * img.Bounds().Dx()
	for row := 0; row < img.Bounds().Dy(); row++ {
		off := row * img.Stride
		if _, err := f.stdin.Write(img.Pix[off : off+rowBytes]); err != nil {
			return errors.Wrap(errors.CodeEncoderSinkFailed, "write frame to ffmpeg", err)
		}
	}
	return nil
}

// Close signals end of stream and waits for the encoder to finish.
func (f *FFmpeg) Close() error {
	if err := f.stdin.Close(); err != nil {
		_ = f.cmd.Wait()
		return errors.Wrap(errors.CodeEncoderSinkFailed, "close ffmpeg stdin", err)
	}
	if err := f.cmd.Wait(); err != nil {
		return errors.Wrap(errors.CodeEncoderSinkFailed, "ffmpeg exited with error", err)
	}
	return nil
}
