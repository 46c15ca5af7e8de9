package encode

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/slidereel/slidereel/internal/platform/errors"
)

// Y4M writes frames as an uncompressed YUV4MPEG2 stream. The output is
// byte-for-byte reproducible, which makes it the sink of choice for
// determinism checks and for piping into an external encoder by hand.
type Y4M struct {
	w             *bufio.Writer
	width, height int
	fps           int
	headerWritten bool
	// reused per frame to avoid reallocating three planes each write
	yPlane, uPlane, vPlane []byte
}

// NewY4M creates a YUV4MPEG2 sink writing 4:4:4 frames to w.
func NewY4M(w io.Writer, width, height, fps int) *Y4M {
	size := width * height
	return &Y4M{
		w:      bufio.NewWriterSize(w, 1<<20),
		width:  width,
		height: height,
		fps:    fps,
		yPlane: make([]byte, size),
		uPlane: make([]byte, size),
		vPlane: make([]byte, size),
	}
}

// WriteFrame converts the frame to BT.601 full-range YUV and appends it to
// the stream.
func (y *Y4M) WriteFrame(ctx context.Context, frame Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !y.headerWritten {
		_, err := fmt.Fprintf(y.w, "YUV4MPEG2 W%d H%d F%d:1 Ip A1:1 C444\n", y.width, y.height, y.fps)
		if err != nil {
			return errors.Wrap(errors.CodeEncoderSinkFailed, "write y4m header", err)
		}
		y.headerWritten = true
	}

	img := frame.Image
	if img == nil || img.Bounds().Dx() != y.width || img.Bounds().Dy() != y.height {
		return errors.New(errors.CodeEncoderSinkFailed, "frame size does not match stream")
	}

	i := 0
	for row := 0; row < y.height; row++ {
		off := row * img.Stride
		for col := 0; col < y.width; col++ {
			r := float64(img.Pix[off])
			g := float64(img.Pix[off+1])
			b := float64(img.Pix[off+2])
			off += 4

			y.yPlane[i] = clampByte(0.299*r + 0.587*g + 0.114*b)
			y.uPlane[i] = clampByte(128 - 0.168736*r - 0.331264*g + 0.5*b)
			y.vPlane[i] = clampByte(128 + 0.5*r - 0.418688*g - 0.081312*b)
			i++
		}
	}

	if _, err := y.w.WriteString("FRAME\n"); err != nil {
		return errors.Wrap(errors.CodeEncoderSinkFailed, "write frame marker", err)
	}
	for _, plane := range [][]byte{y.yPlane, y.uPlane, y.vPlane} {
		if _, err := y.w.Write(plane); err != nil {
			return errors.Wrap(errors.CodeEncoderSinkFailed, "write frame plane", err)
		}
	}
	return nil
}

// Close flushes the buffered stream.
func (y *Y4M) Close() error {
	if err := y.w.Flush(); err != nil {
		return errors.Wrap(errors.CodeEncoderSinkFailed, "flush y4m stream", err)
	}
	return nil
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}
