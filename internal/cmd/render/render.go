// Package render parses render command flags and drives a full replay run.
package render

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/slidereel/slidereel/internal/compose"
	"github.com/slidereel/slidereel/internal/compose/text"
	"github.com/slidereel/slidereel/internal/encode"
	"github.com/slidereel/slidereel/internal/events"
	entrypoint "github.com/slidereel/slidereel/internal/platform/cmd"
	"github.com/slidereel/slidereel/internal/replay"
	"github.com/slidereel/slidereel/internal/slides"
	"github.com/slidereel/slidereel/internal/storage"
	"github.com/slidereel/slidereel/internal/storage/sqlite"
	"github.com/slidereel/slidereel/internal/telemetry"
)

// Config holds render command configuration.
type Config struct {
	JournalPath string `env:"SLIDEREEL_JOURNAL_PATH" envDefault:"slidereel.db"`
	RecordingID string `env:"SLIDEREEL_RECORDING_ID"`
	SlidesDir   string `env:"SLIDEREEL_SLIDES_DIR" envDefault:"slides"`
	OutputPath  string `env:"SLIDEREEL_OUTPUT" envDefault:"out.mp4"`
	FontPath    string `env:"SLIDEREEL_FONT_PATH"`
	Width       int    `env:"SLIDEREEL_WIDTH" envDefault:"1280"`
	Height      int    `env:"SLIDEREEL_HEIGHT" envDefault:"720"`
	FrameRate   int    `env:"SLIDEREEL_FRAME_RATE" envDefault:"30"`
	QueueDepth  int    `env:"SLIDEREEL_QUEUE_DEPTH" envDefault:"8"`
	DryRun      bool   `env:"SLIDEREEL_DRY_RUN"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.JournalPath, "journal", cfg.JournalPath, "Path to the SQLite event journal")
	fs.StringVar(&cfg.RecordingID, "recording", cfg.RecordingID, "Recording id to render")
	fs.StringVar(&cfg.SlidesDir, "slides", cfg.SlidesDir, "Directory holding slide rasters")
	fs.StringVar(&cfg.OutputPath, "out", cfg.OutputPath, "Output video path (.mp4 via ffmpeg, .y4m raw)")
	fs.StringVar(&cfg.FontPath, "font", cfg.FontPath, "TTF font for text annotations (optional)")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Frame width in pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Frame height in pixels")
	fs.IntVar(&cfg.FrameRate, "fps", cfg.FrameRate, "Output frames per second")
	fs.IntVar(&cfg.QueueDepth, "queue", cfg.QueueDepth, "Encoder queue depth in frames")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Replay and composite without encoding output")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.RecordingID) == "" {
		return Config{}, fmt.Errorf("recording id is required")
	}
	return cfg, nil
}

// Run replays the recording and encodes the frame sequence.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRender, func(ctx context.Context) error {
		return render(ctx, cfg)
	})
}

func render(ctx context.Context, cfg Config) error {
	store, err := sqlite.Open(cfg.JournalPath)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.GetRecording(ctx, cfg.RecordingID)
	if err == storage.ErrNotFound {
		// Journals imported without metadata: derive geometry from flags and
		// the duration from the last recorded event.
		rec = storage.Recording{ID: cfg.RecordingID, Width: cfg.Width, Height: cfg.Height}
	} else if err != nil {
		return err
	}
	if rec.Width <= 0 || rec.Height <= 0 {
		rec.Width, rec.Height = cfg.Width, cfg.Height
	}

	recorded, err := store.LoadEvents(ctx, cfg.RecordingID)
	if err != nil {
		return err
	}
	if rec.Duration == 0 && len(recorded) > 0 {
		rec.Duration = lastTimestamp(recorded)
	}

	runID := uuid.NewString()
	emitter := telemetry.NewEmitter(runID, store)
	log.Printf("run %s: recording %s, %d events, %s at %dx%d %dfps",
		runID, rec.ID, len(recorded), rec.Duration, rec.Width, rec.Height, cfg.FrameRate)

	var drawer *text.Drawer
	if cfg.FontPath != "" {
		face, err := text.LoadFace(cfg.FontPath)
		if err != nil {
			return err
		}
		drawer = text.NewDrawer(face)
	} else {
		drawer = text.NewDrawer(nil)
	}

	cache := slides.NewCache(slides.NewDirDecoder(cfg.SlidesDir), rec.Width, rec.Height)
	defer cache.Release()
	compositor := compose.New(cache, drawer, rec.Width, rec.Height)

	sink, err := openSink(ctx, cfg, rec)
	if err != nil {
		return err
	}
	pipeline := encode.NewPipeline(ctx, sink, cfg.QueueDepth)

	scheduler := replay.NewScheduler(replay.NewApplier(emitter), compositor, pipeline)
	frames, runErr := scheduler.Run(ctx, recorded, replay.Config{
		Duration:  rec.Duration,
		FrameRate: cfg.FrameRate,
	})
	if closeErr := pipeline.Close(); runErr == nil {
		runErr = closeErr
	}
	if runErr != nil {
		emitter.Emit(ctx, telemetry.SeverityError, "RUN_ABORTED", runErr.Error())
		return runErr
	}

	log.Printf("run %s: wrote %d frames to %s", runID, frames, outputName(cfg))
	return nil
}

func openSink(ctx context.Context, cfg Config, rec storage.Recording) (encode.Sink, error) {
	if cfg.DryRun {
		return encode.NewDiscard(), nil
	}
	if strings.HasSuffix(cfg.OutputPath, ".y4m") {
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("create output: %w", err)
		}
		return &fileSink{Y4M: encode.NewY4M(f, rec.Width, rec.Height, cfg.FrameRate), f: f}, nil
	}
	return encode.NewFFmpeg(ctx, cfg.OutputPath, rec.Width, rec.Height, cfg.FrameRate)
}

// fileSink closes the backing file after the stream flushes.
type fileSink struct {
	*encode.Y4M
	f *os.File
}

func (s *fileSink) Close() error {
	if err := s.Y4M.Close(); err != nil {
		_ = s.f.Close()
		return err
	}
	return s.f.Close()
}

func outputName(cfg Config) string {
	if cfg.DryRun {
		return "(dry run)"
	}
	return cfg.OutputPath
}

func lastTimestamp(recorded []events.Event) time.Duration {
	var last time.Duration
	for _, evt := range recorded {
		if evt.Timestamp > last {
			last = evt.Timestamp
		}
	}
	return last
}
