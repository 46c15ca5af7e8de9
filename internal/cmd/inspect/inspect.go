// Package inspect parses inspect command flags and summarizes a journal.
package inspect

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/slidereel/slidereel/internal/events"
	entrypoint "github.com/slidereel/slidereel/internal/platform/cmd"
	"github.com/slidereel/slidereel/internal/storage"
	"github.com/slidereel/slidereel/internal/storage/sqlite"
)

// Config holds inspect command configuration.
type Config struct {
	JournalPath string `env:"SLIDEREEL_JOURNAL_PATH" envDefault:"slidereel.db"`
	RecordingID string `env:"SLIDEREEL_RECORDING_ID"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.JournalPath, "journal", cfg.JournalPath, "Path to the SQLite event journal")
	fs.StringVar(&cfg.RecordingID, "recording", cfg.RecordingID, "Recording id to inspect")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.RecordingID) == "" {
		return Config{}, fmt.Errorf("recording id is required")
	}
	return cfg, nil
}

// Run prints a journal summary for one recording.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceInspect, func(ctx context.Context) error {
		return inspect(ctx, cfg, out)
	})
}

func inspect(ctx context.Context, cfg Config, out io.Writer) error {
	store, err := sqlite.Open(cfg.JournalPath)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.GetRecording(ctx, cfg.RecordingID)
	switch err {
	case nil:
		fmt.Fprintf(out, "recording %s: %s at %dx%d\n", rec.ID, rec.Duration, rec.Width, rec.Height)
	case storage.ErrNotFound:
		fmt.Fprintf(out, "recording %s: no metadata\n", cfg.RecordingID)
	default:
		return err
	}

	recorded, err := store.LoadEvents(ctx, cfg.RecordingID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "events: %d\n", len(recorded))
	if len(recorded) == 0 {
		return nil
	}

	counts := make(map[events.Type]int)
	for _, evt := range recorded {
		counts[evt.Type]++
	}
	types := make([]string, 0, len(counts))
	for typ := range counts {
		types = append(types, string(typ))
	}
	sort.Strings(types)
	for _, typ := range types {
		fmt.Fprintf(out, "  %-20s %d\n", typ, counts[events.Type(typ)])
	}

	first := recorded[0].Timestamp
	last := recorded[len(recorded)-1].Timestamp
	fmt.Fprintf(out, "span: %s .. %s\n", first, last)
	return nil
}
