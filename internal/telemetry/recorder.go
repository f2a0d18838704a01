package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/moorebrett0/ziggy/internal/pet"
)

// FileName is the trace written inside the telemetry directory.
const FileName = "ticks.csv"

// Row is one committed snapshot in the CSV trace.
type Row struct {
	Version    uint64  `csv:"version"`
	Time       string  `csv:"time"`
	Fullness   float64 `csv:"fullness"`
	Happiness  float64 `csv:"happiness"`
	Bond       float64 `csv:"bond"`
	HP         float64 `csv:"hp"`
	Mood       string  `csv:"mood"`
	Stage      string  `csv:"stage"`
	TimeOfDay  string  `csv:"time_of_day"`
	Sleeping   bool    `csv:"sleeping"`
	LastAction string  `csv:"last_action"`
	Age        float64 `csv:"age"`
	Generation int     `csv:"generation"`
}

func rowFrom(s pet.Snapshot, at time.Time) Row {
	return Row{
		Version:    s.Version,
		Time:       at.UTC().Format(time.RFC3339Nano),
		Fullness:   s.Fullness,
		Happiness:  s.Happiness,
		Bond:       s.Bond,
		HP:         s.HP,
		Mood:       string(s.Mood),
		Stage:      string(s.Stage),
		TimeOfDay:  string(s.TimeOfDay),
		Sleeping:   s.Sleeping,
		LastAction: string(s.LastAction),
		Age:        s.Age,
		Generation: s.Generation,
	}
}

// Recorder appends every committed snapshot to ticks.csv.
type Recorder struct {
	mu            sync.Mutex
	path          string
	file          *os.File
	headerWritten bool
	now           func() time.Time
}

// NewRecorder creates the output directory and trace file.
// Returns nil if dir is empty (telemetry disabled).
func NewRecorder(dir string) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", FileName, err)
	}

	return &Recorder{path: path, file: f, now: time.Now}, nil
}

// Path returns the trace file location.
func (r *Recorder) Path() string {
	if r == nil {
		return ""
	}
	return r.path
}

// Record writes one snapshot.
func (r *Recorder) Record(s pet.Snapshot) error {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return os.ErrClosed
	}

	records := []Row{rowFrom(s, r.now())}

	if !r.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, r.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
		return nil
	}

	// Subsequent writes skip headers
	if err := gocsv.MarshalWithoutHeaders(records, r.file); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Attach records every snapshot the engine commits until cancel is called.
func (r *Recorder) Attach(e *pet.Engine) (cancel func()) {
	if r == nil {
		return func() {}
	}
	return e.Subscribe(func(s pet.Snapshot) {
		if err := r.Record(s); err != nil {
			slog.Error("telemetry: record failed", "version", s.Version, "err", err)
		}
	})
}

// Close flushes and closes the trace file.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
