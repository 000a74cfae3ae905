package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RunGate remembers when the last synchronization ran so redundant runs can
// be skipped. It is the only mechanism preventing back-to-back runs and is
// not safe against concurrent triggering from multiple processes; clients
// are expected to serialize runs.
type RunGate interface {
	LastRunAt() (time.Time, error)
	MarkRan(t time.Time) error
}

// ShouldRun reports whether enough time has passed since the last run.
func ShouldRun(gate RunGate, interval time.Duration) (bool, error) {
	last, err := gate.LastRunAt()
	if err != nil {
		return false, err
	}
	return time.Since(last) >= interval, nil
}

// FileGate stores the last-run instant as an RFC3339 timestamp in a file.
type FileGate struct {
	Path string
}

func NewFileGate(path string) *FileGate {
	return &FileGate{Path: path}
}

func (g *FileGate) LastRunAt() (time.Time, error) {
	b, err := os.ReadFile(g.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("read run gate %s: %w", g.Path, err)
	}

	t, err := time.Parse(time.RFC3339, strings.TrimSpace(string(b)))
	if err != nil {
		// a mangled gate file only means the next run happens early
		return time.Time{}, nil
	}
	return t, nil
}

func (g *FileGate) MarkRan(t time.Time) error {
	if err := os.MkdirAll(filepath.Dir(g.Path), 0o755); err != nil {
		return fmt.Errorf("ensure gate dir: %w", err)
	}
	if err := os.WriteFile(g.Path, []byte(t.UTC().Format(time.RFC3339)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write run gate %s: %w", g.Path, err)
	}
	return nil
}
