// Package headless runs the emulator for a fixed number of frames without
// any output, optionally dumping snapshots along the way.
package headless

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/valerio/jeebie-core/jeebie/backend"
	"github.com/valerio/jeebie-core/jeebie/input"
	"github.com/valerio/jeebie-core/jeebie/snapshot"
	"github.com/valerio/jeebie-core/jeebie/video"
)

// Backend reports a quit event once maxFrames frames went through Update.
type Backend struct {
	frameCount     int
	maxFrames      int
	snapshotConfig SnapshotConfig
	tracker        snapshot.Tracker
	saved          []string
}

// SnapshotConfig holds configuration for frame snapshots.
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // every N frames
	Directory string
	ROMName   string // filename prefix
	// Text also writes the shade grid next to each PNG.
	Text bool
	// SkipDuplicates drops snapshots identical to the previous frame.
	SkipDuplicates bool
}

func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	if snapshotConfig.Interval <= 0 {
		snapshotConfig.Enabled = false
	}
	return &Backend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
	}
}

func (h *Backend) Init(config backend.Config) error {
	slog.Info("Running headless",
		"title", config.Title,
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)
	return nil
}

func (h *Backend) Update(frame *video.FrameBuffer) ([]input.Event, error) {
	h.frameCount++

	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0 {
		if err := h.saveSnapshot(frame); err != nil {
			return nil, err
		}
	}

	if h.frameCount%60 == 0 {
		slog.Debug("Frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}

	if h.frameCount < h.maxFrames {
		return nil, nil
	}

	// final frame, unless the interval just covered it
	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval != 0 {
		if err := h.saveSnapshot(frame); err != nil {
			return nil, err
		}
	}
	slog.Info("Headless execution completed",
		"frames", h.frameCount,
		"snapshots", len(h.saved),
		"unique_frames", h.tracker.Unique())

	return []input.Event{{Action: input.EmulatorQuit, Type: input.Press}}, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// Frames is the number of frames seen so far.
func (h *Backend) Frames() int {
	return h.frameCount
}

// Saved lists the files written so far.
func (h *Backend) Saved() []string {
	return h.saved
}

// CreateSnapshotConfig builds a snapshot configuration from command line
// values. An empty directory gets a fresh temporary one.
func CreateSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
	}
	if !config.Enabled {
		return config, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "jeebie-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	config.ROMName = strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))
	if config.ROMName == "" || config.ROMName == "." {
		config.ROMName = "frame"
	}
	return config, nil
}

func (h *Backend) saveSnapshot(frame *video.FrameBuffer) error {
	if !h.tracker.Changed(frame) && h.snapshotConfig.SkipDuplicates {
		slog.Debug("Skipping unchanged frame", "frame", h.frameCount)
		return nil
	}

	name := fmt.Sprintf("%s_frame_%d", h.snapshotConfig.ROMName, h.frameCount)
	path, err := snapshot.SavePNG(h.snapshotConfig.Directory, name, frame, 1)
	if err != nil {
		return fmt.Errorf("snapshot at frame %d: %w", h.frameCount, err)
	}
	h.saved = append(h.saved, path)

	if h.snapshotConfig.Text {
		path, err := snapshot.SaveText(h.snapshotConfig.Directory, name, frame, snapshot.Meta{Frame: uint64(h.frameCount)})
		if err != nil {
			return fmt.Errorf("snapshot at frame %d: %w", h.frameCount, err)
		}
		h.saved = append(h.saved, path)
	}
	return nil
}
