package ink

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
)

// Config holds the live-tunable parameters of the capture pipeline.
// All fields are plain numbers or booleans; a Config can be swapped into a
// running Engine at any time without re-creating it.
type Config struct {
	// SmoothingEnabled toggles positional filtering. When false, points are
	// only resampled (at tighter spacing) with no low-pass filter.
	SmoothingEnabled bool `toml:"smoothing_enabled"`

	// SpacingFactor scales the resample spacing relative to the stroke base
	// width: spacing = max(0.35, width*SpacingFactor).
	SpacingFactor float64 `toml:"spacing_factor"`

	// SpeedLow and SpeedHigh delimit the smoothstep ramp that maps pointer
	// speed (world units per millisecond) to a smoothing amount.
	SpeedLow  float64 `toml:"speed_low"`
	SpeedHigh float64 `toml:"speed_high"`

	// MinSmoothing and MaxSmoothing bound the smoothing amount. Slow motion
	// gets MinSmoothing (crisp response), fast motion gets MaxSmoothing
	// (heavier jitter suppression).
	MinSmoothing float64 `toml:"min_smoothing"`
	MaxSmoothing float64 `toml:"max_smoothing"`

	// CurvatureBoost reduces smoothing at sharp turns so corners keep their
	// shape: smoothing *= 1 - curvature*CurvatureBoost.
	CurvatureBoost float64 `toml:"curvature_boost"`

	// AngleCulling merges near-collinear emitted points to keep meshes small.
	AngleCulling bool `toml:"angle_culling"`

	// VelocitySmoothing blends each point's instantaneous speed with the
	// previous smoothed velocity: v = lerp(prev, inst, VelocitySmoothing).
	VelocitySmoothing float64 `toml:"velocity_smoothing"`

	// SpeedInfluence thins fast strokes: widthScale = 1/(1+v*SpeedInfluence).
	SpeedInfluence float64 `toml:"speed_influence"`

	// MinWidthScale and MaxWidthScale clamp the per-point width to
	// [base*MinWidthScale, base*MaxWidthScale].
	MinWidthScale float64 `toml:"min_width_scale"`
	MaxWidthScale float64 `toml:"max_width_scale"`

	// TaperFactor scales the head/tail taper length: taper ramps over
	// max(6, base*TaperFactor) units of arc length, capped at 45% of the
	// total length at each end.
	TaperFactor float64 `toml:"taper_factor"`
}

// DefaultConfig returns the tuning used by the stock whiteboard pen.
func DefaultConfig() Config {
	return Config{
		SmoothingEnabled:  true,
		SpacingFactor:     0.35,
		SpeedLow:          0.5,
		SpeedHigh:         6.0,
		MinSmoothing:      0.12,
		MaxSmoothing:      0.75,
		CurvatureBoost:    0.8,
		AngleCulling:      false,
		VelocitySmoothing: 0.2,
		SpeedInfluence:    0.08,
		MinWidthScale:     0.35,
		MaxWidthScale:     1.6,
		TaperFactor:       0.6,
	}
}

// LoadConfig reads a TOML config file. Missing fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("ink: read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("ink: parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the config as TOML.
func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("ink: encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("ink: write config: %w", err)
	}
	return nil
}

// WatchConfig watches a TOML config file and calls fn with the freshly
// parsed Config on every change. Parse failures are logged at Warn level and
// skipped; the previous config stays active. The returned stop function
// closes the watcher.
func WatchConfig(path string, fn func(Config)) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("ink: config watcher: %w", err)
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, fmt.Errorf("ink: watch %s: %w", path, err)
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
					continue
				}
				cfg, err := LoadConfig(path)
				if err != nil {
					Logger().Warn("config reload failed", "path", path, "error", err)
					continue
				}
				Logger().Debug("config reloaded", "path", path)
				fn(cfg)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				Logger().Warn("config watcher error", "error", err)
			}
		}
	}()

	return func() { w.Close() }, nil
}
