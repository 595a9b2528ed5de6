/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"fairhat/internal/compositor"
	"fairhat/internal/domain"
	"fairhat/internal/export"
	applog "fairhat/internal/log"
	"fairhat/internal/overlay"
	"fairhat/internal/transform"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type EditorConfig struct {
	RotateStep float64 `yaml:"rotate_step"` // degrees per rotate step
	ScaleUp    float64 `yaml:"scale_up"`
	ScaleDown  float64 `yaml:"scale_down"`
}

type ExportConfig struct {
	FileBase    string `yaml:"file_base"`
	Format      string `yaml:"format"` // png | webp | jpeg | pdf
	JPEGQuality int    `yaml:"jpeg_quality"`
	// OverlayBaseWidth is the overlay width in display pixels at scale 1.
	OverlayBaseWidth float64 `yaml:"overlay_base_width"`
	// ContainerWidth/ContainerHeight is the preview box used when composing headless.
	ContainerWidth  float64 `yaml:"container_width"`
	ContainerHeight float64 `yaml:"container_height"`
}

type OverlayConfig struct {
	RasterWidth int    `yaml:"raster_width"`
	Path        string `yaml:"path"` // optional custom artwork replacing the built-in hat
}

type StatusConfig struct {
	DismissMs int `yaml:"dismiss_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Editor        EditorConfig  `yaml:"editor"`
	Export        ExportConfig  `yaml:"export"`
	Overlay       OverlayConfig `yaml:"overlay"`
	Status        StatusConfig  `yaml:"status"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Editor: EditorConfig{
			RotateStep: transform.RotateStep,
			ScaleUp:    transform.ScaleUpFactor,
			ScaleDown:  transform.ScaleDownFactor,
		},
		Export: ExportConfig{
			FileBase:         export.DefaultFileBase,
			Format:           string(export.FormatPNG),
			JPEGQuality:      92,
			OverlayBaseWidth: compositor.DefaultOverlayWidth,
			ContainerWidth:   800,
			ContainerHeight:  600,
		},
		Overlay: OverlayConfig{RasterWidth: overlay.DefaultRasterWidth},
		Status:  StatusConfig{DismissMs: 3000},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "FAIRHAT"

// Env var names used as overrides.
const (
	EnvConfigPath = "FAIRHAT_CONFIG"

	EnvRotateStep       = "FAIRHAT_ROTATE_STEP"
	EnvScaleUp          = "FAIRHAT_SCALE_UP"
	EnvScaleDown        = "FAIRHAT_SCALE_DOWN"
	EnvExportFileBase   = "FAIRHAT_EXPORT_FILE_BASE"
	EnvExportFormat     = "FAIRHAT_EXPORT_FORMAT"
	EnvJPEGQuality      = "FAIRHAT_JPEG_QUALITY"
	EnvOverlayBaseWidth = "FAIRHAT_OVERLAY_BASE_WIDTH"
	EnvContainerWidth   = "FAIRHAT_CONTAINER_WIDTH"
	EnvContainerHeight  = "FAIRHAT_CONTAINER_HEIGHT"
	EnvOverlayRaster    = "FAIRHAT_OVERLAY_RASTER_WIDTH"
	EnvOverlayPath      = "FAIRHAT_OVERLAY_PATH"
	EnvStatusDismissMs  = "FAIRHAT_STATUS_DISMISS_MS"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "FAIRHAT_LOG_LEVEL"
	EnvLogFormat = "FAIRHAT_LOG_FORMAT"
	EnvLogSource = "FAIRHAT_LOG_SOURCE"
	EnvLogFile   = "FAIRHAT_LOG_FILE"
)

// envOverrides is filled by envconfig. Nil fields are unset.
type envOverrides struct {
	RotateStep       *float64 `envconfig:"ROTATE_STEP"`
	ScaleUp          *float64 `envconfig:"SCALE_UP"`
	ScaleDown        *float64 `envconfig:"SCALE_DOWN"`
	ExportFileBase   *string  `envconfig:"EXPORT_FILE_BASE"`
	ExportFormat     *string  `envconfig:"EXPORT_FORMAT"`
	JPEGQuality      *int     `envconfig:"JPEG_QUALITY"`
	OverlayBaseWidth *float64 `envconfig:"OVERLAY_BASE_WIDTH"`
	ContainerWidth   *float64 `envconfig:"CONTAINER_WIDTH"`
	ContainerHeight  *float64 `envconfig:"CONTAINER_HEIGHT"`
	OverlayRaster    *int     `envconfig:"OVERLAY_RASTER_WIDTH"`
	OverlayPath      *string  `envconfig:"OVERLAY_PATH"`
	StatusDismissMs  *int     `envconfig:"STATUS_DISMISS_MS"`
	LogLevel         *string  `envconfig:"LOG_LEVEL"`
	LogFormat        *string  `envconfig:"LOG_FORMAT"`
	LogSource        *bool    `envconfig:"LOG_SOURCE"`
	LogFile          *string  `envconfig:"LOG_FILE"`
}

// envKeys maps dotted config keys to the variables overriding them.
var envKeys = map[string]string{
	"editor.rotate_step":        EnvRotateStep,
	"editor.scale_up":           EnvScaleUp,
	"editor.scale_down":         EnvScaleDown,
	"export.file_base":          EnvExportFileBase,
	"export.format":             EnvExportFormat,
	"export.jpeg_quality":       EnvJPEGQuality,
	"export.overlay_base_width": EnvOverlayBaseWidth,
	"export.container_width":    EnvContainerWidth,
	"export.container_height":   EnvContainerHeight,
	"overlay.raster_width":      EnvOverlayRaster,
	"overlay.path":              EnvOverlayPath,
	"status.dismiss_ms":         EnvStatusDismissMs,
	"logging.level":             EnvLogLevel,
	"logging.format":            EnvLogFormat,
	"logging.source":            EnvLogSource,
	"logging.file":              EnvLogFile,
}

// ConfigPath returns the per-user config file path. FAIRHAT_CONFIG takes precedence.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "FairHat")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "FairHat")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "fairhat")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "fairhat")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		if envErr := applyEnvOverrides(&cfg); envErr != nil {
			return cfg, errors.Join(err, envErr)
		}
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit file path. A missing file is not an error.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	var errs []error
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", filepath.Base(path), err))
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, fmt.Errorf("read config: %w", err))
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		errs = append(errs, err)
	}
	cfg.Normalize()
	return cfg, errors.Join(errs...)
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg as YAML to path, creating parent directories.
func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// editor
	if src.Editor.RotateStep != 0 {
		dst.Editor.RotateStep = src.Editor.RotateStep
	}
	if src.Editor.ScaleUp != 0 {
		dst.Editor.ScaleUp = src.Editor.ScaleUp
	}
	if src.Editor.ScaleDown != 0 {
		dst.Editor.ScaleDown = src.Editor.ScaleDown
	}
	// export
	if strings.TrimSpace(src.Export.FileBase) != "" {
		dst.Export.FileBase = strings.TrimSpace(src.Export.FileBase)
	}
	if strings.TrimSpace(src.Export.Format) != "" {
		dst.Export.Format = strings.ToLower(strings.TrimSpace(src.Export.Format))
	}
	if src.Export.JPEGQuality != 0 {
		dst.Export.JPEGQuality = src.Export.JPEGQuality
	}
	if src.Export.OverlayBaseWidth != 0 {
		dst.Export.OverlayBaseWidth = src.Export.OverlayBaseWidth
	}
	if src.Export.ContainerWidth != 0 {
		dst.Export.ContainerWidth = src.Export.ContainerWidth
	}
	if src.Export.ContainerHeight != 0 {
		dst.Export.ContainerHeight = src.Export.ContainerHeight
	}
	// overlay
	if src.Overlay.RasterWidth != 0 {
		dst.Overlay.RasterWidth = src.Overlay.RasterWidth
	}
	if strings.TrimSpace(src.Overlay.Path) != "" {
		dst.Overlay.Path = strings.TrimSpace(src.Overlay.Path)
	}
	if src.Status.DismissMs != 0 {
		dst.Status.DismissMs = src.Status.DismissMs
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("env overrides: %w", err)
	}
	setFloat := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setString := func(dst *string, v *string, lower bool) {
		if v == nil || strings.TrimSpace(*v) == "" {
			return
		}
		s := strings.TrimSpace(*v)
		if lower {
			s = strings.ToLower(s)
		}
		*dst = s
	}
	setFloat(&cfg.Editor.RotateStep, env.RotateStep)
	setFloat(&cfg.Editor.ScaleUp, env.ScaleUp)
	setFloat(&cfg.Editor.ScaleDown, env.ScaleDown)
	setString(&cfg.Export.FileBase, env.ExportFileBase, false)
	setString(&cfg.Export.Format, env.ExportFormat, true)
	setInt(&cfg.Export.JPEGQuality, env.JPEGQuality)
	setFloat(&cfg.Export.OverlayBaseWidth, env.OverlayBaseWidth)
	setFloat(&cfg.Export.ContainerWidth, env.ContainerWidth)
	setFloat(&cfg.Export.ContainerHeight, env.ContainerHeight)
	setInt(&cfg.Overlay.RasterWidth, env.OverlayRaster)
	setString(&cfg.Overlay.Path, env.OverlayPath, false)
	setInt(&cfg.Status.DismissMs, env.StatusDismissMs)
	// logging overrides
	setString(&cfg.Logging.Level, env.LogLevel, true)
	setString(&cfg.Logging.Format, env.LogFormat, true)
	if env.LogSource != nil {
		cfg.Logging.Source = *env.LogSource
	}
	setString(&cfg.Logging.File, env.LogFile, false)
	return nil
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envKeys[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}

// Normalize replaces out-of-range values with defaults.
func (c *AppConfig) Normalize() {
	d := Defaults()
	steps := transform.Steps{
		RotateDegrees: c.Editor.RotateStep,
		UpFactor:      c.Editor.ScaleUp,
		DownFactor:    c.Editor.ScaleDown,
	}.Normalize()
	c.Editor.RotateStep = steps.RotateDegrees
	c.Editor.ScaleUp = steps.UpFactor
	c.Editor.ScaleDown = steps.DownFactor

	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		c.Export.Format = d.Export.Format
	}
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		c.Export.JPEGQuality = d.Export.JPEGQuality
	}
	if !positive(c.Export.OverlayBaseWidth) {
		c.Export.OverlayBaseWidth = d.Export.OverlayBaseWidth
	}
	if !positive(c.Export.ContainerWidth) || !positive(c.Export.ContainerHeight) {
		c.Export.ContainerWidth = d.Export.ContainerWidth
		c.Export.ContainerHeight = d.Export.ContainerHeight
	}
	if c.Overlay.RasterWidth <= 0 || c.Overlay.RasterWidth > 8192 {
		c.Overlay.RasterWidth = d.Overlay.RasterWidth
	}
	if c.Status.DismissMs <= 0 {
		c.Status.DismissMs = d.Status.DismissMs
	}
}

func positive(f float64) bool { return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f) }

// Steps returns the editor step sizes.
func (c AppConfig) Steps() transform.Steps {
	return transform.Steps{
		RotateDegrees: c.Editor.RotateStep,
		UpFactor:      c.Editor.ScaleUp,
		DownFactor:    c.Editor.ScaleDown,
	}.Normalize()
}

// Container returns the headless preview box.
func (c AppConfig) Container() domain.Box {
	return domain.Box{Width: c.Export.ContainerWidth, Height: c.Export.ContainerHeight}
}

// DismissAfter returns the status auto-dismiss delay.
func (c AppConfig) DismissAfter() time.Duration {
	if c.Status.DismissMs <= 0 {
		return time.Duration(Defaults().Status.DismissMs) * time.Millisecond
	}
	return time.Duration(c.Status.DismissMs) * time.Millisecond
}

// ExportFormat returns the configured export format, PNG if unknown.
func (c AppConfig) ExportFormat() export.Format {
	f, err := export.ParseFormat(c.Export.Format)
	if err != nil {
		return export.FormatPNG
	}
	return f
}

// LogOptions converts the logging section for log.Init.
func (l LoggingConfig) LogOptions() applog.Options {
	return applog.Options{Level: l.Level, Format: l.Format, AddSource: l.Source, File: l.File}
}
