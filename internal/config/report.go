package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ReportConfig holds the tunables of the pre-sale report renderers.
type ReportConfig struct {
	Timezone string            `mapstructure:"timezone"`
	Chart    ReportChartConfig `mapstructure:"chart"`
	PDF      ReportPDFConfig   `mapstructure:"pdf"`
}

type ReportChartConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type ReportPDFConfig struct {
	// FontPath points at a UTF-8 TTF font; the built-in PDF fonts cannot draw Cyrillic.
	FontPath string `mapstructure:"fontPath"`
}

func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		Timezone: "Local",
		Chart: ReportChartConfig{
			Width:  400,
			Height: 400,
		},
	}
}

// Location resolves the configured timezone used to stamp report dates.
func (c ReportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(strings.TrimSpace(c.Timezone))
	if err != nil {
		return time.Local
	}
	return loc
}

type ReportConfigHolder struct {
	current atomic.Value // holds ReportConfig
}

var defaultReportConfigPaths = []string{
	"/etc/crmlite",
	".",
}

// NewReportConfigHolder loads report.yml from the standard locations and watches it for changes.
func NewReportConfigHolder(log *zap.Logger) (*ReportConfigHolder, error) {
	return LoadReportConfig(log, defaultReportConfigPaths...)
}

func LoadReportConfig(log *zap.Logger, paths ...string) (*ReportConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("report.config")

	v := viper.New()
	v.SetConfigName("report")
	v.SetConfigType("yml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	v.SetEnvPrefix("CRMLITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultReportConfig()
	v.SetDefault("report.timezone", defaults.Timezone)
	v.SetDefault("report.chart.width", defaults.Chart.Width)
	v.SetDefault("report.chart.height", defaults.Chart.Height)
	v.SetDefault("report.pdf.fontPath", defaults.PDF.FontPath)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileFound = false
	}

	var cfg ReportConfig
	if err := v.UnmarshalKey("report", &cfg); err != nil {
		return nil, err
	}
	if err := validateReportConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ReportConfigHolder{}
	holder.current.Store(cfg)

	if !fileFound {
		log.Info("report config file not found, using defaults")
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ReportConfig
		if err := v.UnmarshalKey("report", &updated); err != nil {
			log.Warn("report config reload failed", zap.Error(err))
			return
		}
		if err := validateReportConfig(updated); err != nil {
			log.Warn("invalid report config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("report config reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

// NewStaticReportConfigHolder wraps a fixed config, mostly for tests.
func NewStaticReportConfigHolder(cfg ReportConfig) *ReportConfigHolder {
	holder := &ReportConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *ReportConfigHolder) Get() ReportConfig {
	if h == nil {
		return DefaultReportConfig()
	}
	return h.current.Load().(ReportConfig)
}

func validateReportConfig(cfg ReportConfig) error {
	if cfg.Chart.Width <= 0 || cfg.Chart.Height <= 0 {
		return errors.New("report.chart width and height must be positive")
	}
	if _, err := time.LoadLocation(strings.TrimSpace(cfg.Timezone)); err != nil {
		return fmt.Errorf("report.timezone: %w", err)
	}
	return nil
}
