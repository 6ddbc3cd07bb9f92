/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

const (
	DefaultHost               = "0.0.0.0"
	DefaultPort               = 5000
	DefaultTimeout            = "10s"
	DefaultLogLevel           = "INFO"
	DefaultReportIntervalSecs = 60
	DefaultConfigFile         = "res/configuration.toml"
)

type ServiceConfig struct {
	Host            string `toml:"Host" validate:"required"`
	Port            int    `toml:"Port" validate:"min=1,max=65535"`
	ReadTimeout     string `toml:"ReadTimeout" validate:"duration"`
	WriteTimeout    string `toml:"WriteTimeout" validate:"duration"`
	ShutdownTimeout string `toml:"ShutdownTimeout" validate:"duration"`
}

type WritableConfig struct {
	LogLevel string `toml:"LogLevel" validate:"oneof=TRACE DEBUG INFO WARN ERROR"`
}

// ArtifactConfig points at the three pre-fit artifacts loaded at startup.
type ArtifactConfig struct {
	MinMaxScalerPath   string `toml:"MinMaxScalerPath" validate:"required"`
	StandardScalerPath string `toml:"StandardScalerPath" validate:"required"`
	ClassifierPath     string `toml:"ClassifierPath" validate:"required"`
}

type TelemetryConfig struct {
	Enabled            bool `toml:"Enabled"`
	ReportIntervalSecs int  `toml:"ReportIntervalSecs" validate:"min=0"`
}

type CropAdvisorConfig struct {
	Service   ServiceConfig   `toml:"Service"`
	Writable  WritableConfig  `toml:"Writable"`
	Artifacts ArtifactConfig  `toml:"Artifacts"`
	Telemetry TelemetryConfig `toml:"Telemetry"`
}

func NewCropAdvisorConfig() *CropAdvisorConfig {
	cfg := new(CropAdvisorConfig)
	cfg.applyDefaults()
	return cfg
}

// LoadConfiguration reads the toml file, applies defaults and environment
// overrides, resolves artifact paths relative to the file and validates the result.
func LoadConfiguration(configFilePath string) (*CropAdvisorConfig, error) {
	tree, err := toml.LoadFile(configFilePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read configuration file %s", configFilePath)
	}

	cfg := new(CropAdvisorConfig)
	if err := tree.Unmarshal(cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse configuration file %s", configFilePath)
	}
	cfg.applyDefaults()

	if err := cfg.applyEnvOverrides(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.resolveArtifactPaths(filepath.Dir(configFilePath))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *CropAdvisorConfig) applyDefaults() {
	if cfg.Service.Host == "" {
		cfg.Service.Host = DefaultHost
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = DefaultPort
	}
	if cfg.Service.ReadTimeout == "" {
		cfg.Service.ReadTimeout = DefaultTimeout
	}
	if cfg.Service.WriteTimeout == "" {
		cfg.Service.WriteTimeout = DefaultTimeout
	}
	if cfg.Service.ShutdownTimeout == "" {
		cfg.Service.ShutdownTimeout = DefaultTimeout
	}
	if cfg.Writable.LogLevel == "" {
		cfg.Writable.LogLevel = DefaultLogLevel
	}
	if cfg.Telemetry.ReportIntervalSecs == 0 {
		cfg.Telemetry.ReportIntervalSecs = DefaultReportIntervalSecs
	}
}

// applyEnvOverrides follows the EdgeX convention of SECTION_KEY upper-cased names.
func (cfg *CropAdvisorConfig) applyEnvOverrides(lookup func(string) (string, bool)) error {
	var result *multierror.Error

	overrideString := func(key string, target *string) {
		if value, ok := lookup(key); ok && value != "" {
			*target = value
		}
	}
	overrideInt := func(key string, target *int) {
		if value, ok := lookup(key); ok && value != "" {
			converted, err := cast.ToIntE(value)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("invalid value %q for %s: %v", value, key, err))
				return
			}
			*target = converted
		}
	}
	overrideBool := func(key string, target *bool) {
		if value, ok := lookup(key); ok && value != "" {
			converted, err := cast.ToBoolE(value)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("invalid value %q for %s: %v", value, key, err))
				return
			}
			*target = converted
		}
	}

	overrideString("SERVICE_HOST", &cfg.Service.Host)
	overrideInt("SERVICE_PORT", &cfg.Service.Port)
	overrideString("SERVICE_READTIMEOUT", &cfg.Service.ReadTimeout)
	overrideString("SERVICE_WRITETIMEOUT", &cfg.Service.WriteTimeout)
	overrideString("SERVICE_SHUTDOWNTIMEOUT", &cfg.Service.ShutdownTimeout)
	overrideString("WRITABLE_LOGLEVEL", &cfg.Writable.LogLevel)
	overrideString("ARTIFACTS_MINMAXSCALERPATH", &cfg.Artifacts.MinMaxScalerPath)
	overrideString("ARTIFACTS_STANDARDSCALERPATH", &cfg.Artifacts.StandardScalerPath)
	overrideString("ARTIFACTS_CLASSIFIERPATH", &cfg.Artifacts.ClassifierPath)
	overrideBool("TELEMETRY_ENABLED", &cfg.Telemetry.Enabled)
	overrideInt("TELEMETRY_REPORTINTERVALSECS", &cfg.Telemetry.ReportIntervalSecs)

	return result.ErrorOrNil()
}

func (cfg *CropAdvisorConfig) resolveArtifactPaths(baseDir string) {
	resolve := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(baseDir, path)
	}
	cfg.Artifacts.MinMaxScalerPath = resolve(cfg.Artifacts.MinMaxScalerPath)
	cfg.Artifacts.StandardScalerPath = resolve(cfg.Artifacts.StandardScalerPath)
	cfg.Artifacts.ClassifierPath = resolve(cfg.Artifacts.ClassifierPath)
}

func (cfg *CropAdvisorConfig) Validate() error {
	validate := validator.New()
	_ = validate.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := time.ParseDuration(fl.Field().String())
		return err == nil
	})

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	var result *multierror.Error
	for _, fieldErr := range validationErrors {
		result = multierror.Append(result, fmt.Errorf("%s: failed on '%s' with value '%v'", fieldErr.Namespace(), fieldErr.Tag(), fieldErr.Value()))
	}
	return result.ErrorOrNil()
}

func (cfg *CropAdvisorConfig) ListenAddress() string {
	return fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.Port)
}

func (s ServiceConfig) ReadTimeoutDuration() time.Duration {
	return parseDurationOrDefault(s.ReadTimeout)
}

func (s ServiceConfig) WriteTimeoutDuration() time.Duration {
	return parseDurationOrDefault(s.WriteTimeout)
}

func (s ServiceConfig) ShutdownTimeoutDuration() time.Duration {
	return parseDurationOrDefault(s.ShutdownTimeout)
}

func (t TelemetryConfig) ReportInterval() time.Duration {
	return time.Duration(t.ReportIntervalSecs) * time.Second
}

func parseDurationOrDefault(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}
