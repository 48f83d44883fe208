package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/stockpile/internal/export"
	"github.com/mesh-intelligence/stockpile/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envFileName    = ".env"
	envPrefix      = "STOCKPILE"

	cfgKeyDataDir      = "data_dir"
	cfgKeyLogLevel     = "log_level"
	cfgKeyLogFormat    = "log_format"
	cfgKeyHistoryLimit = "history_limit"
	cfgKeySeedSamples  = "seed_samples"
	cfgKeyCSVDelimiter = "csv_delimiter"
	cfgKeyCSVBOM       = "csv_bom"
	cfgKeyServeAddr    = "serve_addr"

	defaultServeAddr = "127.0.0.1:8087"
)

// configFile is the structure init writes to config.yaml.
type configFile struct {
	DataDir      string `yaml:"data_dir,omitempty"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	HistoryLimit int    `yaml:"history_limit"`
	SeedSamples  bool   `yaml:"seed_samples"`
	CSVDelimiter string `yaml:"csv_delimiter"`
	CSVBOM       bool   `yaml:"csv_bom"`
	ServeAddr    string `yaml:"serve_addr"`
}

func defaultConfigFile() configFile {
	return configFile{
		LogLevel:     "info",
		LogFormat:    "text",
		HistoryLimit: types.DefaultHistoryLimit,
		SeedSamples:  true,
		CSVDelimiter: ";",
		CSVBOM:       true,
		ServeAddr:    defaultServeAddr,
	}
}

// loadConfig reads config.yaml from configDir. A missing directory or file
// is not an error. Values from a .env file in configDir and from STOCKPILE_*
// environment variables override the file.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := loadEnvFile(filepath.Join(configDir, envFileName)); err != nil {
		return nil, err
	}

	v := viper.New()
	d := defaultConfigFile()
	v.SetDefault(cfgKeyLogLevel, d.LogLevel)
	v.SetDefault(cfgKeyLogFormat, d.LogFormat)
	v.SetDefault(cfgKeyHistoryLimit, d.HistoryLimit)
	v.SetDefault(cfgKeySeedSamples, d.SeedSamples)
	v.SetDefault(cfgKeyCSVDelimiter, d.CSVDelimiter)
	v.SetDefault(cfgKeyCSVBOM, d.CSVBOM)
	v.SetDefault(cfgKeyServeAddr, d.ServeAddr)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// loadEnvFile applies KEY=VALUE pairs from path without overriding
// variables already set in the environment.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// writeConfigIfMissing creates config.yaml with default values. An existing
// file is left untouched.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := defaultConfigFile()
	cfg.DataDir = dataDir
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := "# stockpile configuration. STOCKPILE_<KEY> environment variables override these values.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// csvOptions reads the CSV dialect from configuration.
func (a *app) csvOptions() (export.CSVOptions, error) {
	opts := export.CSVOptions{BOM: a.cfg.GetBool(cfgKeyCSVBOM)}
	delim := []rune(a.cfg.GetString(cfgKeyCSVDelimiter))
	switch {
	case len(delim) == 0:
		opts.Delimiter = ';'
	case len(delim) == 1 && !strings.ContainsRune("\"\r\n", delim[0]):
		opts.Delimiter = delim[0]
	default:
		return opts, fmt.Errorf("invalid csv_delimiter %q", string(delim))
	}
	return opts, nil
}
