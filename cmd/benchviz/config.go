package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "BENCHVIZ"

// Configuration keys. Each is also a persistent flag of the root command
// and can be set through BENCHVIZ_<KEY> with dashes replaced by
// underscores.
const (
	keyConfig     = "config"
	keyRoot       = "root"
	keyResultsDir = "results-dir"
	keyOutputDir  = "output-dir"
	keyFormat     = "format"
	keyDPI        = "dpi"
	keyLogLevel   = "log-level"
)

func addPersistentFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String(keyConfig, "",
		"Path to a config file (default: ./benchviz.yaml if present)")
	flags.String(keyRoot, ".",
		"Project root that relative directories resolve against")
	flags.String(keyResultsDir, "results",
		"Directory holding the benchmark result CSVs")
	flags.String(keyOutputDir, filepath.Join("writeup", "images"),
		"Directory the figures are written to")
	flags.String(keyFormat, "png",
		"Figure format: png, jpg, tiff, svg, pdf, eps")
	flags.Int(keyDPI, 200,
		"Resolution of raster figures")
	flags.String(keyLogLevel, "info",
		"Log level: debug, info, warn, error")
}

// loadConfig layers flags over environment over the config file.
func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}

		return nil
	}

	v.SetConfigName("benchviz")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

// settings is the resolved configuration shared by every command.
type settings struct {
	resultsDir string
	outputDir  string
	format     string
	dpi        int
	logLevel   string
}

func resolveSettings(v *viper.Viper) settings {
	root := v.GetString(keyRoot)

	return settings{
		resultsDir: resolvePath(root, v.GetString(keyResultsDir)),
		outputDir:  resolvePath(root, v.GetString(keyOutputDir)),
		format:     v.GetString(keyFormat),
		dpi:        v.GetInt(keyDPI),
		logLevel:   v.GetString(keyLogLevel),
	}
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) || root == "" {
		return path
	}

	return filepath.Join(root, path)
}

func setLogLevel(level *slog.LevelVar, name string) error {
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}

	return nil
}
