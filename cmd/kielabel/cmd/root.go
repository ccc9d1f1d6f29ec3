package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/MeKo-Tech/kielabel/internal/config"
	"github.com/MeKo-Tech/kielabel/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds the state shared by one command tree: the configuration loader
// and the configuration it resolved for the running command.
type app struct {
	cfgFile string
	loader  *config.Loader
	cfg     *config.Config
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = NewRootCommand()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes.
// This allows tests to execute commands without calling os.Exit().
func GetRootCommand() *cobra.Command {
	return rootCmd
}

// NewRootCommand builds a fresh command tree with its own configuration
// state, so that repeated in-process runs do not see each other's flags.
func NewRootCommand() *cobra.Command {
	a := &app{loader: config.NewLoaderWith(viper.New())}

	cmd := &cobra.Command{
		Use:   "kielabel",
		Short: "Key information extraction labelling for vehicle certificate annotations",
		Long: `kielabel enriches PPOCRLabel annotation files with key classes for
key information extraction (KIE) training on vehicle certificates.

It finds printed field labels such as "车辆型号" in each record, picks the value
boxes on the same row to their right, and writes the record back with key_cls
set on every value. Companion commands validate, filter and repair label files,
fix EXIF orientation of the images, and render review overlays.

Examples:
  kielabel assign dataset/Label.txt
  kielabel assign dataset/ --format json --report summary.json
  kielabel check dataset/Label.txt --lang en
  kielabel filter dataset/
  kielabel orient dataset/images`,
		Version: version.String(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "",
		"config file (default is search in ., $HOME, $HOME/.config/kielabel, /etc/kielabel)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	v := a.loader.GetViper()
	_ = v.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose"))
	_ = v.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := a.initConfig(); err != nil {
			return err
		}
		setupLogging(cmd.ErrOrStderr(), a.cfg)
		return nil
	}

	cmd.AddCommand(
		newAssignCommand(a),
		newCheckCommand(a),
		newFilterCommand(a),
		newFixDifficultCommand(),
		newFixPlaceholderCommand(a),
		newOrientCommand(a),
		newOverlayCommand(a),
		newCatalogueCommand(a),
		newConfigCommand(a),
	)

	return cmd
}

// initConfig reads in config file and ENV variables if set.
func (a *app) initConfig() error {
	cfg, err := a.loader.LoadWithFile(a.cfgFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	a.cfg = cfg
	return nil
}

// setupLogging installs a JSON slog handler at the configured level.
// Logs go to stderr; stdout carries reports.
func setupLogging(w io.Writer, cfg *config.Config) {
	var logLevel slog.Level

	// --verbose wins over --log-level
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	} else {
		switch cfg.LogLevel {
		case "debug":
			logLevel = slog.LevelDebug
		case "info":
			logLevel = slog.LevelInfo
		case "warn":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		default:
			logLevel = slog.LevelInfo
		}
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}
