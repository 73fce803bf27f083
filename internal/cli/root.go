// Package cli wires the dualtone commands: the keypad TUI, the HTTP service
// and the one-shot encode, decode and tone tools.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/olivier-w/dualtone/internal/config"
	"github.com/olivier-w/dualtone/internal/logging"
)

// configKey is the flag annotation naming the viper key a flag overrides.
const configKey = "dualtone_config_key"

// ownsTerminal marks commands that draw on the terminal and must not log to it.
const ownsTerminal = "dualtone_owns_terminal"

// options is the state shared by every command after flags are parsed.
type options struct {
	configFile string
	format     string

	cfg *config.Config
	log *zap.Logger
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Without a subcommand it opens the keypad.
func NewRootCmd() *cobra.Command {
	o := &options{log: zap.NewNop()}

	keypadCmd := newKeypadCmd(o)
	root := &cobra.Command{
		Use:   "dualtone",
		Short: "DTMF keypad, encoder and decoder",
		Long: `dualtone synthesizes and analyzes DTMF dual tones.

Run without a command to open the interactive keypad. Every key press plays
its tone pair and charts the waveform and spectrum; a recording session
writes the pressed keys to a WAV file.

Examples:
  # Encode a sequence and decode it again
  dualtone encode "123A#" -o call.wav
  dualtone decode call.wav --format json

  # Inspect the spectrum of one key
  dualtone tone 5 --spectrum

  # Serve the HTTP API
  dualtone serve --addr :9000`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Annotations:       map[string]string{ownsTerminal: "true"},
		PersistentPreRunE: o.initialize,
		PersistentPostRun: func(*cobra.Command, []string) { _ = o.log.Sync() },
		RunE:              keypadCmd.RunE,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configFile, "config", "",
		"config file (default is ./dualtone.yaml or $HOME/.config/dualtone/dualtone.yaml)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console, json)")
	pf.StringVarP(&o.format, "format", "f", "text", "output format (text, json, yaml)")
	bindKey(pf, "log-level", "log.level")
	bindKey(pf, "log-format", "log.format")

	root.AddCommand(
		keypadCmd,
		newServeCmd(o),
		newEncodeCmd(o),
		newDecodeCmd(o),
		newToneCmd(o),
	)
	return root
}

// bindKey records which config key flag overrides; bindFlags applies it.
func bindKey(fs *pflag.FlagSet, flag, key string) {
	if err := fs.SetAnnotation(flag, configKey, []string{key}); err != nil {
		panic(err)
	}
}

// bindFlags binds each annotated flag to its viper key, so a flag set on the
// command line wins over the environment and the config file.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		keys, ok := f.Annotations[configKey]
		if !ok || len(keys) == 0 {
			return
		}
		if err := v.BindPFlag(keys[0], f); err != nil {
			lastErr = err
		}
	})
	return lastErr
}

// initialize loads configuration after flags are parsed.
func (o *options) initialize(cmd *cobra.Command, _ []string) error {
	switch o.format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", o.format)
	}

	v, err := config.NewViper(o.configFile)
	if err != nil {
		return err
	}
	if err := bindFlags(cmd, v); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	o.cfg = cfg

	if cmd.Annotations[ownsTerminal] == "true" {
		// the keypad opens its own log file, if any
		return nil
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	o.log = logger
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", zap.String("path", used))
	}
	return nil
}
