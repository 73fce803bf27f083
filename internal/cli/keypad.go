package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olivier-w/dualtone/internal/codec"
	"github.com/olivier-w/dualtone/internal/dsp"
	"github.com/olivier-w/dualtone/internal/logging"
	"github.com/olivier-w/dualtone/internal/player"
	"github.com/olivier-w/dualtone/internal/ui"
	"github.com/olivier-w/dualtone/internal/visualizer"
)

func newKeypadCmd(o *options) *cobra.Command {
	var (
		saveDir string
		logFile string
		noAudio bool
	)
	cmd := &cobra.Command{
		Use:   "keypad",
		Short: "Open the interactive DTMF keypad",
		Long: `Open the interactive DTMF keypad.

Keys 0-9, A-D, * and # play their tone pair. "/" and "-" also map to * and #
for numeric keypads. Enter starts and stops a recording session; the
recorded keys are written to dtmf_<keys>.wav in the save directory.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{ownsTerminal: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := zap.NewNop()
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				defer f.Close()
				if logger, err = logging.NewWriter(f, o.cfg.Log.Level); err != nil {
					return err
				}
				defer logger.Sync()
			}

			enc, err := codec.NewEncoder(o.cfg.Codec.Options())
			if err != nil {
				return err
			}

			var p ui.Player
			if o.cfg.Player.Enabled && !noAudio {
				pl, err := player.New(dsp.SampleRate, o.cfg.Player.Volume)
				if err != nil {
					logger.Warn("audio output unavailable", zap.Error(err))
				} else {
					defer pl.Close()
					p = pl
				}
			}

			model := ui.New(p, enc, ui.Settings{
				Duration: o.cfg.Display.Duration.Seconds(),
				Periods:  o.cfg.Display.Periods,
				MaxFreq:  o.cfg.Display.MaxFreqHz,
				SaveDir:  saveDir,
			}, visualizer.DetectProfile())

			logger.Info("keypad started", zap.Bool("audio", p != nil), zap.String("save_dir", saveDir))
			prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := prog.Run(); err != nil {
				return fmt.Errorf("keypad: %w", err)
			}
			logger.Info("keypad closed")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&saveDir, "save-dir", ".", "directory for recorded sequences")
	f.StringVar(&logFile, "log-file", "", "append JSON logs to this file")
	f.BoolVar(&noAudio, "no-audio", false, "do not open the audio device")
	f.Float64("volume", 0.8, "playback volume (0-1)")
	f.Int("periods", 3, "low-tone periods shown in the waveform chart")
	bindKey(f, "volume", "player.volume")
	bindKey(f, "periods", "display.periods")
	return cmd
}
