package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olivier-w/dualtone/internal/codec"
	"github.com/olivier-w/dualtone/internal/media"
)

type detectionReport struct {
	Symbol string  `json:"symbol" yaml:"symbol"`
	Start  float64 `json:"start_s" yaml:"start_s"`
	LowHz  int     `json:"low_hz" yaml:"low_hz"`
	HighHz int     `json:"high_hz" yaml:"high_hz"`
}

type decodeReport struct {
	File       string            `json:"file" yaml:"file"`
	Format     media.Format      `json:"format" yaml:"format"`
	SampleRate int               `json:"sample_rate" yaml:"sample_rate"`
	Channels   int               `json:"channels" yaml:"channels"`
	Duration   float64           `json:"duration_s" yaml:"duration_s"`
	Title      string            `json:"title,omitempty" yaml:"title,omitempty"`
	Text       string            `json:"decoded_text" yaml:"decoded_text"`
	Found      bool              `json:"found" yaml:"found"`
	Windows    int               `json:"windows" yaml:"windows"`
	Detections []detectionReport `json:"detections" yaml:"detections"`
}

func newDecodeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode FILE",
		Short: "Recover a keypad sequence from an audio file",
		Long: `Recover a keypad sequence from a WAV, FLAC, MP3 or OGG Vorbis file.

Only the first channel is analyzed. A file without any detectable sequence is
not an error: found is false and decoded_text is empty.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			clip, err := codec.Read(f, path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			dec, err := codec.NewDecoder(o.cfg.Decode.Options())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			res, err := dec.Decode(ctx, clip)
			if err != nil {
				return err
			}
			o.log.Debug("decoded",
				zap.String("file", path),
				zap.String("format", string(clip.Format)),
				zap.Int("windows", res.Windows))

			report := decodeReport{
				File:       path,
				Format:     clip.Format,
				SampleRate: clip.SampleRate,
				Channels:   clip.Channels,
				Duration:   clip.Duration().Seconds(),
				Title:      clip.Title,
				Text:       res.Text,
				Found:      res.Found(),
				Windows:    res.Windows,
				Detections: make([]detectionReport, 0, len(res.Detections)),
			}
			for _, d := range res.Detections {
				report.Detections = append(report.Detections, detectionReport(d))
			}
			return o.render(cmd.OutOrStdout(), report, func(w io.Writer) error {
				if !report.Found {
					_, err := fmt.Fprintln(w, "no DTMF sequence found")
					return err
				}
				if _, err := fmt.Fprintln(w, report.Text); err != nil {
					return err
				}
				for _, d := range report.Detections {
					if _, err := fmt.Fprintf(w, "  %s  %7.3fs  %4d Hz + %4d Hz\n", d.Symbol, d.Start, d.LowHz, d.HighHz); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.Int("min-run", 2, "consecutive windows needed to accept a symbol")
	f.Float64("tolerance", 25, "max distance from a keypad tone in Hz")
	f.Float64("min-peak", 0.25, "minimum normalized magnitude of each tone")
	bindKey(f, "min-run", "decode.min_run")
	bindKey(f, "tolerance", "decode.tolerance_hz")
	bindKey(f, "min-peak", "decode.min_peak")
	return cmd
}
