package cli

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/olivier-w/dualtone/internal/dsp"
	"github.com/olivier-w/dualtone/internal/keypad"
	"github.com/olivier-w/dualtone/internal/visualizer"
)

type binReport struct {
	FrequencyHz int     `json:"frequency_hz" yaml:"frequency_hz"`
	Magnitude   float64 `json:"magnitude" yaml:"magnitude"`
}

type toneReport struct {
	Symbol     string      `json:"symbol" yaml:"symbol"`
	LowHz      float64     `json:"low_hz" yaml:"low_hz"`
	HighHz     float64     `json:"high_hz" yaml:"high_hz"`
	LowPeakHz  int         `json:"low_peak_hz" yaml:"low_peak_hz"`
	HighPeakHz int         `json:"high_peak_hz" yaml:"high_peak_hz"`
	Samples    int         `json:"samples" yaml:"samples"`
	Points     int         `json:"waveform_points" yaml:"waveform_points"`
	Spectrum   []binReport `json:"spectrum,omitempty" yaml:"spectrum,omitempty"`
}

func newToneCmd(o *options) *cobra.Command {
	var showSpectrum bool
	cmd := &cobra.Command{
		Use:   "tone SYMBOL",
		Short: "Show the tone pair and spectral peaks of one key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, size := utf8.DecodeRuneInString(args[0])
			if size != len(args[0]) {
				return fmt.Errorf("%w: %q", keypad.ErrUnknownSymbol, args[0])
			}
			key, err := keypad.Find(r)
			if err != nil {
				return err
			}

			display := o.cfg.Display
			t, raw, err := visualizer.Build(key.Pair(), display.Duration.Seconds(), display.Periods, display.MaxFreqHz)
			if err != nil {
				return err
			}
			low, high, _ := t.BandPeaks()

			report := toneReport{
				Symbol:     key.String(),
				LowHz:      t.Pair.Low,
				HighHz:     t.Pair.High,
				LowPeakHz:  low,
				HighPeakHz: high,
				Samples:    len(raw),
				Points:     len(t.Waveform),
			}
			if showSpectrum {
				report.Spectrum = make([]binReport, len(t.Spectrum))
				for i, b := range t.Spectrum {
					report.Spectrum[i] = binReport(b)
				}
			}

			return o.render(cmd.OutOrStdout(), report, func(w io.Writer) error {
				if _, err := fmt.Fprintf(w, "%s: %g Hz + %g Hz, peaks at %d Hz and %d Hz (%d-point transform, %.2f Hz bins)\n",
					report.Symbol, report.LowHz, report.HighHz, low, high,
					dsp.TransformSize, dsp.BinHz(dsp.SampleRate, dsp.TransformSize)); err != nil {
					return err
				}
				for _, b := range report.Spectrum {
					if b.Magnitude < 0.01 {
						continue
					}
					if _, err := fmt.Fprintf(w, "  %5d Hz  %.3f\n", b.FrequencyHz, b.Magnitude); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.BoolVar(&showSpectrum, "spectrum", false, "include the spectrum bins")
	f.Int("periods", 3, "low-tone periods kept in the waveform")
	f.Float64("max-freq", dsp.MaxDisplayFreq, "spectrum cut-off in Hz")
	bindKey(f, "periods", "display.periods")
	bindKey(f, "max-freq", "display.max_freq_hz")
	return cmd
}
