package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olivier-w/dualtone/internal/codec"
	"github.com/olivier-w/dualtone/internal/keypad"
	"github.com/olivier-w/dualtone/internal/util"
)

type encodeReport struct {
	File     string  `json:"file" yaml:"file"`
	Symbols  string  `json:"symbols" yaml:"symbols"`
	Bytes    int     `json:"bytes" yaml:"bytes"`
	Duration float64 `json:"duration_s" yaml:"duration_s"`
}

func newEncodeCmd(o *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "encode TEXT...",
		Short: "Write a keypad sequence as a WAV file",
		Long: `Write a keypad sequence as a 16-bit mono WAV file.

Arguments are joined and whitespace is ignored, so "12 34" and 1234 encode the
same sequence. Letters are case-insensitive. Without --output the file is
named dtmf_<first ten symbols>.wav; "-" writes to standard output.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbols, err := keypad.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(symbols) == 0 {
				return codec.ErrNoSymbols
			}

			enc, err := codec.NewEncoder(o.cfg.Codec.Options())
			if err != nil {
				return err
			}
			data, err := enc.EncodeWAV(string(symbols))
			if err != nil {
				return err
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if out == "" {
				out = codec.FileName(symbols)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}

			length := enc.Length(len(symbols))
			o.log.Debug("encoded", zap.String("file", out), zap.Int("symbols", len(symbols)))

			report := encodeReport{
				File:     out,
				Symbols:  string(symbols),
				Bytes:    len(data),
				Duration: length.Seconds(),
			}
			return o.render(cmd.OutOrStdout(), report, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "wrote %s (%d symbols, %s)\n",
					report.File, len(symbols), util.FormatDuration(length))
				return err
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&out, "output", "o", "", `output file ("-" for stdout)`)
	f.Duration("tone", 100*time.Millisecond, "length of each tone")
	f.Duration("gap", 50*time.Millisecond, "silence between tones")
	bindKey(f, "tone", "codec.tone_duration")
	bindKey(f, "gap", "codec.gap_duration")
	return cmd
}
