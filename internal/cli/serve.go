package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/olivier-w/dualtone/internal/server"
)

func newServeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP encode/decode service",
		Long: `Run the HTTP service.

Routes:
  POST /encode            form field "text", returns audio/wav
  POST /decode            multipart field "file", returns the decoded sequence
  GET  /tone/{symbol}     waveform and spectrum of one key
  GET  /ws                websocket: send {"symbol":"5"}, receive tone frames
  GET  /decode/inflight   decodes in progress
  GET  /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(o.cfg, o.log)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}

	f := cmd.Flags()
	f.String("addr", ":8080", "listen address")
	f.Duration("decode-timeout", 10*time.Second, "per-request decode timeout")
	f.Int("max-concurrent-decodes", 4, "decodes allowed to run at once")
	f.Int64("max-upload-bytes", 10<<20, "largest accepted upload")
	f.Bool("mdns", false, "advertise the service over mDNS")
	bindKey(f, "addr", "server.addr")
	bindKey(f, "decode-timeout", "server.decode_timeout")
	bindKey(f, "max-concurrent-decodes", "server.max_concurrent_decodes")
	bindKey(f, "max-upload-bytes", "server.max_upload_bytes")
	bindKey(f, "mdns", "server.mdns.enabled")
	return cmd
}
