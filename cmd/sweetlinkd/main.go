// Command sweetlinkd is the Sweetlink bridge daemon: it port-hunts a
// WebSocket listener next to a running dev server, classifies CLI and
// browser peers, forwards their commands, and persists artifacts the
// browser saves. Ground: the `serve` command shape of
// _examples/tomasbasham-har-capture/internal/cmd/serve.go (cobra RunE +
// signal.NotifyContext graceful shutdown), adapted from an HAR capture
// server to the bridge's own port-hunt/listen lifecycle.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sweetlink/sweetlink/internal/applog"
	"github.com/sweetlink/sweetlink/internal/bridge"
	"github.com/sweetlink/sweetlink/internal/config"
	"github.com/sweetlink/sweetlink/internal/diag"
)

var log = applog.For("sweetlinkd")

const shutdownGrace = 5 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type serveOptions struct {
	appPort     int
	projectRoot string
}

func newRootCommand() *cobra.Command {
	o := &serveOptions{}

	cmd := &cobra.Command{
		Use:           "sweetlinkd",
		Short:         "Run the Sweetlink development bridge daemon",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run()
		},
	}

	cmd.Flags().IntVarP(&o.appPort, "port", "p", 3000, "app server port the bridge listens next to")
	cmd.Flags().StringVar(&o.projectRoot, "project-root", "", "project root artifacts are written under (defaults to cwd)")

	return cmd
}

func (o *serveOptions) run() error {
	cfg, err := config.Load(o.appPort, o.projectRoot)
	if err != nil {
		return fmt.Errorf("sweetlinkd: load config: %w", err)
	}
	applog.SetDebug(config.DebugEnabled())

	stopDiag := diag.Start(config.DebugEnabled())
	defer stopDiag()
	if config.DebugEnabled() {
		log.Infof("%s", diag.Report(os.Getpid()))
	}

	b, err := bridge.Listen(cfg, nil)
	if err != nil {
		return fmt.Errorf("sweetlinkd: listen: %w", err)
	}
	log.Infof("listening on ws://127.0.0.1:%d (app port %d, project root %s)", b.Config.WSPort, cfg.AppPort, cfg.ProjectRoot)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return b.Shutdown(shutdownCtx)
}
