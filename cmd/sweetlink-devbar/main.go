// Command sweetlink-devbar is a standalone, headless-Chrome-backed
// reference implementation of the Browser Bridge (spec.md §4.E): instead
// of running inside an actual browser tab's JavaScript runtime, it drives
// one via go-rod, so the rest of the Sweetlink stack can be exercised
// end-to-end (and scripted in CI) without a real developer's browser
// attached. Ground: the cobra `serve`-style entrypoint of
// _examples/tomasbasham-har-capture/internal/cmd/serve.go.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sweetlink/sweetlink/devbar"
	"github.com/sweetlink/sweetlink/devbar/handlers"
	"github.com/sweetlink/sweetlink/internal/applog"
)

var log = applog.For("sweetlink-devbar")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	appPort int
	pageURL string
}

func newRootCommand() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:           "sweetlink-devbar",
		Short:         "Run a headless-browser Sweetlink peer against a running app",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run()
		},
	}
	cmd.Flags().IntVarP(&o.appPort, "app-port", "p", 3000, "app server port to connect against")
	cmd.Flags().StringVarP(&o.pageURL, "url", "u", "", "page URL to open (defaults to http://localhost:<app-port>/)")
	return cmd
}

func (o *options) run() error {
	pageURL := o.pageURL
	if pageURL == "" {
		pageURL = fmt.Sprintf("http://localhost:%d/", o.appPort)
	}

	host, err := handlers.NewRodHost(pageURL)
	if err != nil {
		return fmt.Errorf("sweetlink-devbar: launch browser: %w", err)
	}

	client := devbar.New(o.appPort, host, handlers.BuildTable())
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infof("driving %s, scanning for the bridge near app port %d", pageURL, o.appPort)
	client.Run(ctx)

	return client.Close()
}
