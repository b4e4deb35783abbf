package server

import (
	"flag"
	"net/http"

	"github.com/iov-one/custody/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

type startArgs struct {
	bind    string
	debug   bool
	metrics string
}

func parseFlags(args []string) (startArgs, error) {
	var res startArgs
	startFlags := flag.NewFlagSet("start", flag.ExitOnError)
	startFlags.StringVar(&res.bind, flagBind, "tcp://localhost:26658", "address server listens on")
	startFlags.BoolVar(&res.debug, flagDebug, false, "call stack returned on error")
	startFlags.StringVar(&res.metrics, flagMetrics, "", "address to serve prometheus metrics on, disabled if empty")
	err := startFlags.Parse(args)
	return res, err
}

// StartCmd initializes the application and serves it over the abci socket
// until the process is terminated.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	flags, err := parseFlags(args)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}

	// Generate the app in the proper dir
	app, err := gen(&Options{
		Home:     home,
		Logger:   logger,
		Debug:    flags.debug,
		Registry: prometheus.DefaultRegisterer,
	})
	if err != nil {
		return err
	}

	if flags.metrics != "" {
		go serveMetrics(logger, flags.metrics)
	}

	logger.Info("Starting ABCI app", "bind", flags.bind)
	svr, err := server.NewServer(flags.bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidArgument, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrInvalidState, "cannot start server: %s", err)
	}

	cmn.TrapSignal(logger, func() {
		// Cleanup
		if err := svr.Stop(); err != nil {
			logger.Error("Cannot stop server", "err", err)
		}
	})

	// Run forever.
	select {}
}

func serveMetrics(logger log.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("Serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server failed", "err", err)
	}
}
