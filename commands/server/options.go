package server

import (
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Options are the values an application is built from.
type Options struct {
	// Home is the directory holding the application data. An empty home
	// keeps everything in memory.
	Home   string
	Logger log.Logger
	// Debug returns full error details to the client.
	Debug bool
	// Registry collects the application metrics.
	Registry prometheus.Registerer
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)
