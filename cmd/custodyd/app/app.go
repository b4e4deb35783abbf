/*
Package app links together all the various components
to construct the custodyd app.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store/iavl"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
	"github.com/iov-one/custody/x/system"
	"github.com/iov-one/custody/x/token"
	"github.com/iov-one/custody/x/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery
func Chain(metrics utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		utils.NewKeyTagger(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the instruction fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to the system, token, holding and
// escrow programs.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	sys := system.NewController(authFn)
	tok := token.NewController(authFn, sys)
	system.RegisterRoutes(r, authFn, sys)
	token.RegisterRoutes(r, authFn, tok)
	escrow.RegisterRoutes(r, authFn, sys, tok)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/accounts", "/mints", "/holdings", "/escrows" and
// "/auth"
func QueryRouter() custody.QueryRouter {
	r := custody.NewQueryRouter()
	r.RegisterAll(
		system.RegisterQuery,
		token.RegisterQuery,
		escrow.RegisterQuery,
		sigs.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp. Metrics are registered with reg.
func Stack(reg prometheus.Registerer) (custody.Handler, error) {
	metrics, err := utils.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	authFn := Authenticator()
	return Chain(metrics).WithHandler(Router(authFn)), nil
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h custody.Handler,
	tx custody.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (custody.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
