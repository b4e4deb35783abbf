package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/custody"
	custodyd "github.com/iov-one/custody/cmd/custodyd/app"
	"github.com/iov-one/custody/commands"
	"github.com/iov-one/custody/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome     = "home"
	flagLogLevel = "log_level"
	varHome      *string
	varLogLevel  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".custody")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")
	varLogLevel = flag.String(flagLogLevel, "info", "minimum level of the logs: debug, info, error or none")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("custodyd")
	fmt.Println("          Token escrow node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server")
	fmt.Println("keys      Generate, show or derive account keys")
	fmt.Println("derive    Print escrow and holding addresses")
	fmt.Println("getblock  Extract a block from blockchain.db")
	fmt.Println("validate  Check the app_state of genesis files")
	fmt.Println("testgen   Write example encodings to a directory")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.custody")
  -log_level string
        minimum level of the logs (default "info")`)
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	level, err := log.AllowLevel(*varLogLevel)
	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		os.Exit(1)
	}
	logger := log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stdout)), level).
		With("module", "custody")

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(custodyd.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(custodyd.GenerateApp, logger, *varHome, rest)
	case "keys":
		err = commands.KeysCmd(os.Stdout, rest)
	case "derive":
		err = commands.DeriveCmd(os.Stdout, rest)
	case "getblock":
		err = server.GetBlockCmd(os.Stdout, rest)
	case "validate":
		err = server.ValidateGenesis(custodyd.Initializers(), rest)
	case "testgen":
		err = commands.TestGenCmd(custodyd.Examples(), rest)
	case "version":
		fmt.Println(custody.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}
