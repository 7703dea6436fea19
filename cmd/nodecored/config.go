// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"

	"github.com/grinpp-go/nodecore/chaincfg"
	"github.com/grinpp-go/nodecore/chaincontext"
	flog "github.com/grinpp-go/nodecore/log"
)

// config defines nodecored's command-line and config-file options, the same
// jessevdk/go-flags struct-tag style cmd/flokicoind-cli/config.go uses.
type config struct {
	DataDir        string `short:"b" long:"datadir" description:"Directory to store chain data"`
	Floonet        bool   `long:"floonet" description:"Connect to floonet, the public test network"`
	AutomatedTest  bool   `long:"automatedtesting" description:"Run against the automated-testing network"`
	LogDir         string `long:"logdir" description:"Directory to log output"`
	LogLevel       string `long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical}" default:"info"`
	MinPeers       int    `long:"minpeers" description:"Minimum number of peers to maintain" default:"8"`
	MaxPeers       int    `long:"maxpeers" description:"Maximum number of peers to maintain" default:"64"`
	ShowVersion    bool   `short:"V" long:"version" description:"Display version information and exit"`
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".nodecored", "data")
}

func defaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".nodecored", "logs")
}

// loadConfig parses command-line flags (and, via go-flags' default INI
// support, a config file if pointed at one) into a config, applying the
// same "sane defaults, CLI overrides" precedence as the teacher's
// loadConfig.
func loadConfig() (*config, error) {
	cfg := config{
		DataDir: defaultDataDir(),
		LogDir:  defaultLogDir(),
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		return nil, err
	}

	if cfg.ShowVersion {
		fmt.Println(filepath.Base(os.Args[0]), "version", version())
		os.Exit(0)
	}

	return &cfg, nil
}

// network resolves the --floonet/--automatedtesting flags (mainnet is the
// default, matching the teacher's own "no flag means mainnet" convention).
func (c *config) network() chaincfg.Network {
	switch {
	case c.Floonet:
		return chaincfg.Floonet
	case c.AutomatedTest:
		return chaincfg.AutomatedTesting
	default:
		return chaincfg.Mainnet
	}
}

// buildContext turns a parsed config into a validated chaincontext.Context.
func (c *config) buildContext() (*chaincontext.Context, error) {
	level, ok := flog.LevelFromString(c.LogLevel)
	if !ok {
		return nil, fmt.Errorf("invalid --loglevel %q", c.LogLevel)
	}

	ctx, err := chaincontext.New(c.DataDir, c.network(), c.MinPeers, c.MaxPeers)
	if err != nil {
		return nil, err
	}

	logWriter, err := initLogRotator(filepath.Join(c.LogDir, defaultLogFilename))
	if err != nil {
		return nil, fmt.Errorf("initializing log rotator: %w", err)
	}
	backend := flog.NewBackend(logWriter)
	useLoggers(backend, level)
	ctx.UseLogger(backend.Logger("NODE"))

	return ctx, nil
}

func version() string {
	return "0.1.0"
}
