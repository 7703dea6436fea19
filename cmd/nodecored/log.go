// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/jrick/logrotate/rotator"

	flog "github.com/grinpp-go/nodecore/log"

	"github.com/grinpp-go/nodecore/blockprocessor"
	"github.com/grinpp-go/nodecore/chaindb"
	"github.com/grinpp-go/nodecore/chainstore"
	"github.com/grinpp-go/nodecore/mmr"
	"github.com/grinpp-go/nodecore/pow"
	"github.com/grinpp-go/nodecore/txhashset"
	"github.com/grinpp-go/nodecore/txpool"
	"github.com/grinpp-go/nodecore/validation"
)

// logRotator is the rotating log file writer every package's logger backend
// writes through, along with stdout. Closed on shutdown in main.
var logRotator *rotator.Rotator

const (
	// defaultLogFilename is the log file name inside LogDir.
	defaultLogFilename = "nodecored.log"

	// defaultMaxLogSizeKB and defaultMaxLogRolls mirror the teacher's own
	// btcsuite-style rotation policy: rotate at 10 MiB, keep 3 backups.
	defaultMaxLogSizeKB = 10 * 1024
	defaultMaxLogRolls  = 3
)

// initLogRotator creates the rotating log file at logFile and returns an
// io.Writer that fans every write out to both it and stdout, the same
// dual-sink pattern the teacher's daemon log.go uses.
func initLogRotator(logFile string) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(logFile), 0700); err != nil {
		return nil, err
	}
	logRotator = rotator.New(logFile, defaultMaxLogSizeKB, false, defaultMaxLogRolls)
	return io.MultiWriter(os.Stdout, logRotator), nil
}

// useLoggers wires backend, at level, into every leaf package's per-package
// logger, exactly the fan-out cmd/flokicoind-cli's daemon equivalent does
// for blockchain/mempool/netsync/etc in the teacher.
func useLoggers(backend *flog.Backend, level flog.Level) {
	set := func(l flog.Logger) flog.Logger {
		l.SetLevel(level)
		return l
	}

	mmr.UseLogger(set(backend.Logger("MMR ")))
	chaindb.UseLogger(set(backend.Logger("CHDB")))
	chainstore.UseLogger(set(backend.Logger("CSTR")))
	txhashset.UseLogger(set(backend.Logger("THSH")))
	validation.UseLogger(set(backend.Logger("VLDN")))
	blockprocessor.UseLogger(set(backend.Logger("BPRC")))
	txpool.UseLogger(set(backend.Logger("TXPL")))
	pow.UseLogger(set(backend.Logger("POW ")))
}
