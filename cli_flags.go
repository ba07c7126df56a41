// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/peterbourgon/ff/v3"
)

const (
	// Default values for CLI flags
	defaultArgProducers         = 4
	defaultArgEventsPerProducer = 100000
	defaultArgTargetRatio       = 0.8
	defaultArgCacheSize         = 1024
	defaultArgMonitorInterval   = 5 * time.Second
	defaultArgStatsInterval     = 10 * time.Second
	defaultClockSyncInterval    = 3 * time.Minute
)

// Help strings for command line arguments
var (
	producersHelp = "Number of concurrent synthetic producers feeding the index."
	eventsHelp    = "Number of tracepoint events each producer generates."
	targetRatioHelp = "Fraction [0..1] of generated events attributed to the " +
		"simulated target process; the rest is generated as foreign-process load."
	cacheSizeHelp       = "Size of the tracepoint definition cache."
	monitorIntervalHelp = "Set the monitor interval in seconds."
	statsIntervalHelp   = "Set the interval for logging capture statistics."
	clockSyncIntervalHelp = "Set the sync interval with the realtime clock. " +
		"If zero, monotonic-realtime clock sync will be performed once, " +
		"on startup, but not periodically."
	verboseModeHelp = "Enable verbose logging and debugging capabilities."
	versionHelp     = "Show version."
)

type arguments struct {
	producers         uint
	eventsPerProducer uint
	targetRatio       float64
	cacheSize         uint
	monitorInterval   time.Duration
	statsInterval     time.Duration
	clockSyncInterval time.Duration
	verboseMode       bool
	version           bool

	fs *flag.FlagSet
}

func parseArgs() (*arguments, error) {
	var args arguments

	fs := flag.NewFlagSet("tpcapture", flag.ExitOnError)

	// Please keep the parameters ordered alphabetically in the source-code.
	fs.UintVar(&args.cacheSize, "cache-size", defaultArgCacheSize, cacheSizeHelp)

	fs.DurationVar(&args.clockSyncInterval, "clock-sync-interval", defaultClockSyncInterval,
		clockSyncIntervalHelp)

	fs.String("config", "", "Path to configuration file.")

	fs.UintVar(&args.eventsPerProducer, "events-per-producer",
		defaultArgEventsPerProducer, eventsHelp)

	fs.DurationVar(&args.monitorInterval, "monitor-interval", defaultArgMonitorInterval,
		monitorIntervalHelp)

	fs.UintVar(&args.producers, "producers", defaultArgProducers, producersHelp)

	fs.DurationVar(&args.statsInterval, "stats-interval", defaultArgStatsInterval,
		statsIntervalHelp)

	fs.Float64Var(&args.targetRatio, "target-ratio", defaultArgTargetRatio, targetRatioHelp)

	fs.BoolVar(&args.verboseMode, "v", false, "Shorthand for -verbose.")
	fs.BoolVar(&args.verboseMode, "verbose", false, verboseModeHelp)
	fs.BoolVar(&args.version, "version", false, versionHelp)

	fs.Usage = func() {
		fs.PrintDefaults()
	}

	args.fs = fs

	return &args, ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("TPCAPTURE"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithIgnoreUndefined(true),
		ff.WithAllowMissingConfigFile(true),
	)
}

func (args *arguments) sanityCheck() error {
	if args.producers == 0 {
		return fmt.Errorf("invalid producers value %d", args.producers)
	}
	if args.targetRatio < 0 || args.targetRatio > 1 {
		return fmt.Errorf("target-ratio %f out of range [0..1]", args.targetRatio)
	}
	if args.cacheSize == 0 {
		return fmt.Errorf("invalid cache-size value %d", args.cacheSize)
	}
	return nil
}
