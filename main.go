// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

// tpcapture drives a synthetic capture session against the tracepoint event
// index: concurrent producers generate tracepoint firings, the ingest
// handler attributes and indexes them, and capture statistics are reported
// while the load is running. It exists to validate and load-test the
// pipeline without a kernel-side decoder.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/tpcapture/tpcapture/host"
	"github.com/tpcapture/tpcapture/libtp"
	"github.com/tpcapture/tpcapture/periodiccaller"
	"github.com/tpcapture/tpcapture/stats"
	"github.com/tpcapture/tpcapture/times"
	"github.com/tpcapture/tpcapture/tphandler"
	"github.com/tpcapture/tpcapture/tracepointindex"
	"github.com/tpcapture/tpcapture/vc"
)

type exitCode int

const (
	exitSuccess exitCode = 0
	exitFailure exitCode = 1

	// Go 'flag' package calls os.Exit(2) on flag parse errors, if ExitOnError is set
	exitParseError exitCode = 2
)

// schedTracepoints is the synthetic schema set the producers fire from.
var schedTracepoints = []tphandler.Definition{
	{Category: "sched", Name: "sched_switch"},
	{Category: "sched", Name: "sched_wakeup"},
	{Category: "sched", Name: "sched_migrate_task"},
	{Category: "sched", Name: "sched_process_exec"},
	{Category: "sched", Name: "sched_process_exit"},
}

// tableResolver resolves ids from a fixed definition table.
type tableResolver struct {
	defs map[libtp.TracepointID]tphandler.Definition
}

var _ tphandler.TracepointResolver = (*tableResolver)(nil)

func newTableResolver(defs []tphandler.Definition) *tableResolver {
	r := &tableResolver{defs: make(map[libtp.TracepointID]tphandler.Definition, len(defs))}
	for _, def := range defs {
		r.defs[libtp.NewTracepointID(def.Category, def.Name)] = def
	}
	return r
}

func (r *tableResolver) ResolveTracepoint(id libtp.TracepointID) (tphandler.Definition, error) {
	def, ok := r.defs[id]
	if !ok {
		return tphandler.Definition{}, fmt.Errorf("no definition for tracepoint %s", id)
	}
	return def, nil
}

// produce generates numEvents synthetic tracepoint firings and feeds them to
// the handler channel. Each producer owns a distinct set of target thread
// ids, the way one trace reader per CPU would.
func produce(ctx context.Context, eventCh chan<- *host.TracepointEvent,
	producerIdx, numEvents uint, targetPID libtp.PID, targetRatio float64) error {
	ids := make([]libtp.TracepointID, len(schedTracepoints))
	for i, def := range schedTracepoints {
		ids[i] = libtp.NewTracepointID(def.Category, def.Name)
	}

	for range numEvents {
		ev := &host.TracepointEvent{
			Tick:       times.Now(),
			Tracepoint: ids[rand.IntN(len(ids))],
			CPU:        libtp.CPUID(producerIdx),
		}
		if rand.Float64() < targetRatio {
			ev.PID = targetPID
			ev.TID = libtp.TID(uint(targetPID)*10 + producerIdx)
		} else {
			// Foreign load: some other process, untrusted tid.
			ev.PID = targetPID + 1 + libtp.PID(rand.IntN(1000))
			ev.TID = libtp.TID(rand.IntN(1 << 16))
		}

		select {
		case eventCh <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func main() {
	os.Exit(int(mainWithExitCode()))
}

func mainWithExitCode() exitCode {
	args, err := parseArgs()
	if err != nil {
		log.Errorf("Failure to parse arguments: %v", err)
		return exitParseError
	}

	if args.version {
		fmt.Printf("%s\n", vc.Version())
		return exitSuccess
	}

	if args.verboseMode {
		log.SetLevel(log.DebugLevel)
	}

	if err = args.sanityCheck(); err != nil {
		log.Error(err)
		return exitParseError
	}

	// Context to drive the main goroutine, the handler and the producers.
	mainCtx, mainCancel := signal.NotifyContext(context.Background(),
		unix.SIGINT, unix.SIGTERM, unix.SIGABRT)
	defer mainCancel()

	log.Infof("Starting tpcapture %s (revision %s, build timestamp %s)",
		vc.Version(), vc.Revision(), vc.BuildTimestamp())

	times.StartRealtimeSync(mainCtx, args.clockSyncInterval)
	intervals := times.New(args.monitorInterval, args.statsInterval)

	// The driver profiles itself: its own pid is the capture target.
	targetPID := libtp.PID(os.Getpid())
	index := tracepointindex.New()
	resolver := newTableResolver(schedTracepoints)

	eventCh := make(chan *host.TracepointEvent)
	exitNotify, err := tphandler.Start(mainCtx, index, resolver, targetPID,
		eventCh, intervals, uint32(args.cacheSize))
	if err != nil {
		log.Errorf("Failed to start event handling: %v", err)
		return exitFailure
	}

	stopStats := periodiccaller.Start(mainCtx, intervals.StatsInterval(), func() {
		cs := stats.Collect(index)
		cs.Log()
	})
	defer stopStats()

	g, ctx := errgroup.WithContext(mainCtx)
	for p := range args.producers {
		g.Go(func() error {
			return produce(ctx, eventCh, p, args.eventsPerProducer,
				targetPID, args.targetRatio)
		})
	}

	if err = g.Wait(); err != nil {
		log.Errorf("Capture session aborted: %v", err)
		mainCancel()
		<-exitNotify
		return exitFailure
	}

	// Producers are done; stop the handler and report the final state.
	mainCancel()
	<-exitNotify

	cs := stats.Collect(index)
	cs.Log()
	if cs.TotalEvents != uint64(args.producers)*uint64(args.eventsPerProducer) {
		log.Errorf("Index accepted %d of %d generated events",
			cs.TotalEvents, uint64(args.producers)*uint64(args.eventsPerProducer))
		return exitFailure
	}

	return exitSuccess
}
