// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/siemens/ptrdig/dig"
	"github.com/siemens/ptrdig/resolver"
	"github.com/siemens/ptrdig/types"

	"github.com/muesli/termenv"
	"github.com/thediveo/lxkns/log"
	"go.uber.org/atomic"
)

// embeddedDNSServer is Docker's embedded DNS resolver, as seen from inside
// containers attached to custom networks.
const embeddedDNSServer = "127.0.0.11:53"

// ResolveAndReport resolves the specified addresses according to the current
// settings and then renders the results to out. When given a network
// namespace reference, DNS queries are sent from inside this network
// namespace. Progress and statistics go to errout, if enabled.
func ResolveAndReport(out io.Writer, errout io.Writer, addrs types.IPList, netnsref string) error {
	solver := newSolver(netnsref)
	njobs := settings.NumJobs()

	var done atomic.Int64
	digger := dig.New(
		dig.WithBackend(settings.SchedBackend()),
		dig.WithProgress(func(resolved, _ int) { done.Store(int64(resolved)) }),
	)
	var stopProgress chan struct{}
	var progressDone <-chan struct{}
	if *verbose && !*jsonOutput {
		stopProgress = make(chan struct{})
		progressDone = showProgress(errout, &done, addrs.Len(), stopProgress)
	}
	start := time.Now()
	result, err := digger.Resolve(addrs, njobs, solver)
	duration := time.Since(start)
	if stopProgress != nil {
		close(stopProgress)
		<-progressDone
	}
	if err != nil {
		return fmt.Errorf("cannot resolve addresses: %w", err)
	}
	if *verbose {
		fmt.Fprintf(errout, "resolved %d addresses in %s using %s with %d %s jobs\n",
			result.Len(), duration.Round(time.Microsecond), solver, njobs, settings.SchedBackend())
	}
	if *jsonOutput {
		return renderJSON(out, result)
	}
	newRenderer(out, useColors(out)).Render(result)
	return nil
}

// newSolver returns a Solver according to the current settings. Inside a
// container's network namespace the system resolver is of no use, so the dns
// resolver queries Docker's embedded DNS resolver instead, unless told
// otherwise.
func newSolver(netnsref string) resolver.Solver {
	restype := settings.ResType()
	opts := settings.ResolverOptions()
	if netnsref != "" {
		if restype == resolver.Real {
			log.Infof("switching to dns resolver inside network namespace %s", netnsref)
			restype = resolver.DNS
		}
		if settings.Server == "" {
			opts = append(opts, resolver.WithServer(embeddedDNSServer))
		}
		opts = append(opts, resolver.InNetworkNamespace(netnsref))
	}
	solver := resolver.New(restype, opts...)
	log.Debugf("using %s", solver)
	return solver
}

// useColors returns true if out is a terminal supporting colors, unless colors
// have been disabled.
func useColors(out io.Writer) bool {
	if *noColor || out != os.Stdout {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}
