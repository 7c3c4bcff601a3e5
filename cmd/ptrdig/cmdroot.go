// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/siemens/ptrdig/config"
	"github.com/siemens/ptrdig/dig"
	"github.com/siemens/ptrdig/resolver"

	"github.com/spf13/cobra"
	"github.com/thediveo/lxkns/log"
)

var (
	jobNumber       *int
	resolverName    *string
	backendName     *string
	noResolve       *bool
	inputFile       *string
	containerName   *string
	dnsServer       *string
	lookupTimeout   *time.Duration
	sleepLatency    *time.Duration
	configPath      *string
	jsonOutput      *bool
	noColor         *bool
	spinnerInterval *time.Duration
	verbose         *bool
	debug           *bool
)

// settings are the effective settings after layering the command line flags
// over the configuration file.
var settings *config.Config

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:     "ptrdig [flags] [address...]",
		Short:   "ptrdig resolves lists of IP addresses into their reverse DNS names in parallel",
		Version: "0.9",
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if *debug {
				log.SetLevel(log.DebugLevel)
				log.Debugf("debug logging enabled")
			}
			if max := dig.MaxJobs(); *jobNumber < 0 || *jobNumber > max {
				return fmt.Errorf("--jobs out of range [0..%d]", max)
			}
			if *lookupTimeout < 0 {
				return errors.New("--timeout must not be negative")
			}
			if *sleepLatency < 0 {
				return errors.New("--latency must not be negative")
			}
			if *spinnerInterval < 10*time.Millisecond {
				return errors.New("--spinner must be at least 10ms")
			}
			var err error
			settings, err = layeredSettings(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && *inputFile == "" && *containerName == "" {
				return errors.New("nothing to resolve: specify addresses, --file or --container")
			}
			addrs, netnsref, err := gatherAddresses(cmd.Context(), cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return ResolveAndReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), addrs, netnsref)
		},
	}
	// Sets up the flags.
	flags := rootCmd.PersistentFlags()
	jobNumber = flags.IntP(
		"jobs", "j", 0, "number of parallel resolution jobs (0: configuration or number of CPUs)")
	resolverName = flags.StringP(
		"resolver", "r", resolver.Real.String(), "resolver to use: real, dns, null, fake, or sleep")
	backendName = flags.StringP(
		"backend", "b", "threads", "scheduler backend for parallel jobs: threads or tasks")
	noResolve = flags.BoolP(
		"no-resolve", "N", false, "do not resolve, use addresses as names")
	inputFile = flags.StringP(
		"file", "f", "", "read addresses from file, one per line; \"-\" reads from stdin")
	containerName = flags.String(
		"container", "", "resolve the containers attached to the networks of this container")
	dnsServer = flags.String(
		"server", "", "DNS server address for the dns resolver (host:port)")
	lookupTimeout = flags.Duration(
		"timeout", resolver.DefaultTimeout, "timeout for a single reverse lookup")
	sleepLatency = flags.Duration(
		"latency", resolver.DefaultLatency, "delay per address of the sleep resolver")
	configPath = flags.String(
		"config", config.DefaultConfigPath, "configuration file")
	jsonOutput = flags.Bool(
		"json", false, "output results as JSON")
	noColor = flags.Bool(
		"no-color", false, "disable colored output")
	spinnerInterval = flags.Duration(
		"spinner", 100*time.Millisecond, "spinner interval")
	verbose = flags.BoolP(
		"verbose", "v", false, "show progress and statistics")
	debug = flags.Bool(
		"debug", false, "enable debugging output")
	return
}

// layeredSettings loads the configuration file and then overrides its
// settings with the flags explicitly given on the command line.
func layeredSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("cannot load configuration: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("jobs") {
		cfg.Jobs = *jobNumber
	}
	if flags.Changed("resolver") {
		cfg.Resolver = *resolverName
	}
	if flags.Changed("backend") {
		cfg.Backend = *backendName
	}
	if flags.Changed("server") {
		cfg.Server = *dnsServer
	}
	if flags.Changed("timeout") {
		cfg.Timeout = *lookupTimeout
	}
	if flags.Changed("latency") {
		cfg.Latency = *sleepLatency
	}
	if *noResolve {
		cfg.Resolver = resolver.Null.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	log.Debugf("settings: %+v", *cfg)
	return cfg, nil
}
