// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/siemens/ptrdig/mobynet"
	"github.com/siemens/ptrdig/types"

	"github.com/docker/docker/client"
	"github.com/thediveo/lxkns/log"
)

// gatherAddresses returns the addresses to resolve, taken from the command
// line arguments, the input file (if any), and the containers on the networks
// attached to a specific container (if any). In the latter case, it
// additionally returns the network namespace reference of this container.
func gatherAddresses(ctx context.Context, stdin io.Reader, args []string) (types.IPList, string, error) {
	addrs, err := types.ParseIPList(args...)
	if err != nil {
		return types.IPList{}, "", err
	}
	if *inputFile != "" {
		var r io.Reader = stdin
		if *inputFile != "-" {
			f, err := os.Open(*inputFile)
			if err != nil {
				return types.IPList{}, "", fmt.Errorf("cannot read addresses: %w", err)
			}
			defer f.Close()
			r = f
		}
		fileaddrs, err := readAddresses(r)
		if err != nil {
			return types.IPList{}, "", fmt.Errorf("cannot read addresses: %w", err)
		}
		for _, ip := range fileaddrs.All() {
			addrs.Push(ip)
		}
	}
	if *containerName == "" {
		return addrs, "", nil
	}
	cln, err := client.NewClientWithOpts(
		client.WithHost("unix:///var/run/docker.sock"),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return types.IPList{}, "", fmt.Errorf("cannot connect to the Docker daemon: %w", err)
	}
	defer cln.Close()
	cntraddrs, netnsref, err := containerAddresses(ctx, cln, *containerName)
	if err != nil {
		return types.IPList{}, "", err
	}
	for _, ip := range cntraddrs.All() {
		addrs.Push(ip)
	}
	return addrs, netnsref, nil
}

// containerAddresses returns the addresses of the containers attached to the
// networks of the specified container, as well as the network namespace
// reference of the latter container.
func containerAddresses(ctx context.Context, moby mobynet.Inspector, name string) (types.IPList, string, error) {
	textaddrs, netnsref, err := mobynet.DiscoverAttachedAddresses(ctx, moby, name)
	if err != nil {
		return types.IPList{}, "", fmt.Errorf("cannot discover attached networks and their containers: %w", err)
	}
	addrs, err := types.ParseIPList(textaddrs...)
	if err != nil {
		return types.IPList{}, "", err
	}
	return addrs, netnsref, nil
}

// readAddresses reads addresses from r, one address per line. Empty lines as
// well as comments starting with "#" are ignored. Lines not containing a valid
// address are logged and then skipped.
func readAddresses(r io.Reader) (types.IPList, error) {
	addrs := types.IPList{}
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line, _, _ := strings.Cut(scanner.Text(), "#")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ip, err := types.NewIP(line)
		if err != nil {
			log.Warnf("skipping line %d: %s", lineno, err.Error())
			continue
		}
		addrs.Push(ip)
	}
	if err := scanner.Err(); err != nil {
		return types.IPList{}, err
	}
	return addrs, nil
}
