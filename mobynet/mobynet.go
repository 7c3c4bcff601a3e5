// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package mobynet

import (
	"context"
	"fmt"
	"net/netip"
	"slices"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/thediveo/lxkns/log"
)

// Inspector is the part of the Docker client API needed for discovering the
// addresses of containers on attached networks.
type Inspector interface {
	ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error)
	NetworkInspect(ctx context.Context, networkID string, options types.NetworkInspectOptions) (types.NetworkResource, error)
}

var _ Inspector = (*client.Client)(nil)

// DiscoverAttachedAddresses takes on the position of the “origin” or “center”
// container identified by centerID and then inspects the networks attached to
// this container 0. It returns the IPv4 and IPv6 addresses of all other
// containers attached to these networks, sorted and without duplicates, as
// well as the filesystem reference to the network namespace of container 0.
//
// These addresses are all reachable from container 0, and Docker's embedded
// DNS resolver inside container 0 knows their names.
func DiscoverAttachedAddresses(ctx context.Context, moby Inspector, centerID string) ([]string, string, error) {
	// Inspect the specified container in order to get information about the
	// networks the container currently is attached to.
	centerDetails, err := moby.ContainerInspect(ctx, centerID)
	if err != nil {
		return nil, "", err
	}
	if centerDetails.ContainerJSONBase == nil || centerDetails.State == nil || centerDetails.State.Pid == 0 {
		return nil, "", fmt.Errorf("container '%s' is not running", centerID)
	}
	centerName := strings.TrimPrefix(centerDetails.Name, "/") // argh, Docker's "/name" legacy!
	netnsref := fmt.Sprintf("/proc/%d/ns/net", centerDetails.State.Pid)
	if centerDetails.NetworkSettings == nil {
		return []string{}, netnsref, nil
	}

	// Containers attached to multiple networks that container 0 is also
	// attached to show up multiple times, so we need to deduplicate.
	uniqueAddrs := map[netip.Addr]struct{}{}
	for attachedNetName, attachedNet := range centerDetails.NetworkSettings.Networks {
		if attachedNet == nil {
			continue
		}
		// Inspecting an attached network gives us all the (other) containers
		// directly attached to that attached network (including container
		// 0), together with their addresses on this network.
		attNetDetails, err := moby.NetworkInspect(ctx, attachedNet.NetworkID, types.NetworkInspectOptions{})
		if err != nil {
			return nil, "", fmt.Errorf("cannot inspect network %s: %w", attachedNetName, err)
		}
		for _, endpoint := range attNetDetails.Containers {
			// Well, do not add our own addresses to the resulting list.
			if endpoint.Name == centerName {
				continue
			}
			for _, cidr := range []string{endpoint.IPv4Address, endpoint.IPv6Address} {
				if cidr == "" {
					continue
				}
				prefix, err := netip.ParsePrefix(cidr)
				if err != nil {
					log.Warnf("skipping invalid address %q of container %s on network %s",
						cidr, endpoint.Name, attachedNetName)
					continue
				}
				uniqueAddrs[prefix.Addr()] = struct{}{}
			}
		}
	}
	addrs := make([]netip.Addr, 0, len(uniqueAddrs))
	for addr := range uniqueAddrs {
		addrs = append(addrs, addr)
	}
	slices.SortFunc(addrs, netip.Addr.Compare)
	textaddrs := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		textaddrs = append(textaddrs, addr.String())
	}
	log.Debugf("discovered %d addresses on networks attached to container %s",
		len(textaddrs), centerName)
	return textaddrs, netnsref, nil
}
