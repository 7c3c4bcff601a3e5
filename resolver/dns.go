// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strconv"

	"github.com/siemens/ptrdig/types"

	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
)

// resolvConf is the stub resolver configuration consulted for the default DNS
// server.
var resolvConf = "/etc/resolv.conf"

// dnsResolver queries a specific DNS server for PTR records, optionally from
// inside a specific network namespace.
type dnsResolver struct {
	client *dns.Client
	server string
	netns  relations.Relation // network namespace to query from, or nil.
	nsref  string
}

// ptrResult transports the outcome of a query out of a network namespace
// switch.
type ptrResult struct {
	name string
	err  error
}

func newDNSResolver(o options) *dnsResolver {
	server := o.server
	if server == "" {
		server = defaultServer()
	}
	return &dnsResolver{
		// Only read after creation; each exchange dials its own connection.
		client: &dns.Client{Net: "udp", Timeout: o.timeout},
		server: server,
		netns:  o.netns,
		nsref:  o.nsref,
	}
}

// defaultServer returns the first nameserver of the stub resolver
// configuration, falling back to DefaultServer.
func defaultServer() string {
	cfg, err := dns.ClientConfigFromFile(resolvConf)
	if err != nil || len(cfg.Servers) == 0 {
		return DefaultServer
	}
	return net.JoinHostPort(cfg.Servers[0], cfg.Port)
}

func (r *dnsResolver) Solve(ip types.IP) types.IP {
	query := func() interface{} {
		name, err := r.query(ip.Addr)
		return ptrResult{name: name, err: err}
	}
	var res ptrResult
	if r.netns != nil {
		// lxkns' ops.Execute differentiates between a namespace switching
		// error and the result of the function called in the switched
		// namespace.
		anyres, err := ops.Execute(query, r.netns)
		if err != nil {
			return ip.WithName(err.Error())
		}
		res = anyres.(ptrResult)
	} else {
		res = query().(ptrResult)
	}
	if res.err != nil {
		return ip.WithName(res.err.Error())
	}
	return ip.WithName(res.name)
}

// query the DNS server for the PTR record of the specified address.
func (r *dnsResolver) query(addr netip.Addr) (string, error) {
	addrtext := addr.WithZone("").String()
	arpa, err := dns.ReverseAddr(addrtext)
	if err != nil {
		return "", err
	}
	msg := dns.Msg{
		MsgHdr: dns.MsgHdr{Id: dns.Id()},
	}
	msg.SetQuestion(arpa, dns.TypePTR)
	ctx := context.Background()
	if r.client.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.client.Timeout)
		defer cancel()
	}
	resp, _, err := r.client.ExchangeContext(ctx, &msg, r.server)
	if err != nil {
		return "", err
	}
	switch resp.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return NoPTRName, nil
	default:
		rcode, ok := dns.RcodeToString[resp.Rcode]
		if !ok {
			rcode = strconv.Itoa(resp.Rcode)
		}
		return "", fmt.Errorf("PTR query for %s failed: %s", addrtext, rcode)
	}
	names := []string{}
	for _, rr := range resp.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			names = append(names, ptr.Ptr)
		}
	}
	return ptrName(addrtext, names), nil
}

func (r *dnsResolver) String() string {
	if r.netns != nil {
		return fmt.Sprintf("dnsresolver querying %s from %s", r.server, r.nsref)
	}
	return "dnsresolver querying " + r.server
}
