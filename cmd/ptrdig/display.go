// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/siemens/ptrdig/resolver"
	"github.com/siemens/ptrdig/types"

	"github.com/gosuri/uilive"
	"github.com/muesli/termenv"
	"go.uber.org/atomic"
)

// renderer renders the resolved addresses as a two-column table of addresses
// and their names.
type renderer struct {
	w       io.Writer
	colored bool
}

// newRenderer returns a renderer writing to the specified io.Writer, using
// colors only if told so.
func newRenderer(w io.Writer, colored bool) *renderer {
	return &renderer{
		w:       w,
		colored: colored,
	}
}

// Render the given resolved addresses.
func (r *renderer) Render(l types.IPList) {
	if l.IsEmpty() {
		fmt.Fprintln(r.w, "no addresses")
		return
	}
	// Keep the names column aligned, regardless of the mix of IPv4 and IPv6
	// addresses.
	width := len("ADDRESS")
	for _, ip := range l.All() {
		if w := len(ip.Addr.String()); w > width {
			width = w
		}
	}
	fmt.Fprintf(r.w, "%s  %s\n",
		r.styled(headerStyle, fmt.Sprintf("%-*s", width, "ADDRESS")),
		r.styled(headerStyle, "NAME"))
	for _, ip := range l.All() {
		fmt.Fprintf(r.w, "%-*s  %s\n", width, ip.Addr.String(), r.styled(nameStyle(ip.Name), ip.Name))
	}
}

func (r *renderer) styled(s termenv.Style, text string) string {
	if !r.colored {
		return text
	}
	return s.Styled(text)
}

// nameStyle returns the style for the specified name, highlighting missing
// PTR records and failed lookups.
func nameStyle(name string) termenv.Style {
	switch {
	case name == resolver.NoPTRName:
		return noPTRNameStyle
	case isFailure(name):
		return failedNameStyle
	}
	return resolvedNameStyle
}

// isFailure returns true if the name is actually an error description; DNS
// names never contain spaces.
func isFailure(name string) bool {
	return name == "" || strings.ContainsRune(name, ' ')
}

// renderJSON renders the resolved addresses as a JSON array of objects with
// "address" and "name" fields.
func renderJSON(w io.Writer, l types.IPList) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(l.All())
}

// showProgress continuously renders a progress line until stop gets closed,
// then renders a final progress line and closes the returned channel.
func showProgress(w io.Writer, done *atomic.Int64, total int, stop <-chan struct{}) <-chan struct{} {
	finished := make(chan struct{})
	go func() {
		// Avoid uilive's background updating mode using Start(), as it may
		// trigger anytime with the rendering into the buffer not yet
		// complete. Instead, explicitly flush after having completed the
		// rendering.
		term := uilive.New()
		term.Out = w
		sp := newSpinner()
		sp.Start(*spinnerInterval)
		defer func() {
			sp.Stop()
			renderProgress(term, "✔ ", done.Load(), total)
			close(finished)
		}()
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			renderProgress(term, sp.Spinner(), done.Load(), total)
			select {
			case <-ticker.C:
			case <-stop:
				return
			}
		}
	}()
	return finished
}

// renderProgress renders (and flushes) a single progress line.
func renderProgress(term *uilive.Writer, indicator string, done int64, total int) {
	fmt.Fprintf(term, "%sresolved %d of %d addresses\n", indicator, done, total)
	_ = term.Flush()
}
