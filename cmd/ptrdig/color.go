// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import "github.com/muesli/termenv"

var (
	resolvedNameStyle = termenv.Style{}.Foreground(termenv.ANSIGreen)
	noPTRNameStyle    = termenv.Style{}.Foreground(termenv.ANSIYellow)
	failedNameStyle   = termenv.Style{}.Foreground(termenv.ANSIRed)
)

var headerStyle = termenv.Style{}.Bold()
