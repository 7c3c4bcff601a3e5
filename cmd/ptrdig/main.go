// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"os"
)

func main() {
	// cobra already reports the error together with the usage on stderr, so
	// only the exit code is left to us.
	if err := newRootCmd().Execute(); err != nil {
		osExit(1)
	}
}

// osExit terminates ptrdig with the given exit code; tests replace it in order
// to check the exit code without exiting.
var osExit = os.Exit
