// Command pixhist hashes, records, verifies and exports rendered frames
// using the pixhist view history and replay engine.
//
// Exit codes: 0 on success, 1 when verification fails, 2 on any other
// error.
package main

import (
	"errors"
	"fmt"
	"os"
)

const (
	exitOK       = 0
	exitMismatch = 1
	exitError    = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errVerifyFailed):
		fmt.Fprintln(os.Stderr, "pixhist:", err)
		return exitMismatch
	default:
		fmt.Fprintln(os.Stderr, "pixhist:", err)
		return exitError
	}
}
