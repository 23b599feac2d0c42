// Command choldown downdates Cholesky factors described in YAML problem files.
//
//	choldown downdate -f problem.yaml --verify
//	choldown factor -f spd.yaml
//	choldown norm 3 4
//
// Exit status: 0 on success, 2 when the downdate is rejected as not positive
// definite, 1 on any other error.
package main

import (
	"errors"
	"io"
	"os"
)

const (
	appName = "choldown"
	version = "v0.1.0"
)

const (
	exitOK       = 0
	exitError    = 1
	exitRejected = 2
)

// exitCodeError carries a non-default process exit status out of a command.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI with args and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	a := newApp(stdout, stderr)
	root := a.rootCmd()
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return exitOK
	}

	var ec *exitCodeError
	if errors.As(err, &ec) {
		a.log.Warn().Err(ec.err).Int("exit", ec.code).Msg("downdate rejected")
		return ec.code
	}
	a.log.Error().Err(err).Msg(appName + " failed")

	return exitError
}
