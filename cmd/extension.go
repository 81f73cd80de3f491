package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// Environment variables passed to extensions. They are the ones the
// configuration reads, so an extension built on this package sees the same
// kitchen.
const (
	EnvStore = "KTCHN_STORE"
	EnvPath  = "KTCHN_PATH"
	EnvRaw   = "KTCHN_RAW"
)

// RunExtension attempts to find and execute an external ktchn-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "ktchn-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		logrus.WithField("extension", name).WithError(err).Debug("extension-not-found")
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr

	// Pass global flags as environment variables.
	cmd.Env = os.Environ()
	if *storeFlag != "" {
		cmd.Env = append(cmd.Env, EnvStore+"="+*storeFlag)
	}
	if *pathFlag != "" {
		cmd.Env = append(cmd.Env, EnvPath+"="+*pathFlag)
	}
	if *rawFlag {
		cmd.Env = append(cmd.Env, EnvRaw+"=true")
	}

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
