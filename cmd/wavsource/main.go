// SPDX-License-Identifier: EPL-2.0

// Command wavsource resolves WAV files through the asynchronous handler,
// re-encodes them and maintains the handler registration table.
//
// Usage:
//
//	wavsource [-config file] [-v] probe FILE...
//	wavsource [-config file] [-v] render IN OUT
//	wavsource [-config file] [-v] register | unregister | handlers
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ik5/wavsource/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// env carries what every command needs.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	stdout io.Writer
}

var commands = map[string]func(e *env, args []string) error{
	"probe":      probe,
	"render":     render,
	"register":   register,
	"unregister": unregister,
	"handlers":   listHandlers,
}

var errUsage = errors.New("usage")

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wavsource", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to the YAML configuration file")
	verbose := fs.Bool("v", false, "log at debug level")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: wavsource [-config file] [-v] <probe FILE...|render IN OUT|register|unregister|handlers>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(stderr, "wavsource: %v\n", err)
			return 1
		}
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}

	logger := newLogger(stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fmt.Fprintf(stderr, "wavsource: unknown command %q\n", fs.Arg(0))
		fs.Usage()
		return 2
	}

	e := &env{cfg: cfg, logger: logger, stdout: stdout}
	if err := cmd(e, fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "wavsource: %v\n", err)
			return 2
		}
		logger.Error("command failed", "command", fs.Arg(0), "err", err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, level string) *slog.Logger {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
