package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/llehouerou/lyricbar/internal/app"
	"github.com/llehouerou/lyricbar/internal/config"
	"github.com/llehouerou/lyricbar/internal/errmsg"
	"github.com/llehouerou/lyricbar/internal/logging"
)

const usage = `usage: lyricbar [flags] <command> [args]

commands:
  get FILE...     print lyrics for audio files
  watch           follow the MPRIS player and show lyrics
  forget FILE...  remove cached lyrics for audio files
  embed FILE...   write found lyrics into the files' tags
  cache           list cached lyrics

flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lyricbar", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "read configuration from this file only")
	logLevel := fs.String("log-level", "", "override the configured log level")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	command, rest := fs.Arg(0), fs.Args()[1:]

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintln(stderr, errmsg.Format(errmsg.OpLoadConfig, err))
		return 1
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(stderr, errmsg.Format(errmsg.OpLoadConfig, err))
			return 1
		}
	}

	logOut := stderr
	if command == "watch" {
		// The view owns the terminal.
		f, err := openLogFile()
		if err != nil {
			fmt.Fprintln(stderr, errmsg.Format(errmsg.OpOpenLog, err))
			return 1
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.Setup(cfg.Log, logOut)
	slog.SetDefault(logger)

	a, err := app.New(cfg, logger)
	if err != nil {
		fmt.Fprintln(stderr, errmsg.Format(errmsg.OpLoadConfig, err))
		return 1
	}

	switch command {
	case "get":
		if len(rest) == 0 {
			return missingFiles(stderr, command)
		}
		err = a.Get(ctx, rest, stdout, stderr)
	case "embed":
		if len(rest) == 0 {
			return missingFiles(stderr, command)
		}
		err = a.Embed(ctx, rest, stdout, stderr)
	case "forget":
		if len(rest) == 0 {
			return missingFiles(stderr, command)
		}
		err = a.Forget(rest, stdout, stderr)
	case "cache":
		if err = a.ListCache(stdout); err != nil {
			fmt.Fprintln(stderr, errmsg.Format(errmsg.OpCacheList, err))
			return 1
		}
	case "watch":
		if err = a.Watch(ctx); err != nil {
			fmt.Fprintln(stderr, errmsg.Format(errmsg.OpConnectPlayer, err))
			return 1
		}
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", command)
		fs.Usage()
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, app.ErrPartial):
		return 1
	default:
		fmt.Fprintln(stderr, errmsg.Format(errmsg.OpResolve, err))
		return 1
	}
}

func missingFiles(stderr io.Writer, command string) int {
	fmt.Fprintf(stderr, "%s: no files given\n", command)
	return 2
}

func openLogFile() (*os.File, error) {
	path, err := config.LogFile()
	if err != nil {
		return nil, err
	}
	return logging.OpenFile(path)
}
