package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dashhome/dashhome/config"
	"github.com/dashhome/dashhome/services"
)

func usage() {
	fmt.Println("Usage: dashhome [-config DIR] COMMAND [ARGS]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("   serve                          Run the REST backend and websocket proxy")
	fmt.Println("   watch [entity-prefix]          Mirror live state and log changes")
	fmt.Println("   call  domain.service [k=v...]  Call a service")
	fmt.Println("   dashboard get [FILE]           Download the dashboard as yaml")
	fmt.Println("   dashboard put FILE             Upload a yaml dashboard")
	fmt.Println()
}

func fmtFatalf(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format, a...)
	os.Exit(1)
}

func main() {
	configDir := flag.String("config", "", "directory containing dashhome.yml")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	var paths []string
	if *configDir != "" {
		paths = append(paths, *configDir)
	}
	settings, err := config.Load(paths...)
	if err != nil {
		fmtFatalf("error: %s\n", err)
	}
	level := settings.Log.Level
	if settings.Debug {
		level = "debug"
	}
	logger, err := services.SetupLogging(level, settings.Log.Format, "dashhome")
	if err != nil {
		fmtFatalf("error: %s\n", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ps := flag.Args()[1:]
	command := flag.Args()[0]
	switch command {
	default:
		usage()
	case "serve":
		err = serve(ctx, settings, logger)
	case "watch":
		prefix := ""
		if len(ps) > 0 {
			prefix = ps[0]
		}
		err = watch(ctx, settings, logger, prefix)
	case "call":
		if len(ps) < 1 {
			usage()
			return
		}
		err = call(ctx, settings, logger, ps)
	case "dashboard":
		err = dashboardCommand(settings, logger, ps)
	}
	if err != nil {
		logger.Error("failed", zap.String("command", command), zap.Error(err))
		os.Exit(1)
	}
}
