package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kvarena/pagecache/cmd/pagecached/config"
	"github.com/kvarena/pagecache/log"
	"github.com/kvarena/pagecache/server"
	"github.com/kvarena/pagecache/store"
)

// flags holds the cobra-bound override values; zero values mean "not
// set on the command line" so config.Merge leaves the file/default
// value in place, matching the teacher's flag-merge contract.
var flags config.Config

// shutdownGrace bounds how long Shutdown waits for in-flight
// connections and worker jobs to drain before main returns anyway.
const shutdownGrace = 10 * time.Second

func main() {
	root := &cobra.Command{
		Use:   "pagecached",
		Short: "page-based in-memory cache server",
	}

	var configPath string
	root.Flags().StringVar(&configPath, "config", "", "path to JSON config file")
	root.Flags().StringVar(&flags.Host, "host", "", "host address to bind")
	root.Flags().IntVar(&flags.Port, "port", 0, "port number")
	root.Flags().StringVar(&flags.LogDestination, "log-destination", "", "log destination: stderr, stdout or file path")
	root.Flags().StringVar(&flags.LogLevel, "log-level", "", "log level: DEBUG, INFO, WARN, ERROR, FATAL")
	root.Flags().StringVar(&flags.ArenaSize, "arena-size", "", "total arena size: 64m, 2g")
	root.Flags().StringVar(&flags.MaxItemSize, "max-item-size", "", "max single item size: 1m, 1024k")
	root.Flags().StringVar(&flags.EvictionPolicy, "eviction-policy", "", "LRU, FIFO, SIEVE or CLOCK")
	root.Flags().IntVar(&flags.Workers, "workers", 0, "worker pool size")

	root.RunE = func(cmd *cobra.Command, args []string) error {
		return start(configPath)
	}

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func start(configPath string) error {
	bootLog := log.NewLogger(log.DebugLevel, os.Stderr)

	fileConf := config.Default()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			bootLog.Fatal("config file read error: ", err)
		}
		if err := json.Unmarshal(data, fileConf); err != nil {
			bootLog.Fatal("config parse error: ", err)
		}
	}
	config.Merge(fileConf, &flags)

	parsed, err := config.Parse(fileConf)
	if err != nil {
		bootLog.Fatal("config validation error: ", err)
	}

	dest, err := logDestination(parsed.LogDestination)
	if err != nil {
		bootLog.Fatal("log destination open error: ", err)
	}
	l := log.NewLogger(parsed.LogLevel, dest)
	l.Debugf("config: %#v", fileConf)

	st := store.New(parsed.TotalPages, parsed.EvictionPolicy)
	srv := &server.Server{
		Addr:    parsed.Addr,
		Store:   st,
		Log:     l,
		Workers: parsed.Workers,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-ctx.Done()
		l.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error("shutdown error: ", err)
		}
	}()

	l.Infof("serve on %s", srv.Addr)
	err = srv.ListenAndServe()
	if err != nil && ctx.Err() == nil {
		l.Fatal("serve error: ", err)
	}
	return nil
}

func logDestination(dest string) (w io.Writer, err error) {
	switch strings.ToLower(dest) {
	case "stderr":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	default:
		w, err = os.OpenFile(dest, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	}
	return
}
