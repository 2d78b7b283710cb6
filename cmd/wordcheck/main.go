// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordcheck spelling server and CLI [DBG] application.

wordcheck flags words missing from the Collins dictionary and suggests corrections
ranked by edit distance and word frequency. It runs as a MessagePack IPC server for
editors and proofing tools, or as an interactive CLI for testing.

# Usage

Start the server with the dictionary found in the data dirs:

	wordcheck

Use a specific dictionary and enable debug logs:

	wordcheck -dict /srv/collins.txt -d

Check sentences interactively:

	wordcheck -c -limit 3

Compile a text dictionary into the ranked binary format:

	wordcheck -dict collins.txt -compile data/collins.bin

# Configuration

Settings come from config.toml in the user config dir, created with defaults on first
run. Flags override the file. See package config for every key.

# IPC Protocol

Requests and responses are msgpack values on stdin and stdout; see package server.

	{"id": "1", "action": "check", "blocks": [{"id": "b1", "text": "Teh quick foxx", "from": 0}]}
	{"id": "2", "action": "suggest", "word": "recieve", "limit": 3}

# Exceptions

Words added with add_exception persist in Redis when [exceptions] redis_addr is set, in
the JSON file named by user_dict otherwise, and for the process only when neither is.

# Command Line Flags

	-config string
	    Path to a config.toml
	-dict string
	    Dictionary file (default: [dict] path, or the [dict] resource in the data dirs)
	-format string
	    Dictionary format: auto, text, binary, msgpack
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions per word
	-distance int
	    Maximum edit distance for suggestions
	-metrics string
	    Serve Prometheus metrics on this address
	-compile string
	    Write the loaded dictionary to this file and exit
	-to string
	    Format for -compile (default: from the file extension)
*/
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/wordcheck/internal/cli"
	"github.com/bastiangx/wordcheck/internal/logger"
	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/config"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/exceptions"
	"github.com/bastiangx/wordcheck/pkg/metrics"
	"github.com/bastiangx/wordcheck/pkg/rule"
	"github.com/bastiangx/wordcheck/pkg/server"
	"github.com/bastiangx/wordcheck/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "wordcheck"
	gh      = "https://github.com/bastiangx/wordcheck"
)

// sigHandler runs cleanup and exits normally on SIGINT/SIGTERM.
func sigHandler(cleanup func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cleanup()
		os.Exit(0)
	}()
}

// main only manages the flow: every step lives in its own package.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a config.toml")
	dictPath := flag.String("dict", "", "Dictionary file (default: [dict] path, or the [dict] resource in the data dirs)")
	dictFormat := flag.String("format", "", "Dictionary format: auto, text, binary, msgpack")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 0, "Number of suggestions per word (default from config)")
	distance := flag.Int("distance", -1, "Maximum edit distance for suggestions (default from config)")
	metricsAddr := flag.String("metrics", "", "Serve Prometheus metrics on this address, e.g. :9090")
	compileOut := flag.String("compile", "", "Write the loaded dictionary to this file and exit")
	compileFormat := flag.String("to", "", "Format for -compile (default: from the file extension)")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := logger.Setup("", *debugMode); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	cfg, usedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(usedPath))

	if *dictPath != "" {
		cfg.Dict.Path = *dictPath
	}
	if *dictFormat != "" {
		cfg.Dict.Format = *dictFormat
	}
	if *limit > 0 {
		cfg.Speller.MaxResults = *limit
	}
	if *distance >= 0 {
		cfg.Speller.MaxEditDistance = *distance
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if err := logger.Setup(cfg.Log.Level, *debugMode); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Error("Failed to initialize path resolver", "err", err)
		log.Print("Either env is not set or system is not supported")
		os.Exit(1)
	}

	dict, err := loadDictionary(pathResolver, cfg)
	if err != nil {
		log.Fatalf("Failed to load dictionary: %v", err)
	}

	if *compileOut != "" {
		if err := compile(dict, *compileOut, *compileFormat); err != nil {
			log.Fatalf("Failed to compile dictionary: %v", err)
		}
		return
	}

	gen, err := suggest.NewGenerator(dict.Folded, cfg.SuggestConfig())
	if err != nil {
		log.Fatalf("Invalid speller config: %v", err)
	}
	spelling, err := rule.New(dict.Exact, gen, rule.WithMaxResults(cfg.Speller.MaxResults))
	if err != nil {
		log.Fatalf("Failed to create rule: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore := openExceptions(ctx, cfg.Exceptions)
	defer closeStore()

	var m *metrics.Metrics
	shutdownMetrics := func(context.Context) error { return nil }
	if cfg.Metrics.Addr != "" {
		m = metrics.New()
		m.WatchCache(gen.Stats)
		m.SetDictionaryWords(dict.Exact.Len())
		shutdownMetrics = m.StartServer(cfg.Metrics.Addr)
	}

	sigHandler(func() {
		cancel()
		closeStore()
		sctx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		_ = shutdownMetrics(sctx)
	})

	if *cliMode {
		log.SetReportTimestamp(false)
		handler := cli.NewInputHandler(spelling, store, cfg.Speller.MaxResults, os.Stdin, os.Stdout)
		if err := handler.Start(ctx); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	srv, err := server.NewServer(spelling, store, cfg.ServerLimits(),
		server.WithMetrics(m),
		server.WithStats(func() map[string]int {
			stats := gen.Stats()
			stats["dictionaryWords"] = dict.Exact.Len()
			return stats
		}),
	)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	showStartupInfo(dict, usedPath)
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// loadDictionary finds the dictionary file and builds both stores from it.
func loadDictionary(pr *utils.PathResolver, cfg *config.Config) (*dictionary.Dictionary, error) {
	format, err := cfg.DictFormat()
	if err != nil {
		return nil, err
	}

	path := cfg.Dict.Path
	if path == "" {
		for _, name := range dictionary.Candidates(cfg.Dict.Resource) {
			if candidate := pr.DictionaryPath(name); utils.FileExists(candidate) {
				path = candidate
				break
			}
		}
		if path == "" {
			return nil, fmt.Errorf("no dictionary named %q found (set [dict] path or -dict)", cfg.Dict.Resource)
		}
	} else {
		path = pr.DictionaryPath(path)
	}

	log.Debugf("Loading dictionary from %s (mmap=%t)", path, cfg.Dict.UseMmap)
	if cfg.Dict.UseMmap {
		return dictionary.OpenFile(path, format)
	}
	return dictionary.ReadFile(path, format)
}

// compile writes dict to out. An empty format is taken from the extension of out.
func compile(dict *dictionary.Dictionary, out, formatName string) error {
	format, err := dictionary.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if format == dictionary.FormatUnknown {
		format = dictionary.Detect(out, nil)
	}
	if format == dictionary.FormatUnknown {
		return fmt.Errorf("cannot tell the format of %s, use -to", out)
	}

	var buf bytes.Buffer
	entries := dict.Entries()
	if err := dictionary.Write(&buf, entries, format); err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(out, buf.Bytes()); err != nil {
		return err
	}
	log.Infof("Wrote %s words to %s (%s)", utils.FormatWithCommas(len(entries)), out, format)
	return nil
}

// openExceptions picks the exception backend: Redis, then the user dictionary file, then
// memory. A backend that fails to open is logged and skipped.
func openExceptions(ctx context.Context, cfg config.ExceptionsConfig) (server.ExceptionStore, func()) {
	noop := func() {}

	if cfg.RedisAddr != "" {
		store, closeRedis, err := openRedis(ctx, cfg)
		if err == nil {
			log.Debugf("Exceptions stored in redis key %s (%d words)", cfg.RedisKey, store.Len())
			return store, closeRedis
		}
		log.Warnf("Redis exceptions unavailable: %v. Trying user dictionary...", err)
	}

	if cfg.UserDict != "" {
		store, err := exceptions.NewPersistent(ctx, exceptions.NewFileBackend(cfg.UserDict))
		if err == nil {
			log.Debugf("Exceptions stored in %s (%d words)", cfg.UserDict, store.Len())
			return store, noop
		}
		log.Warnf("User dictionary unavailable: %v. Keeping exceptions in memory...", err)
	}

	return exceptions.Ephemeral(), noop
}

func openRedis(ctx context.Context, cfg config.ExceptionsConfig) (*exceptions.Persistent, func(), error) {
	backend, err := exceptions.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisKey)
	if err != nil {
		return nil, nil, err
	}
	store, err := exceptions.NewPersistent(ctx, backend)
	if err != nil {
		_ = backend.Close()
		return nil, nil, err
	}
	return store, func() { _ = backend.Close() }, nil
}

// printVersion renders the version banner.
func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["rule"] = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ wordcheck ] Collins dictionary spell checking")
	banner.Print("", "version", Version)
	banner.Print("", "rule", rule.RuleID)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(dict *dictionary.Dictionary, configPath string) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, " wordcheck ")
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("dictionary: %s (%s, %s words)", dict.Resource, dict.Format, utils.FormatWithCommas(dict.Exact.Len()))
	log.Infof("config: ( %s )", config.GetActiveConfigPath(configPath))
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")
}
