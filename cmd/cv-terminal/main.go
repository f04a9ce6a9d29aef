package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/neo1908/cv-terminal/internal/api"
	"github.com/neo1908/cv-terminal/internal/cache"
	"github.com/neo1908/cv-terminal/internal/config"
	"github.com/neo1908/cv-terminal/internal/cv"
	"github.com/neo1908/cv-terminal/internal/dispatch"
	"github.com/neo1908/cv-terminal/internal/doctor"
	"github.com/neo1908/cv-terminal/internal/events"
	"github.com/neo1908/cv-terminal/internal/log"
	"github.com/neo1908/cv-terminal/internal/tui"
	"github.com/neo1908/cv-terminal/internal/tui/watch"
)

var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	os.Exit(runCLI(os.Args[1:]))
}

func runCLI(cliArgs []string) int {
	if len(cliArgs) < 1 {
		return runRepl(nil)
	}

	cmd := cliArgs[0]
	args := cliArgs[1:]

	switch cmd {
	case "repl":
		return runRepl(args)
	case "exec":
		return runExec(args)
	case "serve":
		return runServe(args)
	case "config":
		return runConfigNoun(args)
	case "doctor":
		return runDoctor(args)
	case "watch":
		return runWatch(args)
	case "version", "--version":
		return runVersion(args)
	case "help", "--help", "-h":
		printUsage(os.Stdout)
		return 0
	default:
		// Flags without a verb belong to the default repl.
		if strings.HasPrefix(cmd, "-") {
			return runRepl(cliArgs)
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(os.Stderr)
		return 1
	}
}

// app is the wired core shared by every front end.
type app struct {
	cache      *cache.Cache
	hub        *events.Hub
	dispatcher *dispatch.Dispatcher
}

// newApp wires fetcher, cache and dispatcher. Logging must already be set up.
func newApp(cfg *config.Config) *app {
	hub := events.NewHub(256)
	fetcher := cv.NewHTTPFetcher(cfg.Source.URL, cfg.Source.Timeout)
	c := cache.New(fetcher, cfg.Source.TTL, cache.WithPublisher(hub))
	return &app{
		cache:      c,
		hub:        hub,
		dispatcher: dispatch.New(c, hub),
	}
}

func loadConfig(fs *flag.FlagSet, args []string) (*config.Config, bool) {
	configPath := fs.String("config", "", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return nil, false
	}
	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, false
	}
	return cfg, true
}

func runRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	cfg, ok := loadConfig(fs, args)
	if !ok {
		return 1
	}

	logFile, err := openLogFile(cfg.Service.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return 1
	}
	// The terminal owns stdout; logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if logFile != nil {
		defer logFile.Close()
		logOut = logFile
	}
	log.Setup(cfg.Service.LogLevel, cfg.Service.LogFormat, logOut)
	logger := log.WithComponent("main")
	logger.Info("cv-terminal starting", "mode", "repl", "version", version, "config", cfg.Path)

	a := newApp(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := tui.Run(ctx, a.dispatcher, tui.Options{Version: "v" + strings.TrimPrefix(currentVersionInfo().Version, "v")}); err != nil {
		logger.Error("terminal exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Terminal error: %v\n", err)
		return 1
	}
	return 0
}

// openLogFile opens path for appending. An empty path yields a nil file.
func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func runExec(args []string) int {
	fs := flag.NewFlagSet("exec", flag.ContinueOnError)
	cfg, ok := loadConfig(fs, args)
	if !ok {
		return 1
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: cv-terminal exec [--config <path>] <command> [args...]")
		return 1
	}

	log.Setup(cfg.Service.LogLevel, cfg.Service.LogFormat, os.Stderr)
	a := newApp(cfg)

	res := a.dispatcher.Execute(context.Background(), strings.Join(fs.Args(), " "))
	if res.IsClear() {
		return 0
	}
	if res.Kind == dispatch.KindError {
		fmt.Fprintln(os.Stderr, res.Content)
		return 1
	}
	fmt.Println(res.Content)
	return 0
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	listen := fs.String("listen", "", "Override api.listen")
	cfg, ok := loadConfig(fs, args)
	if !ok {
		return 1
	}
	if *listen != "" {
		cfg.API.Listen = *listen
	}

	logFile, err := openLogFile(cfg.Service.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return 1
	}
	if logFile != nil {
		defer logFile.Close()
		log.Setup(cfg.Service.LogLevel, cfg.Service.LogFormat, os.Stdout, logFile)
	} else {
		log.Setup(cfg.Service.LogLevel, cfg.Service.LogFormat, os.Stdout)
	}
	logger := log.WithComponent("main")
	logger.Info("cv-terminal starting",
		"mode", "serve",
		"version", version,
		"config", cfg.Path,
		"source", cfg.Source.URL,
		"ttl", cfg.Source.TTL.String(),
	)

	a := newApp(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		_ = a.dispatcher.Warm(ctx)
	}()

	srv := api.New(api.Config{
		Listen:    cfg.API.Listen,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
	}, a.dispatcher, a.cache, a.hub, log.WithComponent("api"))

	if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("API server failed", "error", err)
		return 1
	}
	logger.Info("cv-terminal stopped")
	return 0
}

func runConfigNoun(args []string) int {
	if len(args) < 1 {
		printConfigNounHelp(os.Stderr)
		return 1
	}

	action := args[0]
	actionArgs := args[1:]

	switch action {
	case "check":
		return runConfigCheck(actionArgs)
	case "show":
		return runConfigShow(actionArgs)
	case "help", "--help", "-h":
		printConfigNounHelp(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s\n", action)
		return 1
	}
}

func runConfigCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	cfg, ok := loadConfig(fs, args)
	if !ok {
		return 1
	}

	source := cfg.Path
	if source == "" {
		source = "built-in defaults"
	}
	fmt.Printf("Configuration valid: %s\n", source)
	return 0
}

func runConfigShow(args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "Output in structured JSON format")
	cfg, ok := loadConfig(fs, args)
	if !ok {
		return 1
	}

	if *jsonOut {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render config JSON: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render config: %v\n", err)
		return 1
	}
	fmt.Print(string(data))
	return 0
}

func runDoctor(args []string) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "Output in structured JSON format")
	offline := fs.Bool("offline", false, "Skip fetching the CV source")
	cfg, ok := loadConfig(fs, args)
	if !ok {
		return 1
	}
	log.Discard()

	var fetcher doctor.Fetcher
	if !*offline {
		fetcher = cv.NewHTTPFetcher(cfg.Source.URL, cfg.Source.Timeout)
	}
	result := doctor.New(cfg, fetcher).Validate(context.Background())

	if *jsonOut {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render result JSON: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
	} else {
		printValidationSummary(result)
	}

	if !result.Valid {
		return 1
	}
	return 0
}

func printValidationSummary(result *doctor.Result) {
	for _, e := range result.Errors {
		fmt.Printf("ERROR   [%s] %s: %s\n", e.Category, e.Field, e.Message)
	}
	for _, w := range result.Warnings {
		fmt.Printf("WARNING [%s] %s: %s\n", w.Category, w.Field, w.Message)
	}
	if src := result.Source; src != nil {
		fmt.Printf("Source OK: %s (%d bytes, digest %s, %dms)\n",
			src.URL, src.Bytes, cv.ShortDigest(src.Digest), src.DurationMS)
	}
	if result.Valid {
		fmt.Printf("Configuration valid (%d warning(s))\n", len(result.Warnings))
	} else {
		fmt.Printf("Configuration invalid (%d error(s), %d warning(s))\n", len(result.Errors), len(result.Warnings))
	}
}

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	apiURL := fs.String("url", "", "API base URL (default: http://<api.listen>)")
	cfg, ok := loadConfig(fs, args)
	if !ok {
		return 1
	}
	log.Discard()

	target := strings.TrimRight(*apiURL, "/")
	if target == "" {
		target = "http://" + cfg.API.Listen
	}
	if err := watch.Run(target); err != nil {
		fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
		return 1
	}
	return 0
}

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

func runVersion(args []string) int {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "Output version metadata as JSON")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "Usage: cv-terminal version [--json]")
		return 1
	}

	info := currentVersionInfo()

	if *jsonOut {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render version JSON: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	fmt.Printf("cv-terminal %s\n", info.Version)
	fmt.Printf("commit: %s\n", info.Commit)
	fmt.Printf("built_at: %s\n", info.BuildTime)
	return 0
}

func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:   strings.TrimSpace(version),
		Commit:    "unknown",
		BuildTime: "unknown",
	}
	if info.Version == "" {
		info.Version = "0.0.0-dev"
	}

	commit := strings.TrimSpace(gitCommit)
	if commit == "" || commit == "unknown" {
		commit = strings.TrimSpace(readBuildSetting("vcs.revision"))
	}
	if commit != "" {
		info.Commit = shortenCommit(commit)
	}

	built := strings.TrimSpace(buildDate)
	if built == "" || built == "unknown" {
		built = strings.TrimSpace(readBuildSetting("vcs.time"))
	}
	if t, err := time.Parse(time.RFC3339Nano, built); err == nil {
		info.BuildTime = t.UTC().Format(time.RFC3339)
	}

	return info
}

func shortenCommit(commit string) string {
	if len(commit) <= 12 {
		return commit
	}
	return commit[:12]
}

func readBuildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `cv-terminal - Browse a CV from a simulated terminal

Usage:
  cv-terminal [command] [flags]

Commands:
  repl              Interactive terminal (default)
  exec <command>    Run one terminal command and print the result
  serve             Serve the HTTP API until interrupted
  config check      Validate configuration
  config show       Print the effective configuration
  doctor            Check configuration and probe the CV source
  watch             Live view of a running API's cache and events
  version           Show version information
  help              Show this help

Flags:
  --config <path>   Configuration file (default: $CV_TERMINAL_CONFIG,
                    ~/.config/cv-terminal/config.yaml, ./config.yaml)

Terminal commands: `+strings.Join(dispatch.Names(), ", ")+`
`)
}

func printConfigNounHelp(w io.Writer) {
	fmt.Fprint(w, `Usage: cv-terminal config <action> [--config <path>]

Actions:
  check     Validate configuration
  show      Print the effective configuration (--json for JSON)
`)
}
