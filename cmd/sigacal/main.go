package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"sigacal/internal/config"
	appLog "sigacal/internal/log"
	"sigacal/internal/runner"
)

// errMissingCredentials is the exit-code-1 failure: the portal login
// cannot even be attempted.
var errMissingCredentials = errors.New("SIGA credentials could not be obtained")

// flagConfig holds CLI flag values before merging into the config.
type flagConfig struct {
	configPath string
	weeks      int
	out        string
	headless   bool
	dump       bool
	push       bool
	calendarID string
	cronSpec   string
	listen     string
}

func main() {
	appLog.Info("sigacal starting", "version", "1.0.0")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(2)
	}
	applyFlags(conf, flags)

	appLog.Info("effective config",
		"weeks", conf.Weeks,
		"out", conf.OutputPath(),
		"headless", conf.Headless,
		"dump", conf.Dump,
		"push", conf.Push,
		"calendar_id", conf.CalendarID,
		"cron", conf.Cron,
	)

	user, pass, err := credentials()
	if err != nil {
		appLog.Error("missing credentials", err)
		fmt.Fprintln(os.Stderr, "Set SIGA_USER and SIGA_PASS or enter them interactively.")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	pipe := &runner.Pipeline{Cfg: conf, User: user, Pass: pass}

	if conf.Cron != "" {
		if err := pipe.RunDaemon(ctx); err != nil {
			appLog.Error("daemon terminated", err)
			os.Exit(2)
		}
		appLog.Info("sigacal exiting")
		return
	}

	if err := pipe.RunOnce(ctx); err != nil {
		appLog.Error("export failed", err)
		os.Exit(2)
	}

	appLog.Info("sigacal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "", "Path to YAML config file (optional)")
	flag.IntVar(&cfg.weeks, "weeks", 2, "Weeks to capture (1 = current week only)")
	flag.StringVar(&cfg.out, "out", config.DefaultOutputFile, "Calendar output path")
	flag.BoolVar(&cfg.headless, "headless", true, "Run Chromium headless")
	flag.BoolVar(&cfg.dump, "dump", false, "Save horario_dump.html for debugging")
	flag.BoolVar(&cfg.push, "push", false, "Upsert events into Google Calendar")
	flag.StringVar(&cfg.calendarID, "calendar", "primary", "Target Google calendar ID")
	flag.StringVar(&cfg.cronSpec, "cron", "", "Cron schedule; enables daemon mode")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address for daemon mode (overrides config)")

	flag.Parse()

	return cfg
}

// applyFlags overlays flags that were explicitly set over the file
// config, so a config file value survives unless the flag was passed.
func applyFlags(conf *config.Config, flags flagConfig) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "weeks":
			conf.Weeks = flags.weeks
		case "out":
			conf.Out = flags.out
		case "headless":
			conf.Headless = flags.headless
		case "dump":
			conf.Dump = flags.dump
		case "push":
			conf.Push = flags.push
		case "calendar":
			conf.CalendarID = flags.calendarID
		case "cron":
			conf.Cron = flags.cronSpec
		case "listen":
			conf.Listen = flags.listen
		}
	})
	conf.Normalize()
}

// credentials reads SIGA_USER/SIGA_PASS from the environment, prompting
// interactively for whichever is absent. The password prompt does not
// echo. Fails when a value cannot be obtained (e.g. no terminal in CI).
func credentials() (string, string, error) {
	user := strings.TrimSpace(os.Getenv("SIGA_USER"))
	pass := os.Getenv("SIGA_PASS")

	if user == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return "", "", fmt.Errorf("%w: SIGA_USER not set and stdin is not a terminal", errMissingCredentials)
		}
		fmt.Print("Usuario SIGA (correo): ")
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			user = strings.TrimSpace(scanner.Text())
		}
	}

	if pass == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return "", "", fmt.Errorf("%w: SIGA_PASS not set and stdin is not a terminal", errMissingCredentials)
		}
		fmt.Print("Contraseña SIGA: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", "", err
		}
		pass = strings.TrimSpace(string(raw))
	}

	if user == "" || pass == "" {
		return "", "", errMissingCredentials
	}
	return user, pass, nil
}
