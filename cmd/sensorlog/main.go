package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sensorlog/internal/analysis"
	"sensorlog/internal/archive"
	"sensorlog/internal/config"
	"sensorlog/internal/hardware"
	"sensorlog/internal/logfile"
	"sensorlog/internal/logging"
	"sensorlog/internal/safety"
	"sensorlog/internal/sensor"
	"sensorlog/internal/session"
	"sensorlog/internal/simulate"
	"sensorlog/internal/tui"
)

const version = "1.0.0"

func main() {
	if len(os.Args) <= 1 {
		runMenu()
		return
	}

	command := strings.ToLower(os.Args[1])
	if handler, ok := commandHandlers()[command]; ok {
		handler()
		return
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
	printUsage()
	os.Exit(1)
}

func commandHandlers() map[string]func() {
	return map[string]func(){
		"bridge":        func() { runMode(config.ModeBridge, os.Args[2:]) },
		"env":           func() { runMode(config.ModeEnvironmental, os.Args[2:]) },
		"environmental": func() { runMode(config.ModeEnvironmental, os.Args[2:]) },
		"config":        runConfigCommand,
		"version":       runVersion,
		"help":          printUsage,
		"--help":        printUsage,
		"-h":            printUsage,
	}
}

func runVersion() {
	fmt.Printf("sensorlog version %s\n", version)
}

// runMenu starts the interactive mode selection menu and then runs the
// chosen mode with configuration defaults.
func runMenu() {
	logger := logging.NewLogger(logging.LevelInfo, nil)

	logger.Info("app.started", "Application started", map[string]any{
		"version": version,
		"ts":      time.Now().UTC().Format(time.RFC3339),
	})

	mode, err := tui.SelectMode(logger)
	if err != nil {
		logger.Error("app.error", "Application error", map[string]any{
			"error": err.Error(),
		})
		fmt.Fprintf(os.Stderr, "Error running menu: %v\n", err)
		os.Exit(1)
	}

	if mode == "" {
		logger.Info("app.exited", "Application exited", map[string]any{
			"reason": "no mode selected",
		})
		return
	}

	runMode(mode, nil)
}

// sessionFlags holds the command line overrides for one monitoring run.
type sessionFlags struct {
	configPath string
	duration   int
	intervalMs int
	output     string
	threshold  float64
	device     string
}

func parseSessionFlags(mode string, args []string) sessionFlags {
	flags := sessionFlags{}

	fs := flag.NewFlagSet(mode, flag.ExitOnError)
	fs.StringVar(&flags.configPath, "config", "", "path to an explicit configuration file")
	fs.IntVar(&flags.duration, "duration", 0, "session duration in seconds")
	fs.IntVar(&flags.intervalMs, "interval-ms", 0, "sampling interval in milliseconds")
	fs.StringVar(&flags.output, "output", "", "log output directory")
	fs.Float64Var(&flags.threshold, "threshold", 0, "anomaly threshold multiplier")
	fs.StringVar(&flags.device, "device", "", "serial device path (reads hardware instead of simulating)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	return flags
}

// loadConfig resolves the effective configuration: file merge first, then
// command line overrides.
func loadConfig(mode string, flags sessionFlags) (config.Config, error) {
	var cfg config.Config
	var err error

	if flags.configPath != "" {
		cfg, err = config.LoadFrom(flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}

	cfg.Session.Mode = mode
	if flags.duration > 0 {
		cfg.Session.DurationSeconds = flags.duration
	}
	if flags.intervalMs > 0 {
		cfg.Session.IntervalMs = flags.intervalMs
	}
	if flags.output != "" {
		cfg.Logfile.Directory = flags.output
	}
	if flags.threshold > 0 {
		cfg.Anomaly.ThresholdMultiplier = flags.threshold
	}
	if flags.device != "" {
		cfg.Hardware.Device = flags.device
	}

	return cfg, nil
}

// runMode executes one monitoring session in the given mode.
func runMode(mode string, args []string) {
	flags := parseSessionFlags(mode, args)

	cfg, err := loadConfig(mode, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.Logging.Level), nil)

	writer, err := newLogWriter(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}

	interval := time.Duration(cfg.Session.IntervalMs) * time.Millisecond

	source, err := newSource(mode, cfg, interval, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data source: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := source.Close(); cerr != nil {
			logger.Warn("app.source_close_failed", "Failed to close data source", map[string]any{
				"error": cerr.Error(),
			})
		}
	}()

	sessionConfig := session.Config{
		Duration:            time.Duration(cfg.Session.DurationSeconds) * time.Second,
		Interval:            interval,
		Analyze:             true,
		AnalyzeKind:         analyzeKindFor(mode),
		Anomaly:             anomalyConfigFrom(cfg),
		TrendWindow:         cfg.Anomaly.TrendWindow,
		MovingAverageWindow: cfg.MovingAverage.Window,
	}

	sess, err := session.New(sessionConfig, source, writer, classifierFor(mode, interval), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating session: %v\n", err)
		os.Exit(1)
	}
	sess.Observer = consoleObserver(mode)

	fmt.Printf("Starting %s monitoring for %ds (interval %dms)\n", mode, cfg.Session.DurationSeconds, cfg.Session.IntervalMs)
	fmt.Printf("Logging to: %s\n", writer.Path())
	fmt.Println("Press Ctrl+C to stop early.")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := sess.Run(ctx)

	result, finalizeErr := sess.Finalize()

	fmt.Println()
	fmt.Println(renderReport(mode, result))

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Session failed: %v\n", runErr)
		os.Exit(1)
	}
	if finalizeErr != nil {
		fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", finalizeErr)
		os.Exit(1)
	}
}

// newLogWriter builds the rotating CSV writer and, when configured,
// attaches gzip compression of rotated files.
func newLogWriter(cfg config.Config, logger *logging.Logger) (*logfile.Writer, error) {
	writerConfig := logfile.Config{
		Directory:              cfg.Logfile.Directory,
		BaseName:               cfg.Logfile.BaseName,
		RotationThresholdBytes: int64(cfg.Logfile.RotationMiB) * 1024 * 1024,
		BufferCapacity:         cfg.Logfile.BufferRecords,
		FlushInterval:          time.Duration(cfg.Logfile.FlushIntervalMs) * time.Millisecond,
	}

	writer, err := logfile.New(writerConfig, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Logfile.CompressRotated {
		archiver := archive.New(logger)
		writer.OnRotated = func(oldPath string) {
			if _, cerr := archiver.Compress(oldPath); cerr != nil {
				logger.Warn("archive.compress_failed", "Failed to compress rotated log", map[string]any{
					"path":  oldPath,
					"error": cerr.Error(),
				})
			}
		}
	}

	return writer, nil
}

// newSource picks the acquisition source: a serial device when configured,
// otherwise the mode's simulator.
func newSource(mode string, cfg config.Config, interval time.Duration, logger *logging.Logger) (session.Source, error) {
	if cfg.Hardware.Device != "" {
		timeout := time.Duration(cfg.Hardware.TimeoutMs) * time.Millisecond
		src, err := hardware.OpenSerial(cfg.Hardware.Device, cfg.Hardware.BaudRate, timeout, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	}

	seed := cfg.Simulator.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim := simulate.New(interval.Seconds(), seed)
	if mode == config.ModeBridge {
		return simulate.NewBridgeSource(sim), nil
	}
	return simulate.NewEnvironmentalSource(sim), nil
}

func analyzeKindFor(mode string) sensor.Kind {
	if mode == config.ModeBridge {
		return sensor.KindVibration
	}
	return sensor.KindTemperature
}

func classifierFor(mode string, interval time.Duration) safety.Classifier {
	if mode == config.ModeBridge {
		return safety.NewBridgePolicy(interval.Seconds())
	}
	return nil
}

func anomalyConfigFrom(cfg config.Config) analysis.AnomalyConfig {
	return analysis.AnomalyConfig{
		ThresholdMultiplier:   cfg.Anomaly.ThresholdMultiplier,
		AbsoluteThreshold:     cfg.Anomaly.AbsoluteThreshold,
		MinSamplesForAnalysis: uint64(cfg.Anomaly.MinSamplesForAnalysis),
	}
}

// consoleObserver prints live progress: one line per anomaly plus a
// heartbeat every 50 readings.
func consoleObserver(mode string) func(session.Update) {
	return func(u session.Update) {
		if u.Anomaly.IsAnomaly {
			fmt.Printf("⚠ anomaly at reading %d: %s %.6f %s (severity %.2f, %s)\n",
				u.Processed, u.Reading.Kind, u.Reading.Value, u.Reading.Unit,
				u.Anomaly.Severity, u.Anomaly.Reason)
			return
		}
		if u.Processed%50 == 0 {
			fmt.Printf("  %d readings | %s %.4f %s | avg %.4f | mean %.4f stddev %.4f\n",
				u.Processed, u.Reading.Kind, u.Reading.Value, u.Reading.Unit,
				u.MovingAverage, u.Statistics.Mean, u.Statistics.StdDev)
		}
	}
}

// runConfigCommand validates configuration files.
func runConfigCommand() {
	logger := logging.NewLogger(logging.LevelInfo, nil)

	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: sensorlog config <subcommand>\n")
		fmt.Fprintf(os.Stderr, "Subcommands:\n")
		fmt.Fprintf(os.Stderr, "  test [path]  Test configuration file for validity\n")
		os.Exit(1)
	}

	subcommand := strings.ToLower(os.Args[2])

	switch subcommand {
	case "test":
		runConfigTest(logger)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", subcommand)
		fmt.Fprintf(os.Stderr, "Valid subcommands: test\n")
		os.Exit(1)
	}
}

func runConfigTest(logger *logging.Logger) {
	var cfg config.Config
	var configErr error

	if len(os.Args) > 3 {
		path := os.Args[3]
		fmt.Printf("Testing configuration file: %s\n", path)
		cfg, configErr = config.LoadFrom(path)
	} else {
		fmt.Println("Testing configuration (system + user merge):")
		cfg, configErr = config.Load()
	}

	if configErr != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration validation FAILED:\n")
		fmt.Fprintf(os.Stderr, "   %v\n", configErr)

		logger.Error("config.validation.error", "Configuration validation failed", map[string]any{
			"error": configErr.Error(),
		})
		os.Exit(1)
	}

	fmt.Println("✓ Configuration is VALID")
	fmt.Println()
	fmt.Println("Configuration Summary:")
	fmt.Printf("  Mode:                 %s\n", cfg.Session.Mode)
	fmt.Printf("  Duration:             %ds\n", cfg.Session.DurationSeconds)
	fmt.Printf("  Interval:             %dms\n", cfg.Session.IntervalMs)
	fmt.Printf("  Threshold Multiplier: %.2f\n", cfg.Anomaly.ThresholdMultiplier)
	fmt.Printf("  Log Directory:        %s\n", cfg.Logfile.Directory)
	fmt.Printf("  Rotation Threshold:   %d MiB\n", cfg.Logfile.RotationMiB)
	fmt.Printf("  Log Level:            %s\n", cfg.Logging.Level)

	logger.Info("config.validation.ok", "Configuration validation passed", map[string]any{
		"mode": cfg.Session.Mode,
	})
}

// printUsage displays usage information.
func printUsage() {
	fmt.Printf(`sensorlog - Streaming Sensor Analysis & Logging Tool (version %s)

Usage:
  sensorlog                        Start the interactive mode menu (default)
  sensorlog bridge [flags]         Run bridge vibration monitoring
  sensorlog env [flags]            Run environmental monitoring
  sensorlog config test [path]     Test configuration file for validity
  sensorlog version                Print version information
  sensorlog help                   Show this help message

Flags (bridge, env):
  --duration <seconds>             Session duration (default from config)
  --interval-ms <ms>               Sampling interval in milliseconds
  --output <dir>                   Log output directory
  --threshold <multiplier>         Anomaly threshold multiplier
  --device <path>                  Read from a serial device instead of simulating
  --config <path>                  Use an explicit configuration file
`, version)
}
