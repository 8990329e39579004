package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/jamebal/hacs-chinese-holidays/internal/config"
	"github.com/jamebal/hacs-chinese-holidays/internal/daemon"
	"github.com/jamebal/hacs-chinese-holidays/internal/holiday"
	"github.com/jamebal/hacs-chinese-holidays/internal/publish"
	"github.com/jamebal/hacs-chinese-holidays/pkg/dateutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chinese-holidays",
		Short: "Chinese holiday status publisher",
		Long:  "Classifies the current day as workday, weekend or holiday from the Chinese production calendar and publishes the result to Home Assistant",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Daemon.LogFile != "" {
				logger, err = initFileLogger(cfg.Daemon.LogFile, cfg.Daemon.LogLevel)
				if err != nil {
					initLogger() // Fallback to console
				}
			} else {
				initLogger() // Default console logger
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Config file path")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(checkCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the daemon: refresh immediately, then daily at the configured time",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg.ExpandEnvVars()

			sink, cleanup, err := buildSink(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			if sink == nil {
				logger.Warn("No sink configured, results will only be logged")
			}

			provider := holiday.NewAPIProvider(cfg.API.GetBaseURL(), logger)
			classifier := holiday.NewClassifier(provider, sink, logger)

			hour, minute := cfg.Daemon.GetDailyTime()
			d := daemon.NewDaemon(classifier, hour, minute, cfg.Daemon.SystemTray, logger)

			return d.Start()
		},
	}
}

func checkCmd() *cobra.Command {
	var noPublish bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Classify today once and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg.ExpandEnvVars()

			var sink holiday.Sink
			cleanup := func() {}
			if !noPublish {
				sink, cleanup, err = buildSink(cfg)
				if err != nil {
					return err
				}
			}
			defer cleanup()

			provider := holiday.NewAPIProvider(cfg.API.GetBaseURL(), logger)
			classifier := holiday.NewClassifier(provider, sink, logger)

			result := classifier.Refresh(dateutil.Today())

			fmt.Printf("State: %s\n", result.State)

			keys := make([]string, 0, len(result.Attributes))
			for k := range result.Attributes {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("  %s: %v\n", k, result.Attributes[k])
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&noPublish, "no-publish", false, "Skip publishing to configured sinks")

	return cmd
}

// buildSink assembles the configured sinks. Returns nil when none are
// configured; cleanup is always safe to call.
func buildSink(cfg *config.Config) (holiday.Sink, func(), error) {
	var sinks []holiday.Sink
	cleanup := func() {}

	if cfg.MQTT.Broker != "" {
		mqttSink, err := publish.NewMQTTSink(publish.MQTTOptions{
			Broker:            cfg.MQTT.Broker,
			ClientID:          cfg.MQTT.GetClientID(),
			Username:          cfg.MQTT.Username,
			Password:          cfg.MQTT.Password,
			StateTopic:        cfg.MQTT.StateTopic,
			AttributesTopic:   cfg.MQTT.AttributesTopic,
			AvailabilityTopic: cfg.MQTT.AvailabilityTopic,
			QoS:               byte(cfg.MQTT.QoS),
			Retain:            cfg.MQTT.Retain,
		}, logger)
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to set up MQTT sink: %w", err)
		}
		sinks = append(sinks, mqttSink)
		cleanup = mqttSink.Close
	}

	if cfg.HomeAssistant.URL != "" {
		sinks = append(sinks, publish.NewHASink(
			cfg.HomeAssistant.URL,
			cfg.HomeAssistant.Token,
			cfg.HomeAssistant.EntityID,
			logger,
		))
	}

	switch len(sinks) {
	case 0:
		return nil, cleanup, nil
	case 1:
		return sinks[0], cleanup, nil
	default:
		return publish.NewMultiSink(logger, sinks...), cleanup, nil
	}
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
