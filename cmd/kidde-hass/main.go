package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jkaberg/kidde-hass/internal/app"
	"github.com/jkaberg/kidde-hass/internal/bus"
	"github.com/jkaberg/kidde-hass/internal/config"
	"github.com/jkaberg/kidde-hass/internal/coordinator"
	"github.com/jkaberg/kidde-hass/internal/kidde"
	"github.com/jkaberg/kidde-hass/internal/mqtt"
	"github.com/jkaberg/kidde-hass/internal/transmission"
)

// version is injected at build time via ldflags
var version = "dev"

func main() {
	cfg := parseFlags()

	logger := setupLogger(cfg.Verbose)

	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	logger.WithFields(logrus.Fields{
		"version":   version,
		"bridge_id": cfg.BridgeID,
		"poll":      cfg.PollInterval,
		"mqtt_int":  cfg.MQTTInterval,
	}).Info("Starting kidde-hass")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("Shutdown signal received")
		cancel()
	}()

	// Core clients ---------------------------------------------------------------
	kiddeClient := kidde.NewClient(cfg.KiddeBaseURL, cfg.KiddeEmail, cfg.KiddePassword, cfg.APITimeout, logger)

	messageBus := bus.New()
	coord := coordinator.New(kiddeClient, cfg.PollInterval, messageBus, logger)

	// Transmitter ----------------------------------------------------------------
	var tx transmission.Transmitter
	if cfg.HasMQTT() {
		mqttClient, err := mqtt.NewClient(cfg.MQTTUrl, cfg.BridgeID, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create MQTT client")
		}
		defer mqttClient.Disconnect(250)
		tx = transmission.NewMQTTTransmitter(mqttClient, coord, cfg.DiscoveryPrefix, logger)
		logger.Info("MQTT transmitter ready")
	} else {
		logger.Warn("No MQTT URL configured; data will only be logged")
	}

	// Run application ------------------------------------------------------------
	app.Run(ctx, cfg, coord, messageBus, tx, logger)

	logger.Info("kidde-hass stopped")
}

// -----------------------------------------------------------------------------
// Helpers & Flags
// -----------------------------------------------------------------------------

func parseFlags() *config.Config {
	cfg := config.GetDefaultConfig()

	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.StringVar(&cfg.KiddeEmail, "kidde-email", getEnv("KIDDE_HASS_EMAIL", cfg.KiddeEmail), "HomeSafe account email")
	flag.StringVar(&cfg.KiddePassword, "kidde-password", getEnv("KIDDE_HASS_PASSWORD", cfg.KiddePassword), "HomeSafe account password")
	flag.StringVar(&cfg.KiddeBaseURL, "kidde-base-url", getEnv("KIDDE_HASS_BASE_URL", cfg.KiddeBaseURL), "HomeSafe API base URL override")
	flag.StringVar(&cfg.MQTTUrl, "mqtt-url", getEnv("KIDDE_HASS_MQTT_URL", cfg.MQTTUrl), "MQTT URL")
	flag.StringVar(&cfg.BridgeID, "bridge-id", getEnv("KIDDE_HASS_BRIDGE_ID", cfg.BridgeID), "Bridge identifier")
	flag.BoolVar(&cfg.Verbose, "verbose", getEnv("KIDDE_HASS_VERBOSE", "false") == "true", "Verbose logging")
	flag.StringVar(&cfg.DiscoveryPrefix, "discovery-prefix", getEnv("KIDDE_HASS_DISCOVERY_PREFIX", cfg.DiscoveryPrefix), "HA discovery prefix")

	pollIntervalStr := flag.String("poll-interval", getEnv("KIDDE_HASS_POLL_INTERVAL", ""), "Cloud poll interval (e.g. 60s)")
	mqttIntervalStr := flag.String("mqtt-interval", getEnv("KIDDE_HASS_MQTT_INTERVAL", ""), "MQTT interval (e.g. 60s)")

	flag.Parse()

	if *showVersion {
		fmt.Printf("kidde-hass %s\n", version)
		os.Exit(0)
	}

	// Duration overrides
	if d, ok := parseInterval(*pollIntervalStr); ok {
		cfg.PollInterval = d
	}
	if d, ok := parseInterval(*mqttIntervalStr); ok {
		cfg.MQTTInterval = d
	}

	return cfg
}

// parseInterval accepts either a duration string ("90s") or a bare number
// of seconds ("90").
func parseInterval(s string) (time.Duration, bool) {
	if s == "" {
		return 0, false
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d, true
	}
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return time.Duration(v) * time.Second, true
	}
	return 0, false
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func setupLogger(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}
