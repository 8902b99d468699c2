package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/vintr/updatemon/internal/biometric"
	"codeberg.org/vintr/updatemon/internal/config"
	"codeberg.org/vintr/updatemon/internal/errors"
	"codeberg.org/vintr/updatemon/internal/logger"
	"codeberg.org/vintr/updatemon/internal/osver"
	"codeberg.org/vintr/updatemon/internal/pid"
	"codeberg.org/vintr/updatemon/internal/rows"
	"codeberg.org/vintr/updatemon/internal/store"
	"codeberg.org/vintr/updatemon/internal/swupdate"
)

const (
	authReason = "allow updatemon to read software update settings"

	// Rows per collection cycle before the buffer starts dropping. Two
	// orders of magnitude above anything the preference domain produces.
	maxBufferedRows = 4096
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Printf("failed to parse log level: %v\n", err)
		os.Exit(1)
	}

	logger.Init(level, logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	errFactory := errors.New()

	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove PID file")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := run(ctx); err != nil {
		logger.Error().Err(errFactory.Wrap(errors.ErrMainLoop, err)).Msg("error in main loop")
		os.Exit(1)
	}
	logger.Info().Msg("Exiting...")
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func run(ctx context.Context) error {
	source := swupdate.NewPreferenceSource("", "")

	configCollector, err := swupdate.NewConfigurationCollector(source)
	if err != nil {
		return err
	}
	productCollector, err := swupdate.NewProductCollector(source)
	if err != nil {
		return err
	}

	osVersion, err := osver.BuildPrefix()
	if err != nil {
		// The reader treats an unknown version as "fill the base flags only".
		logger.Warn().Err(err).Msg("could not detect OS version, using 0")
		osVersion = 0
	}
	logger.Debug().Int("os_version", osVersion).Msg("Detected OS build prefix")

	if cfg.Auth {
		if err := requireAuthentication(ctx); err != nil {
			return err
		}
	}

	var recorder store.Recorder
	if !cfg.Monitor {
		recorder, err = store.NewService(store.Config{DBPath: cfg.Database})
		if err != nil {
			return err
		}
		defer func() {
			if err := recorder.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close rows store")
			}
		}()
	}

	collect := func() {
		if err := collectOnce(ctx, configCollector, productCollector, recorder, osVersion); err != nil {
			logger.Error().Err(err).Msg("collection cycle failed")
		}
	}

	interval := time.Duration(cfg.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if cfg.Monitor {
		logger.Info().Msg("Monitor mode activated. Logging collected rows...")
	}

	collect()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			collect()
		}
	}
}

func requireAuthentication(ctx context.Context) error {
	errFactory := errors.New()

	auth, err := biometric.New(biometric.UnsupportedPrompt())
	if err != nil {
		return err
	}

	result, err := auth.Authenticate(ctx, biometric.Request{
		Reason:  authReason,
		Timeout: time.Duration(cfg.AuthTimeout) * time.Second,
	})
	if err != nil {
		return err
	}

	if !result.Success {
		logger.Warn().
			Int("error_code", result.ErrorCode).
			Str("error_message", result.ErrorMessage).
			Msg("Authentication refused")
		return errFactory.WithData(errors.ErrAuthRequired, result.ErrorMessage)
	}

	logger.Info().Msg("User authenticated")

	return nil
}

func collectOnce(
	ctx context.Context,
	configCollector *swupdate.ConfigurationCollector,
	productCollector *swupdate.ProductCollector,
	recorder store.Recorder,
	osVersion int,
) error {
	at := time.Now()

	configBuf := rows.NewBoundedBuffer(maxBufferedRows)
	if err := configCollector.Collect(ctx, osVersion, configBuf); err != nil {
		return err
	}

	productBuf := rows.NewBoundedBuffer(maxBufferedRows)
	count, scanErr := productCollector.Collect(ctx, productBuf)
	if scanErr != nil {
		// Rows pushed before the failure stand; record them and report the
		// set as incomplete.
		logger.Warn().Err(scanErr).Msg("product scan incomplete")
	}
	if dropped := configBuf.Dropped() + productBuf.Dropped(); dropped > 0 {
		logger.Warn().Uint64("dropped", dropped).Msg("row buffer capacity reached")
	}

	if cfg.Monitor {
		logRecords(configBuf.Rows())
		logRecords(productBuf.Rows())
	} else {
		if err := recorder.RecordConfiguration(ctx, configBuf.Rows(), at); err != nil {
			return err
		}
		if err := recorder.RecordProducts(ctx, productBuf.Rows(), at); err != nil {
			return err
		}
	}

	logger.Debug().
		Int("configuration_rows", configBuf.Len()).
		Int("product_rows", productBuf.Len()).
		Uint("products", count).
		Msg("Collection cycle complete")

	return nil
}

// logRecords regroups the buffered rows by sequence id and logs one event
// per record, fields in emission order.
func logRecords(collected []rows.Row) {
	for _, record := range rows.Group(collected) {
		event := logger.Info().Uint("seq", record.Seq)
		for _, field := range record.Fields {
			event.Str(field.Key, field.Value)
		}
		event.Msg("")
	}
}
