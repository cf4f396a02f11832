package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/OffBroadway/diskio/pkg/configuration"
	"github.com/OffBroadway/diskio/pkg/diskio"
	"github.com/OffBroadway/diskio/pkg/medium"
	"github.com/OffBroadway/diskio/pkg/volume"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	ftpserver "github.com/fclairamb/ftpserverlib"
	log "github.com/fclairamb/go-log"
	gologrus "github.com/fclairamb/go-log/logrus"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: diskio diskio.jsonnet")
		os.Exit(2)
	}
	var config configuration.Configuration
	if err := configuration.UnmarshalConfigurationFromFile(os.Args[1], &config); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read configuration from %s: %s\n", os.Args[1], err)
		os.Exit(1)
	}

	logrusLogger := logrus.New()
	if config.LogLevel != "" {
		level, err := logrus.ParseLevel(config.LogLevel)
		if err != nil {
			logrusLogger.Fatalf("Invalid log level: %s", err)
		}
		logrusLogger.SetLevel(level)
	}
	logger := gologrus.NewWrap(logrusLogger)

	if err := run(&config, logger, logrusLogger); err != nil {
		logger.Error("Server failed", "err", err)
		os.Exit(1)
	}
	logger.Info("Done")
}

// closeAll releases media, reporting failures as they may have lost
// written data.
func closeAll(closers []io.Closer, logger log.Logger) {
	for _, closer := range closers {
		if err := closer.Close(); err != nil {
			logger.Warn("Failed to close medium", "err", err)
		}
	}
}

func run(config *configuration.Configuration, logger log.Logger, logrusLogger *logrus.Logger) error {
	devices, closers, err := medium.NewDevicesFromConfiguration(afero.NewOsFs(), config.Drives, config.ReadOnly)
	if err != nil {
		return err
	}
	defer closeAll(closers, logger)
	options, err := diskio.NewOptionsFromConfiguration(config)
	if err != nil {
		return err
	}
	options = append(options, diskio.WithLogger(logger.With("component", "diskio")))
	adapter := diskio.NewAdapter(devices, options...)

	exports := make(map[string]diskio.Drive, len(config.Drives))
	for _, d := range config.Drives {
		exports[d.Name] = diskio.Drive(d.Drive)
	}
	vol := volume.New(adapter, exports, logger.With("component", "volume"))

	// Mount everything up front, so that broken media are reported at
	// startup. Drives that are not ready are retried on first access.
	for _, pdrv := range adapter.Drives() {
		if status := adapter.Initialize(pdrv); status != diskio.StatusReady {
			logger.Warn("Drive not ready", "drive", pdrv, "status", status)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	group, ctx := errgroup.WithContext(ctx)
	serving := false

	if config.Ftp != nil {
		serving = true
		srv := ftpserver.NewFtpServer(
			&FTPServer{
				Settings: &ftpserver.Settings{
					ListenAddr: config.Ftp.ListenAddress,
					PublicHost: config.Ftp.PublicHost,
				},
				FileSystem: vol,
				Logger:     logger.With("component", "ftp"),
				Username:   config.Ftp.Username,
				Password:   config.Ftp.Password,
			},
		)
		srv.Logger = logger.With("component", "ftpserver")
		group.Go(func() error {
			logger.Info("Serving FTP", "address", config.Ftp.ListenAddress)
			err := srv.ListenAndServe()
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("FTP server: %w", err)
		})
		group.Go(func() error {
			<-ctx.Done()
			srv.Stop()
			return nil
		})
	}

	if config.HttpListenAddress != "" {
		serving = true
		accessLog := logrusLogger.Writer()
		defer accessLog.Close()
		server := &http.Server{
			Addr:    config.HttpListenAddress,
			Handler: newHandler(vol, logger.With("component", "webdav"), accessLog),
		}
		group.Go(func() error {
			logger.Info("Serving HTTP", "address", config.HttpListenAddress)
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server: %w", err)
			}
			return nil
		})
		group.Go(func() error {
			<-ctx.Done()
			return server.Shutdown(context.Background())
		})
	}

	if !serving {
		return errors.New("neither FTP nor HTTP is configured")
	}
	return group.Wait()
}
