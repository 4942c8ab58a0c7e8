package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opaldb/opal/gologger"
	"github.com/opaldb/opal/http_server"
	"github.com/opaldb/opal/utils"
)

var logger = gologger.NewLogger()

func main() {
	logger.Debug().Msg("starting opal query engine")

	opal, err := NewOpal()
	if err != nil {
		logger.Error().Err(err).Msg("error creating engine")
		os.Exit(1)
	}

	if utils.DATA_DIR != "" {
		if err := opal.LoadDataDir(context.Background(), utils.DATA_DIR); err != nil {
			logger.Error().Err(err).Msg("error loading data dir")
			os.Exit(1)
		}
	}

	httpServer := http_server.StartHTTPServer(opal.TableStore)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Warn().Msg("received shutdown signal!")

	// For AWS ALB needing some time to de-register pod
	// Convert the time to seconds
	sleepTime := utils.GetEnvOrDefaultInt("SHUTDOWN_SLEEP_SEC", 0)
	logger.Info().Msg(fmt.Sprintf("sleeping for %ds before exiting", sleepTime))

	time.Sleep(time.Second * time.Duration(sleepTime))
	logger.Info().Msg(fmt.Sprintf("slept for %ds, exiting", sleepTime))

	if utils.DATA_DIR != "" {
		if err := opal.SnapshotTables(context.Background(), utils.DATA_DIR); err != nil {
			logger.Error().Err(err).Msg("error snapshotting tables")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown HTTP server")
	} else {
		logger.Info().Msg("successfully shutdown HTTP server")
	}

	if err := opal.TableStore.Shutdown(context.Background()); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown table store")
	}
}
