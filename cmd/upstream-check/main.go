package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/medibridge/backend/internal/upstream"
	"github.com/medibridge/backend/pkg/apperr"
)

// Manual smoke check for the external collaborators. Run with the same
// environment variables as the server to verify each base URL answers before
// deploying.
func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	timeout := 5 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	failed := false

	if url := os.Getenv("DIRECTORY_SERVICE_URL"); url != "" {
		client := upstream.NewDirectoryClient(url, timeout, logger)
		doctors, err := client.ListDoctors(ctx)
		if err != nil {
			reportFailure(logger, "directory", err)
			failed = true
		} else {
			logger.Info("directory service reachable", zap.Int("doctors", len(doctors)))
		}
	} else {
		logger.Warn("DIRECTORY_SERVICE_URL not set, skipping")
	}

	if url := os.Getenv("INVENTORY_SERVICE_URL"); url != "" {
		client := upstream.NewInventoryClient(url, timeout, logger)
		items, err := client.ListMedicines(ctx)
		if err != nil {
			reportFailure(logger, "inventory", err)
			failed = true
		} else {
			logger.Info("inventory service reachable", zap.Int("medicines", len(items)))
		}
	} else {
		logger.Warn("INVENTORY_SERVICE_URL not set, skipping")
	}

	if url := os.Getenv("SYMPTOMS_SERVICE_URL"); url != "" {
		client := upstream.NewSymptomsClient(url, timeout, logger)
		loaded, err := client.Health(ctx)
		if err != nil {
			reportFailure(logger, "symptoms", err)
			failed = true
		} else {
			logger.Info("symptoms service reachable", zap.Bool("model_loaded", loaded))
		}
	} else {
		logger.Warn("SYMPTOMS_SERVICE_URL not set, skipping")
	}

	if failed {
		os.Exit(1)
	}

	logger.Info("all configured collaborators answered")
}

func reportFailure(logger *zap.Logger, name string, err error) {
	if apperr.IsNetworkUnreachable(err) {
		logger.Error("collaborator unreachable", zap.String("service", name), zap.Error(err))
		return
	}
	if rej, ok := apperr.IsServerRejected(err); ok {
		logger.Error("collaborator rejected the probe",
			zap.String("service", name),
			zap.Int("status", rej.Status),
			zap.String("message", rej.Message),
		)
		return
	}
	logger.Error("collaborator check failed", zap.String("service", name), zap.Error(err))
}
