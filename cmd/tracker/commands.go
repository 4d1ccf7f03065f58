package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shipment-tracker/internal/config"
	"shipment-tracker/internal/gateway"
	"shipment-tracker/internal/logging"
	"shipment-tracker/internal/server"
	"shipment-tracker/internal/store"
	"shipment-tracker/internal/usecase"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "tracker",
		Short:         "Reconciles shipment CSV feeds into a queryable record set",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand())
	root.AddCommand(newReconcileCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with periodic background reloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

			source := gateway.NewCSVSource(
				cfg.Sources.PrimaryURL,
				cfg.Sources.SupplementalURL,
				cfg.Sources.ItemsURL,
				logger,
			)
			uc := usecase.NewReconciliationUseCase(source, logger)
			service := server.NewService(uc, store.New(), logger)
			srv := server.NewServer(service, cfg, logger)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// The initial load failing is not fatal; the API serves the
			// empty snapshot until a refresh succeeds.
			if _, err := service.Refresh(ctx); err != nil {
				logger.Error().Err(err).Msg("initial load failed")
			}
			go service.RunPeriodic(ctx, cfg.Sources.RefreshInterval)

			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				logger.Info().Msg("shutting down")
				cancel()

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer shutdownCancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Error().Err(err).Msg("shutdown error")
				}
			}()

			return srv.Start()
		},
	}
}

func newReconcileCommand() *cobra.Command {
	var primary, supplemental, items string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run one load and print the reconciled snapshot as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if primary == "" {
				primary = os.Getenv("PRIMARY_CSV_URL")
			}
			if primary == "" {
				return fmt.Errorf("a primary source is required (--primary or PRIMARY_CSV_URL)")
			}
			if supplemental == "" {
				supplemental = os.Getenv("SUPPLEMENTAL_CSV_URL")
			}
			if items == "" {
				items = os.Getenv("ITEMS_CSV_URL")
			}
			logger := logging.Setup(stringOr(os.Getenv("LOG_LEVEL"), "warn"), "console")

			source := gateway.NewCSVSource(primary, supplemental, items, logger)
			uc := usecase.NewReconciliationUseCase(source, logger)
			service := server.NewService(uc, store.New(), logger)

			snap, err := service.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			output, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return nil
		},
	}
	cmd.Flags().StringVar(&primary, "primary", "", "Primary CSV path or URL")
	cmd.Flags().StringVar(&supplemental, "supplemental", "", "Supplemental CSV path or URL (optional)")
	cmd.Flags().StringVar(&items, "items", "", "Line-item CSV path or URL (optional)")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tracker version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func stringOr(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
