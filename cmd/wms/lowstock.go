package main

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/monitor"
	"github.com/spf13/cobra"
)

var lowStockCmd = &cobra.Command{
	Use:   "lowstock:scan",
	Short: "Publish low stock events once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := bootstrap()
		defer log.Sync()

		in, err := connect(cfg, log)
		if err != nil {
			return err
		}
		defer in.close()

		svc := buildServices(in, log)
		n, err := monitor.NewLowStockMonitor(svc.inventory, cfg.Monitor.LowStockSchedule, log).Scan(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d products below minimum stock\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lowStockCmd)
}
