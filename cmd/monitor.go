package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pietroscik/marinetraffic/app"
	"github.com/pietroscik/marinetraffic/config"
	"github.com/pietroscik/marinetraffic/infra/logger"
	"github.com/pietroscik/marinetraffic/pkg/export"
)

var (
	outputPath   string
	outputFormat string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run a single monitoring cycle and print a summary",
	RunE:  runOnce,
}

func init() {
	monitorCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write full reports to this file")
	monitorCmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format: json or csv")
	rootCmd.AddCommand(monitorCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("monitor-command").Errorf("service close: %v", err)
		}
	}()

	reports := svc.RunOnce(ctx)
	names := make([]string, 0, len(reports))
	for name := range reports {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rep := reports[name]
		if rep.Failed() {
			fmt.Printf("%-16s FAILED: %s\n", name, rep.Error)
			continue
		}
		fmt.Printf("%-16s %3d vessels, %2d priority, berths %.1f%%", name,
			rep.Stats.VesselCount, len(rep.PriorityArrivals), rep.Capacity.UtilizationPercent)
		if rep.Capacity.Congested {
			fmt.Print(" CONGESTED")
		}
		if rep.Stale {
			fmt.Print(" (stale)")
		}
		fmt.Println()
	}

	if outputPath == "" {
		return nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()
	all := svc.Store.All()
	switch outputFormat {
	case "json":
		err = export.WriteJSON(f, all)
	case "csv":
		err = export.WriteCSV(f, all)
	default:
		err = fmt.Errorf("unknown format %s", outputFormat)
	}
	if err != nil {
		return err
	}
	fmt.Printf("reports written to %s\n", outputPath)
	return nil
}
