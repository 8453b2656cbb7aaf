package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pietroscik/marinetraffic/config"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List the configured ports",
	RunE:  runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	for _, p := range cfg.Monitor.Ports {
		fmt.Printf("%-16s lat %8.4f lon %8.4f  %d berths\n", p.Name, p.Lat, p.Lon, p.MaxBerths)
	}
	return nil
}
