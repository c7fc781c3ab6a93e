package cli

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// runStats mirrors _examples/arctir-proctor/proctor/cmd/cmd.go's
// createTableListOutput: build rows, hand them to tablewriter, render.
func runStats(cmd *cobra.Command, args []string) error {
	cfg := kernelConfig(cmd)
	cfg.UseStatistics = true
	cfg.StatisticsMonitorSwitch = true
	durationMs, _ := cmd.Flags().GetInt(durationFlag)

	k, port, _, err := buildScenario(cfg, args[0])
	if err != nil {
		return err
	}
	defer port.Stop()

	go func() {
		_ = k.Start(uint32(cfg.TickHz), nil)
	}()

	time.Sleep(time.Duration(durationMs) * time.Millisecond)

	jitter, average, count, enabled := k.Stats()
	fmt.Printf("boot %s — switches observed: %d (statistics enabled: %v)\n", k.BootID(), count, enabled)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"metric", "value (ns)"})
	table.Append([]string{"switch average", fmt.Sprintf("%d", average)})
	table.Append([]string{"switch jitter", fmt.Sprintf("%d", jitter)})
	table.Render()

	share := k.CPUAllocation()
	if share == nil {
		return nil
	}
	names := make([]string, 0, len(share))
	for name := range share {
		names = append(names, name)
	}
	sort.Strings(names)

	cpuTable := tablewriter.NewWriter(os.Stdout)
	cpuTable.SetHeader([]string{"process", "cpu share %"})
	for _, name := range names {
		cpuTable.Append([]string{name, fmt.Sprintf("%.2f", share[name])})
	}
	cpuTable.Render()
	return nil
}
