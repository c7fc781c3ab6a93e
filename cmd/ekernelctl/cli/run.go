package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func runScenario(cmd *cobra.Command, args []string) error {
	cfg := kernelConfig(cmd)
	durationMs, _ := cmd.Flags().GetInt(durationFlag)

	k, port, leds, err := buildScenario(cfg, args[0])
	if err != nil {
		return err
	}
	defer port.Stop()

	go func() {
		_ = k.Start(uint32(cfg.TickHz), nil)
	}()

	time.Sleep(time.Duration(durationMs) * time.Millisecond)

	fmt.Printf("boot %s — %s ran for %dms\n", k.BootID(), args[0], durationMs)
	for pin, on := range leds.Snapshot() {
		fmt.Printf("  %-6s %v\n", pin, on)
	}
	return nil
}
