package cli

import (
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

// runInspect dumps the kernel's internal state — ready list, pending
// events, scheduler cursor — with go-spew, which (unlike
// encoding/json) reaches into unexported fields; that is the entire
// reason it is the right tool here instead of fmt.Printf("%+v", ...).
func runInspect(cmd *cobra.Command, args []string) error {
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

	fmt.Println("-- LED bank --")
	spew.Dump(leds.Snapshot())
	fmt.Println("-- kernel --")
	spew.Dump(k)
	return nil
}
