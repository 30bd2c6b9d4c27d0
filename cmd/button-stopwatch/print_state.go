package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sweeney/button-stopwatch/internal/config"
	"github.com/sweeney/button-stopwatch/internal/gpio"
	"github.com/sweeney/button-stopwatch/internal/logic"
)

var printStateCmd = &cobra.Command{
	Use:   "print-state",
	Short: "Print the current button level and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		button, err := gpio.NewRealButton(cfg.Pins(), func(logic.ButtonEvent) {})
		if err != nil {
			return fmt.Errorf("init gpio: %w", err)
		}
		defer button.Close()

		return printState(os.Stdout, cfg.Pins(), button)
	},
}

func init() {
	rootCmd.AddCommand(printStateCmd)
}

func printState(w io.Writer, pins gpio.Pins, button gpio.Button) error {
	pressed, err := button.Pressed()
	if err != nil {
		return fmt.Errorf("read gpio: %w", err)
	}

	label := color.New(color.FgCyan, color.Bold)
	state := color.New(color.FgYellow)
	text := "RELEASED"
	if pressed {
		state = color.New(color.FgGreen, color.Bold)
		text = "PRESSED"
	}

	label.Fprintf(w, "SW0 (%s line %d): ", pins.Chip, pins.Button)
	state.Fprintln(w, text)
	return nil
}
