// Command buzzer-sweep drives a four-button buzzer pattern generator on GPIO
// and publishes its state changes to MQTT. The sim and analyze subcommands
// run the same controller against a virtual board.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sweeney/buzzer-sweep/internal/config"
	"github.com/sweeney/buzzer-sweep/internal/gpio"
	"github.com/sweeney/buzzer-sweep/internal/sweep"
)

var (
	flagChip        string
	flagPinPower    int
	flagPinPattern  int
	flagPinSpeed    int
	flagPinRange    int
	flagPinBuzzer   int
	flagPinComp     int
	flagPinStatus   int
	flagPinRangeLED int
	flagPinPatterns []int

	flagSettle    time.Duration
	flagTick      time.Duration
	flagBroker    string
	flagHeartbeat time.Duration
	flagHTTP      string

	flagSampleRate int
	flagSeed       uint16
	flagNoAudio    bool

	flagPattern string
	flagRange   string
	flagSpeed   int
	flagSeconds float64
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "buzzer-sweep",
		Short: "Buzzer pattern generator with four-button control",
		Long: `buzzer-sweep drives a buzzer with a software square wave whose pitch
follows one of eleven sweep patterns. Four active-low buttons toggle power and
cycle the pattern, speed and frequency range; indicator lines show the
selection and a status line blinks while running.

Use "sim" to run the same controller against a virtual front panel in the
terminal, and "analyze" to measure the patterns offline.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flagChip, "chip", config.Chip, "GPIO chip name")
	pf.IntVar(&flagPinPower, "pin-power", gpio.DefaultPinPower, "BCM pin for the power button")
	pf.IntVar(&flagPinPattern, "pin-pattern", gpio.DefaultPinPattern, "BCM pin for the pattern button")
	pf.IntVar(&flagPinSpeed, "pin-speed", gpio.DefaultPinSpeed, "BCM pin for the speed button")
	pf.IntVar(&flagPinRange, "pin-range", gpio.DefaultPinRange, "BCM pin for the range button")
	pf.IntVar(&flagPinBuzzer, "pin-buzzer", gpio.DefaultPinBuzzer, "BCM pin for the buzzer")
	pf.IntVar(&flagPinComp, "pin-buzzer-comp", gpio.DefaultPinBuzzerComp, "BCM pin for the inverted buzzer line (-1 to disable)")
	pf.IntVar(&flagPinStatus, "pin-status", gpio.DefaultPinStatus, "BCM pin for the status indicator")
	pf.IntVar(&flagPinRangeLED, "pin-range-led", gpio.DefaultPinRangeLED, "BCM pin for the range indicator")
	pf.IntSliceVar(&flagPinPatterns, "pin-patterns", append([]int(nil), gpio.DefaultPatternPins[:]...), "BCM pins for the pattern indicators, in pattern order")

	root.AddCommand(newRunCmd(), newPrintStateCmd(), newSimCmd(), newAnalyzeCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive the hardware and publish state changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pins, err := pinsFromFlags()
			if err != nil {
				return err
			}
			err = run(runOptions{
				chip:      flagChip,
				pins:      pins,
				settle:    flagSettle,
				tick:      flagTick,
				broker:    flagBroker,
				heartbeat: flagHeartbeat,
				httpAddr:  flagHTTP,
			})
			if err != nil {
				log.Printf("fatal: %v", err)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.DurationVar(&flagSettle, "settle", config.Settle, "Debounce settle interval")
	f.DurationVar(&flagTick, "tick", config.Tick, "Status blink tick period")
	f.StringVar(&flagBroker, "broker", config.Broker, "MQTT broker address")
	f.DurationVar(&flagHeartbeat, "heartbeat", config.Heartbeat, "Heartbeat interval (0 to disable)")
	f.StringVar(&flagHTTP, "http", config.HTTPAddr, "HTTP status address (empty to disable)")
	return cmd
}

func newPrintStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print-state",
		Short: "Print the current button levels and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pins, err := pinsFromFlags()
			if err != nil {
				return err
			}
			board, err := gpio.NewRealBoard(flagChip, pins)
			if err != nil {
				return fmt.Errorf("init gpio: %w", err)
			}
			defer board.Close()
			return printState(cmd.OutOrStdout(), board)
		},
	}
}

func newSimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run the controller against a virtual front panel",
		Long: `sim runs the controller against a virtual board in the terminal.
Keys p, n, s and r press the power, pattern, speed and range buttons.
Each audio sample is one loop iteration, so the buzzer line is audible
when a sound device is available.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSim(simOptions{
				sampleRate: flagSampleRate,
				settle:     flagSettle,
				seed:       flagSeed,
				audio:      !flagNoAudio,
			})
		},
	}

	f := cmd.Flags()
	f.IntVar(&flagSampleRate, "sample-rate", config.SampleRate, "Loop iterations (audio samples) per second")
	f.DurationVar(&flagSettle, "settle", config.Settle, "Debounce settle interval")
	f.Uint16Var(&flagSeed, "seed", sweep.DefaultSeed, "Seed for the random patterns")
	f.BoolVar(&flagNoAudio, "no-audio", false, "Do not open the sound device")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Render patterns offline and measure their pitch and duty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.OutOrStdout(), analyzeOptions{
				pattern:    flagPattern,
				rng:        flagRange,
				speed:      flagSpeed,
				seconds:    flagSeconds,
				sampleRate: flagSampleRate,
				seed:       flagSeed,
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&flagPattern, "pattern", "all", `Pattern name or index, or "all"`)
	f.StringVar(&flagRange, "range", "low", "Frequency range (low or high)")
	f.IntVar(&flagSpeed, "speed", 0, "Speed index (0-4)")
	f.Float64Var(&flagSeconds, "seconds", config.AnalyzeSeconds, "Seconds to render per pattern")
	f.IntVar(&flagSampleRate, "sample-rate", config.SampleRate, "Loop iterations (samples) per second")
	f.Uint16Var(&flagSeed, "seed", sweep.DefaultSeed, "Seed for the random patterns")
	return cmd
}

func pinsFromFlags() (gpio.Pins, error) {
	if len(flagPinPatterns) != sweep.PatternCount {
		return gpio.Pins{}, fmt.Errorf("--pin-patterns needs %d pins, got %d", sweep.PatternCount, len(flagPinPatterns))
	}
	pins := gpio.Pins{
		Power:      flagPinPower,
		Pattern:    flagPinPattern,
		Speed:      flagPinSpeed,
		Range:      flagPinRange,
		Buzzer:     flagPinBuzzer,
		BuzzerComp: flagPinComp,
		Status:     flagPinStatus,
		RangeLED:   flagPinRangeLED,
	}
	copy(pins.Patterns[:], flagPinPatterns)
	return pins, nil
}
