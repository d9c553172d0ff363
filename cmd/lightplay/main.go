// Command lightplay plays a Standard MIDI File back through a MIDI device,
// lighting (turning on, at low velocity) each upcoming note and waiting for
// the player to strike it before moving on, the way a player-piano roll
// waits for a human hand.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Registers the rtmidi-backed driver as gomidi/v2's default, the same
	// blank-import pattern the domain-adjacent corpus CLIs use to wire a
	// concrete backend into drivers.Ins()/drivers.Outs().
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/lightplay-midi/lightplay/device"
	"github.com/lightplay-midi/lightplay/engine"
	"github.com/lightplay-midi/lightplay/internal/sandbox"
	"github.com/lightplay-midi/lightplay/midi"
)

func main() {
	os.Exit(run())
}

// run parses flags, opens the file and MIDI device, sequences playback, and
// returns the process exit status, mirroring original_source/src/main.c's
// main/do_sequencing split (parse, then hand off to the scheduler).
func run() int {
	var debug int
	var dryRun bool

	cmd := &cobra.Command{
		Use:          "lightplay [flags] <midifile>",
		Short:        "Play a Standard MIDI File, lighting keys and waiting for the player",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return playFile(args[0], debug, dryRun)
		},
	}
	cmd.Flags().CountVarP(&debug, "debug", "d", "increase debug verbosity")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false,
		"parse and schedule but never touch the MIDI device")

	if e := cmd.Execute(); e != nil {
		fmt.Fprintln(os.Stderr, "lightplay:", e)
		return 1
	}
	return 0
}

func playFile(path string, debug int, dryRun bool) error {
	f, e := os.Open(path)
	if e != nil {
		return fmt.Errorf("opening midi file %q: %w", path, e)
	}
	defer f.Close()

	header, buf, e := midi.ParseFile(midi.NewByteReader(f))
	if e != nil {
		return fmt.Errorf("parsing midi file %q: %w", path, e)
	}
	if debug > 0 {
		fmt.Fprintf(os.Stderr, "lightplay: parsed %d events, %d ticks/qn\n",
			buf.Len(), header.TicksPerQuarterNote)
	}

	var dev device.Device
	if dryRun {
		dev = device.NewDryRun()
	} else {
		dev = device.NewGoMIDI("", "")
	}

	ctx := context.Background()
	if e := dev.Open(ctx); e != nil {
		return fmt.Errorf("opening midi device: %w", e)
	}
	defer dev.Close()

	if e := sandbox.Enter(); e != nil {
		return fmt.Errorf("entering sandbox: %w", e)
	}

	sched := engine.New(dev, dryRun)
	if e := sched.Run(buf, header.TicksPerQuarterNote); e != nil {
		return fmt.Errorf("playback: %w", e)
	}
	return nil
}
