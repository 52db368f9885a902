package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-drumkit/kit"
	"go-drumkit/theme"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "leds":
		testLEDs()
	case "notes":
		port := ""
		if len(os.Args) > 2 {
			port = os.Args[2]
		}
		testNotes(port)
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list          - List all MIDI output ports")
	fmt.Println("  leds          - Light the kit on a Launchpad X")
	fmt.Println("  notes [port]  - Send every pad's note on channel 10")
}

func listPorts() {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- midi.GetOutPorts()
	}()

	select {
	case outs := <-ch:
		for i, p := range outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

func findOut(match func(name string) bool) drivers.Out {
	for _, p := range midi.GetOutPorts() {
		if match(strings.ToLower(p.String())) {
			return p
		}
	}
	return nil
}

func testLEDs() {
	outPort := findOut(func(name string) bool {
		return strings.Contains(name, "launchpad") && strings.Contains(name, "midi")
	})
	if outPort == nil {
		fmt.Println("No Launchpad found")
		return
	}

	send, err := midi.SendTo(outPort)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	// Programmer mode
	send(midi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F}))
	time.Sleep(100 * time.Millisecond)

	// Bottom row: notes 11-17, one per pad. Raw palette indexes, the real
	// app maps theme colors instead.
	th := theme.Default()
	pads := kit.Pads()
	for i, p := range pads {
		rgb := th.PadRGB(i, len(pads))
		fmt.Printf("  %s %-10s #%02x%02x%02x\n", p.Key, p.Name, rgb[0], rgb[1], rgb[2])
		send(midi.NoteOn(0, uint8(11+i), uint8(5+i*8)))
		time.Sleep(100 * time.Millisecond)
	}

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()

	for i := range pads {
		send(midi.NoteOn(0, uint8(11+i), 0))
	}

	fmt.Println("Done!")
}

func testNotes(port string) {
	outPort := findOut(func(name string) bool {
		if port != "" {
			return name == strings.ToLower(port)
		}
		return !strings.Contains(name, "launchpad")
	})
	if outPort == nil {
		fmt.Println("No output port found")
		return
	}

	send, err := midi.SendTo(outPort)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Using output: %s\n", outPort.String())
	for _, p := range kit.Pads() {
		fmt.Printf("  %s %-10s note %d\n", p.Key, p.Name, p.Note)
		send(midi.NoteOn(9, p.Note, 100))
		send(midi.NoteOff(9, p.Note))
		time.Sleep(300 * time.Millisecond)
	}
}
