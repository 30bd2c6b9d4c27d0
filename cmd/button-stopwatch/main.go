// Command button-stopwatch runs a single-button stopwatch on a Raspberry Pi.
//
// A tap starts the stopwatch and records laps, a two-second hold pauses and
// resumes it, and a four-second hold resets it. Elapsed time is drawn on a
// two-line display and two LEDs show the phase and hold progress.
package main

func main() {
	Execute()
}
