// Package gpio provides the push button and the two indicator lights with
// hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import (
	"time"

	"github.com/sweeney/button-stopwatch/internal/logic"
)

// EdgeHandler receives button edges. It is called from the GPIO event
// goroutine and must not block.
type EdgeHandler func(logic.ButtonEvent)

// Button watches the push button and reports edges to its EdgeHandler.
type Button interface {
	// Pressed returns the current logical level (true = held down).
	Pressed() (bool, error)

	// Close stops watching and releases GPIO resources.
	Close() error
}

// Indicators drives the two indicator lights.
type Indicators interface {
	// Set switches both lights. true = lit.
	Set(led0, led1 bool) error

	// Close turns both lights off and releases GPIO resources.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	DefaultChip    = "gpiochip0"
	DefaultPinSW0  = 17 // push button to ground
	DefaultPinLED0 = 27
	DefaultPinLED1 = 22
)

// Pins selects the lines used by the real implementations.
type Pins struct {
	Chip     string
	Button   int
	LED0     int
	LED1     int
	Debounce time.Duration // kernel debounce on the button line; 0 disables
}
