//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/button-stopwatch/internal/logic"
)

// RealButton watches the button line on an actual GPIO chip.
type RealButton struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealButton requests the button line with both-edge detection and
// delivers each edge to handler.
func NewRealButton(pins Pins, handler EdgeHandler) (*RealButton, error) {
	chip, err := gpiocdev.NewChip(pins.Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", pins.Chip, err)
	}

	// The button shorts the line to ground, so pull up and treat low as active.
	opts := []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.AsActiveLow,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			handler(toButtonEvent(evt, time.Now()))
		}),
	}
	if pins.Debounce > 0 {
		opts = append(opts, gpiocdev.WithDebounce(pins.Debounce))
	}

	line, err := chip.RequestLine(pins.Button, opts...)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pins.Button, err)
	}

	return &RealButton{chip: chip, line: line}, nil
}

// toButtonEvent maps a logical edge (active-low already applied by the
// kernel) to a ButtonEvent stamped with the local monotonic clock.
func toButtonEvent(evt gpiocdev.LineEvent, at time.Time) logic.ButtonEvent {
	return logic.ButtonEvent{
		Time:    at,
		Pressed: evt.Type == gpiocdev.LineEventRisingEdge,
	}
}

// Pressed returns the current logical level of the button.
func (b *RealButton) Pressed() (bool, error) {
	v, err := b.line.Value()
	if err != nil {
		return false, fmt.Errorf("read button pin: %w", err)
	}
	return v == 1, nil
}

// Close releases the button line and chip.
func (b *RealButton) Close() error {
	var errs []error
	if b.line != nil {
		if err := b.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pin: %w", err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealIndicators drives two output lines.
type RealIndicators struct {
	chip *gpiocdev.Chip
	led0 *gpiocdev.Line
	led1 *gpiocdev.Line
}

// NewRealIndicators requests both LED lines as outputs, initially off.
func NewRealIndicators(pins Pins) (*RealIndicators, error) {
	chip, err := gpiocdev.NewChip(pins.Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", pins.Chip, err)
	}

	led0, err := chip.RequestLine(pins.LED0, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request LED0 pin %d: %w", pins.LED0, err)
	}

	led1, err := chip.RequestLine(pins.LED1, gpiocdev.AsOutput(0))
	if err != nil {
		led0.Close()
		chip.Close()
		return nil, fmt.Errorf("request LED1 pin %d: %w", pins.LED1, err)
	}

	return &RealIndicators{chip: chip, led0: led0, led1: led1}, nil
}

// Set switches both lights.
func (r *RealIndicators) Set(led0, led1 bool) error {
	if err := r.led0.SetValue(boolToValue(led0)); err != nil {
		return fmt.Errorf("set LED0: %w", err)
	}
	if err := r.led1.SetValue(boolToValue(led1)); err != nil {
		return fmt.Errorf("set LED1: %w", err)
	}
	return nil
}

// Close turns both lights off before releasing the lines so a stopped
// daemon leaves nothing lit.
func (r *RealIndicators) Close() error {
	var errs []error
	for i, line := range []*gpiocdev.Line{r.led0, r.led1} {
		if line == nil {
			continue
		}
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear LED%d: %w", i, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close LED%d pin: %w", i, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func boolToValue(on bool) int {
	if on {
		return 1
	}
	return 0
}
