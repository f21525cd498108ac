//go:build linux

package gpio

import (
	"fmt"
	"sync/atomic"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/buzzer-sweep/internal/logic"
)

// RealBoard drives actual hardware using Linux GPIO character device.
type RealBoard struct {
	chip    *gpiocdev.Chip
	buttons [logic.ButtonCount]*gpiocdev.Line
	buzzer  *gpiocdev.Line
	comp    *gpiocdev.Line
	status  *gpiocdev.Line
	bank    *gpiocdev.Lines

	level     bool
	writeErrs atomic.Uint64
}

// NewRealBoard requests every line in pins from the named chip.
func NewRealBoard(chipName string, pins Pins) (*RealBoard, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	b := &RealBoard{chip: chip}

	// Buttons are active-low with pull-ups.
	for i, offset := range pins.Buttons() {
		line, err := chip.RequestLine(offset, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("request %s button pin %d: %w", logic.Button(i), offset, err)
		}
		b.buttons[i] = line
	}

	b.buzzer, err = chip.RequestLine(pins.Buzzer, gpiocdev.AsOutput(0))
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("request buzzer pin %d: %w", pins.Buzzer, err)
	}

	if pins.BuzzerComp >= 0 {
		b.comp, err = chip.RequestLine(pins.BuzzerComp, gpiocdev.AsOutput(1))
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("request buzzer complement pin %d: %w", pins.BuzzerComp, err)
		}
	}

	// Indicators are active-low: 1 = off.
	b.status, err = chip.RequestLine(pins.Status, gpiocdev.AsOutput(1))
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("request status pin %d: %w", pins.Status, err)
	}

	offsets := pins.IndicatorLines()
	off := make([]int, len(offsets))
	for i := range off {
		off[i] = 1
	}
	b.bank, err = chip.RequestLines(offsets, gpiocdev.AsOutput(off...))
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("request indicator pins %v: %w", offsets, err)
	}

	return b, nil
}

// ReadButton returns the raw level of a button line.
func (b *RealBoard) ReadButton(btn logic.Button) (bool, error) {
	v, err := b.buttons[btn].Value()
	if err != nil {
		return false, fmt.Errorf("read pin: %w", err)
	}
	return v != 0, nil
}

// Show writes the indicator bank in one request.
func (b *RealBoard) Show(ind logic.Indicators) error {
	if err := b.bank.SetValues(bankValues(ind.Levels())); err != nil {
		return fmt.Errorf("write indicator bank: %w", err)
	}
	return nil
}

// Level returns the buzzer level last written.
func (b *RealBoard) Level() bool {
	return b.level
}

// Set drives the buzzer and its complement. Write failures are counted rather
// than returned so the tone loop never branches on I/O.
func (b *RealBoard) Set(high bool) {
	b.level = high
	if err := b.buzzer.SetValue(boolToInt(high)); err != nil {
		b.writeErrs.Add(1)
	}
	if b.comp != nil {
		if err := b.comp.SetValue(boolToInt(!high)); err != nil {
			b.writeErrs.Add(1)
		}
	}
}

// SetStatus drives the power indicator (active-low).
func (b *RealBoard) SetStatus(on bool) {
	if err := b.status.SetValue(boolToInt(!on)); err != nil {
		b.writeErrs.Add(1)
	}
}

// WriteErrors returns the number of failed output writes.
func (b *RealBoard) WriteErrors() uint64 {
	return b.writeErrs.Load()
}

// Close silences the buzzer, turns the indicators off and releases every line.
// Buttons are left as pulled-up inputs, outputs are reconfigured as inputs so
// nothing is driven after exit.
func (b *RealBoard) Close() error {
	var errs []error

	for i, line := range b.buttons {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s button pin: %w", logic.Button(i), err))
		}
	}

	for name, line := range map[string]*gpiocdev.Line{
		"buzzer":            b.buzzer,
		"buzzer complement": b.comp,
		"status":            b.status,
	} {
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", name, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", name, err))
		}
	}

	if b.bank != nil {
		if err := b.bank.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure indicator pins: %w", err))
		}
		if err := b.bank.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close indicator pins: %w", err))
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
