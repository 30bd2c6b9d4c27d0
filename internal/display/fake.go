package display

import "sync"

// Write records one call to FakeDevice.WriteLine.
type Write struct {
	Row  int
	Text string
}

// FakeDevice records writes for test assertions.
type FakeDevice struct {
	mu     sync.Mutex
	writes []Write
	rows   Lines
	err    error
}

// NewFakeDevice creates an empty FakeDevice.
func NewFakeDevice() *FakeDevice {
	return &FakeDevice{}
}

// WriteLine records the write, or fails with the configured error.
func (f *FakeDevice) WriteLine(row int, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, Write{Row: row, Text: text})
	f.rows[row] = text
	return nil
}

// SetError makes subsequent writes fail with err (nil clears it).
func (f *FakeDevice) SetError(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// Writes returns all successful writes in order.
func (f *FakeDevice) Writes() []Write {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Write(nil), f.writes...)
}

// Lines returns the current contents of each row.
func (f *FakeDevice) Lines() Lines {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows
}
