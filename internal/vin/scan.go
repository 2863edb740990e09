package vin

import "strings"

// ScanBuffer accumulates keystrokes from a scanner in keyboard-emulation
// mode and detects when a scan is complete.
//
// A scan completes on an explicit terminator (carriage return or line feed)
// or, with AutoComplete set, as soon as the normalized buffer reaches Length.
type ScanBuffer struct {
	AutoComplete bool

	raw  strings.Builder
	done bool
}

// NewScanBuffer returns an empty buffer.
func NewScanBuffer(autoComplete bool) *ScanBuffer {
	return &ScanBuffer{AutoComplete: autoComplete}
}

// Feed appends keystrokes and reports whether the scan completed. Input after
// a terminator in the same chunk is discarded.
func (b *ScanBuffer) Feed(keys string) bool {
	if b.done {
		return true
	}
	for _, r := range keys {
		if r == '\r' || r == '\n' {
			b.done = true
			return true
		}
		b.raw.WriteRune(r)
		if b.AutoComplete && IsComplete(b.raw.String()) {
			b.done = true
			return true
		}
	}
	return false
}

// Terminate marks the scan complete, as an Enter suffix would.
func (b *ScanBuffer) Terminate() {
	b.done = true
}

// Done reports whether the scan completed.
func (b *ScanBuffer) Done() bool {
	return b.done
}

// Raw returns the keystrokes received so far.
func (b *ScanBuffer) Raw() string {
	return b.raw.String()
}

// Value returns the normalized buffer.
func (b *ScanBuffer) Value() string {
	return Sanitize(b.raw.String())
}

// Complete reports whether the normalized buffer is a full VIN.
func (b *ScanBuffer) Complete() bool {
	return len(b.Value()) == Length
}

// Reset clears the buffer for the next scan.
func (b *ScanBuffer) Reset() {
	b.raw.Reset()
	b.done = false
}
