// Package scrollbar computes the thumb geometry drawn beside a preview.
package scrollbar

import (
	"encoding/json"
	"fmt"
)

// Bar is a scrollbar thumb in display rows.
type Bar struct {
	// Top is the row the thumb starts on.
	Top int

	// Length is the number of rows the thumb covers.
	Length int
}

// MarshalJSON encodes the bar as a [top, length] pair.
func (b Bar) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{b.Top, b.Length})
}

// UnmarshalJSON decodes a [top, length] pair.
func (b *Bar) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode scrollbar: %w", err)
	}
	b.Top, b.Length = pair[0], pair[1]
	return nil
}

// Geometry describes the window a scrollbar is drawn in.
type Geometry struct {
	// WinHeight is the preview window height in rows.
	WinHeight int

	// Border is true when the host draws a border around the window.
	Border bool
}

// ForFile returns the thumb for a preview that starts at the top of a file
// and shows visible of total rows. It reports false when no thumb should be
// drawn.
func ForFile(visible, total int, geo Geometry) (Bar, bool) {
	length, ok := thumbLength(visible, total, geo.WinHeight)
	if !ok {
		return Bar{}, false
	}

	top := 0
	if geo.Border {
		length = shrinkForBorder(length, geo.WinHeight)
		top = 1
	}

	return Bar{Top: top, Length: length}, true
}

// ForWindow returns the thumb for a preview showing rows [start, end) of
// total rows.
func ForWindow(start, end, total int, geo Geometry) (Bar, bool) {
	if end < start {
		return Bar{}, false
	}

	length, ok := thumbLength(end-start, total, geo.WinHeight)
	if !ok {
		return Bar{}, false
	}

	top := min(start*geo.WinHeight/total, geo.WinHeight)
	if geo.Border {
		length = shrinkForBorder(length, geo.WinHeight)
		top = max(top, 1)
	}

	return Bar{Top: top, Length: length}, true
}

// thumbLength scales visible rows into the window, truncating toward zero,
// and clamps the result to the window height.
func thumbLength(visible, total, winHeight int) (int, bool) {
	if total <= 0 || visible <= 0 || winHeight <= 0 {
		return 0, false
	}

	length := visible * winHeight / total
	if length == 0 {
		return 0, false
	}

	return min(length, winHeight), true
}

func shrinkForBorder(length, winHeight int) int {
	if length == winHeight {
		return length - 1
	}
	return length
}
