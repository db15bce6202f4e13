package fsutil

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Window is a slice of a file's lines around a target line.
type Window struct {
	// Start is the 0-based index of the first line in Lines.
	Start int

	// End is the exclusive 0-based end of the window, clamped to Total.
	End int

	// Total is the number of lines in the whole file.
	Total int

	// HighlightLine is the 1-based position of the target line within Lines.
	HighlightLine int

	// Lines holds the window content without line terminators.
	Lines []string
}

// ReadWindow reads up to height lines around the 1-based line lnum.
//
// When lnum falls in the first half of the window the window starts at the
// top of the file; otherwise the target sits height/2 lines into it.
func ReadWindow(path string, lnum, height int) (*Window, error) {
	if height <= 0 {
		height = 1
	}
	if lnum < 1 {
		lnum = 1
	}

	half := height / 2

	var start, end, highlight int
	if lnum < half {
		start, end, highlight = 0, height, lnum
	} else {
		start, end, highlight = lnum-half, lnum+half, half
	}
	if highlight < 1 {
		highlight = 1
	}

	file, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lines := make([]string, 0, end-start)
	total := 0

	err = eachLine(file, func(line string) {
		if total >= start && total < end {
			lines = append(lines, line)
		}
		total++
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &Window{
		Start:         start,
		End:           min(end, total),
		Total:         total,
		HighlightLine: highlight,
		Lines:         lines,
	}, nil
}

// ReadHead reads at most n lines from the start of a file.
func ReadHead(path string, n int) ([]string, error) {
	file, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lines := make([]string, 0, n)
	reader := bufio.NewReader(file)

	for len(lines) < n {
		line, err := readLine(reader)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// CountLines returns the number of lines in a file. A final line without a
// trailing newline still counts.
func CountLines(path string) (int, error) {
	file, err := open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return countLines(file)
}

func countLines(r io.Reader) (int, error) {
	buf := make([]byte, 32*1024)
	count := 0
	last := byte('\n')

	for {
		n, err := r.Read(buf)
		if n > 0 {
			count += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("count lines: %w", err)
		}
	}

	if last != '\n' {
		count++
	}

	return count, nil
}

// TruncateLines shortens every line wider than maxWidth display cells.
func TruncateLines(lines []string, maxWidth int) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = TruncateLine(line, maxWidth)
	}
	return out
}

// TruncateLine shortens a line wider than maxWidth display cells.
func TruncateLine(line string, maxWidth int) string {
	if maxWidth <= 0 || len(line) <= maxWidth {
		return line
	}
	if runewidth.StringWidth(line) <= maxWidth {
		return line
	}
	return runewidth.Truncate(line, maxWidth, "…")
}

// eachLine calls fn for every line, stripping "\n" and "\r\n" terminators and
// replacing invalid UTF-8.
func eachLine(r io.Reader, fn func(string)) error {
	reader := bufio.NewReader(r)
	for {
		line, err := readLine(reader)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fn(line)
	}
}

func readLine(reader *bufio.Reader) (string, error) {
	raw, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if raw == "" && errors.Is(err, io.EOF) {
		return "", io.EOF
	}

	raw = strings.TrimSuffix(raw, "\n")
	raw = strings.TrimSuffix(raw, "\r")

	return strings.ToValidUTF8(raw, "�"), nil
}
