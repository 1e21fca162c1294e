package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-logfmt/logfmt"
)

// Line is one log line with the fields the panel highlights.
type Line struct {
	Raw     string
	Time    string
	Level   string
	Message string
	Fields  []Field
}

// Field is a key=value pair other than time, level and msg.
type Field struct {
	Key   string
	Value string
}

// Read returns at most maxLines parsed lines from the end of the file at
// path. A missing file yields no lines and no error.
func Read(path string, maxLines int) ([]Line, error) {
	raw, err := readTail(path, maxLines)
	if err != nil {
		return nil, err
	}
	lines := make([]Line, len(raw))
	for i, r := range raw {
		lines[i] = Parse(r)
	}
	return lines, nil
}

// Parse splits a logfmt line as written by the logrus text formatter. Lines
// that are not valid logfmt are returned with only Raw and Message set.
func Parse(raw string) Line {
	line := Line{Raw: raw}
	dec := logfmt.NewDecoder(strings.NewReader(raw))
	for dec.ScanRecord() {
		for dec.ScanKeyval() {
			key, value := string(dec.Key()), string(dec.Value())
			switch key {
			case "time":
				line.Time = value
			case "level":
				line.Level = value
			case "msg":
				line.Message = value
			default:
				line.Fields = append(line.Fields, Field{Key: key, Value: value})
			}
		}
	}
	if dec.Err() != nil || (line.Level == "" && line.Message == "") {
		return Line{Raw: raw, Message: raw}
	}
	return line
}

func readTail(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}
