package loader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

var separators = []rune{',', ';', '\t', '|'}

// readDelimited parses a delimited text file. A zero sep is detected
// from the first line.
func readDelimited(path string, sep rune) ([]string, [][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if sep == 0 {
		sep = DetectSeparator(raw)
	}
	return parseDelimited(bytes.NewReader(raw), sep)
}

func parseDelimited(r io.Reader, sep rune) ([]string, [][]string, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, ErrNoHeader
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read record: %w", err)
		}
		records = append(records, rec)
	}
	return header, records, nil
}

// DetectSeparator picks the candidate separator that occurs most often
// on the first line, ignoring quoted text. Comma wins ties and empty input.
func DetectSeparator(raw []byte) rune {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}

	counts := make(map[rune]int, len(separators))
	inQuotes := false
	for _, ch := range string(line) {
		if ch == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[ch]++
		}
	}

	best := ','
	for _, sep := range separators {
		if counts[sep] > counts[best] {
			best = sep
		}
	}
	return best
}
