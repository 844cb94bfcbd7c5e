package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// readJSON reads an array of flat objects. Columns follow the order in
// which keys are first seen.
func readJSON(path string) ([]string, [][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if tok, err := dec.Token(); err != nil || tok != json.Delim('[') {
		return nil, nil, fmt.Errorf("expected a JSON array of objects")
	}

	var (
		header  []string
		index   = map[string]int{}
		objects []map[string]string
	)
	for dec.More() {
		obj, keys, err := readObject(dec)
		if err != nil {
			return nil, nil, err
		}
		for _, k := range keys {
			if _, ok := index[k]; !ok {
				index[k] = len(header)
				header = append(header, k)
			}
		}
		objects = append(objects, obj)
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("malformed JSON: %w", err)
	}
	if len(header) == 0 {
		return nil, nil, ErrNoHeader
	}

	records := make([][]string, len(objects))
	for i, obj := range objects {
		rec := make([]string, len(header))
		for k, v := range obj {
			rec[index[k]] = v
		}
		records[i] = rec
	}
	return header, records, nil
}

func readObject(dec *json.Decoder) (map[string]string, []string, error) {
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, nil, fmt.Errorf("expected a JSON object in the array")
	}

	obj := map[string]string{}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("malformed JSON: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("malformed JSON: object key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("malformed JSON: %w", err)
		}
		if _, dup := obj[key]; !dup {
			keys = append(keys, key)
		}
		obj[key] = cellText(raw)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("malformed JSON: %w", err)
	}
	return obj, keys, nil
}

// cellText renders one JSON value: strings unquoted, null empty, numbers
// and booleans as written, nested values as compact JSON
func cellText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")):
		return ""
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case raw[0] == '{' || raw[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err == nil {
			return buf.String()
		}
	}
	return string(raw)
}
