package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and parses the environment document at path. The format is
// chosen by file extension: .yml/.yaml are decoded as YAML, everything else
// as JSON. Loading is a pure read performed once at startup; the returned
// Document must not be mutated afterwards.
//
// Malformed input, duplicate sibling keys, and unknown keys all fail with a
// *ParseError carrying the source location where available.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return parseYAML(path, data)
	default:
		return parseJSON(path, data)
	}
}

func parseJSON(path string, data []byte) (*Document, error) {
	if err := checkDuplicateKeys(data); err != nil {
		var dup *duplicateKeyError
		if errors.As(err, &dup) {
			line, col := lineColumn(data, dup.offset)
			return nil, &ParseError{File: path, Line: line, Column: col, Err: dup}
		}
		return nil, wrapJSONError(path, data, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, wrapJSONError(path, data, err)
	}
	if dec.More() {
		line, col := lineColumn(data, dec.InputOffset())
		return nil, &ParseError{File: path, Line: line, Column: col, Err: errors.New("unexpected content after document")}
	}

	return &doc, nil
}

func parseYAML(path string, data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{File: path, Err: errors.New("document is empty")}
		}
		// yaml.v3 error strings already carry "line N" context and the
		// decoder rejects duplicate keys on its own.
		return nil, &ParseError{File: path, Err: err}
	}

	return &doc, nil
}

// wrapJSONError attaches line/column information to decoder errors that
// expose a byte offset.
func wrapJSONError(path string, data []byte, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := lineColumn(data, syntaxErr.Offset)
		return &ParseError{File: path, Line: line, Column: col, Err: err}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, col := lineColumn(data, typeErr.Offset)
		return &ParseError{File: path, Line: line, Column: col, Err: err}
	}

	return &ParseError{File: path, Err: err}
}

// lineColumn converts a byte offset into 1-based line and column numbers.
func lineColumn(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}

	line = 1
	col = 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
