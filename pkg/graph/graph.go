package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// =============================================================================
// Input Serialization API
// =============================================================================

// ReadInputFile reads a JSON file and returns the decoded input bundle.
func ReadInputFile(path string) (Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return Input{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadInput(f)
}

// ReadInput decodes a JSON input bundle from an io.Reader.
// Unknown fields are rejected to catch misspelled keys early.
func ReadInput(r io.Reader) (Input, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var in Input
	if err := dec.Decode(&in); err != nil {
		return Input{}, fmt.Errorf("decode: %w", err)
	}
	return in, nil
}

// UnmarshalInput deserializes JSON bytes to an input bundle.
func UnmarshalInput(data []byte) (Input, error) {
	return ReadInput(bytes.NewReader(data))
}

// Canonical returns byte-identical JSON for semantically identical inputs:
// reconciliation entries sorted by (parasite, host), frequencies sorted by
// their serialized event. Map keys are sorted by encoding/json already.
// Cache keys are computed from this form.
func (in Input) Canonical() ([]byte, error) {
	c := in
	c.Reconciliation = slices.Clone(in.Reconciliation)
	slices.SortFunc(c.Reconciliation, func(a, b MappingEvents) int {
		if cmp := strings.Compare(a.Parasite, b.Parasite); cmp != 0 {
			return cmp
		}
		return strings.Compare(a.Host, b.Host)
	})
	c.Frequencies = slices.Clone(in.Frequencies)
	slices.SortFunc(c.Frequencies, func(a, b Frequency) int {
		da, _ := json.Marshal(a.Event)
		db, _ := json.Marshal(b.Event)
		return bytes.Compare(da, db)
	})
	return json.Marshal(c)
}

// =============================================================================
// Result Serialization API
// =============================================================================

// MarshalResult converts a check result to indented JSON bytes.
func MarshalResult(res Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalResult deserializes JSON bytes to a check result.
func UnmarshalResult(data []byte) (Result, error) {
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return Result{}, fmt.Errorf("decode: %w", err)
	}
	return res, nil
}

// WriteResultFile writes a check result to a JSON file.
// The file is created with 0644 permissions.
func WriteResultFile(res Result, path string) error {
	data, err := MarshalResult(res)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
