package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"projectmap/models"
)

// JSONSource reads the dataset from a JSON array file.
type JSONSource struct {
	path string
}

// NewJSONSource creates a source for the file at path.
func NewJSONSource(path string) *JSONSource {
	return &JSONSource{path: path}
}

// ReadRecords implements services.RecordSource.
func (s *JSONSource) ReadRecords(ctx context.Context) ([]*models.RawRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("json: open %q: %w", s.path, err)
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DecodeRecords(f)
}

// DecodeRecords parses a JSON array of records. An element that is not an
// object becomes nil so that it keeps its position and is later dropped by
// normalization. Malformed field values never discard the element.
func DecodeRecords(r io.Reader) ([]*models.RawRecord, error) {
	var elems []json.RawMessage
	if err := json.NewDecoder(r).Decode(&elems); err != nil {
		return nil, fmt.Errorf("json: decode array: %w", err)
	}

	records := make([]*models.RawRecord, len(elems))
	for i, elem := range elems {
		if isNull(elem) {
			continue
		}
		var rec models.RawRecord
		if err := json.Unmarshal(elem, &rec); err != nil {
			continue
		}
		records[i] = &rec
	}
	return records, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
