package store

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"
)

// payload is the gob wire shape of a record's data values.
type payload struct {
	Rows, Cols int
	Values     []float64
}

// encodePayload compresses the row-major values using gob encoding and gzip
// compression. NaN cells survive the round trip bit-exactly.
func encodePayload(rows, cols int, values []float64) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(payload{Rows: rows, Cols: cols, Values: values}); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodePayload decompresses and decodes values from a gob+gzip blob.
func decodePayload(blob []byte) (rows, cols int, values []float64, err error) {
	if len(blob) == 0 {
		return 0, 0, nil, fmt.Errorf("empty section payload")
	}
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return 0, 0, nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	var p payload
	if err := gob.NewDecoder(gz).Decode(&p); err != nil {
		return 0, 0, nil, fmt.Errorf("failed to decode section payload: %w", err)
	}
	if p.Rows*p.Cols != len(p.Values) {
		return 0, 0, nil, fmt.Errorf("section payload has %d values for %dx%d", len(p.Values), p.Rows, p.Cols)
	}
	return p.Rows, p.Cols, p.Values, nil
}
