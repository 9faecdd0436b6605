package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/crevasse-data/strata.report/section"
)

// SectionRecord is a persisted slice of one variable along a section
// footprint. Values holds the payload row-major as (Rows, Cols); List omits
// it, Get returns it.
type SectionRecord struct {
	SectionID string          `json:"section_id"`
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	Variable  string          `json:"variable"`
	Rows      int             `json:"rows"`
	Cols      int             `json:"cols"`
	Trace     []section.Point `json:"trace,omitempty"`
	S         []float64       `json:"s,omitempty"`
	Z         []float64       `json:"z,omitempty"`
	Values    []float64       `json:"-"`
	CreatedAt int64           `json:"created_at"`
}

// NewRecord slices the named variable from a connected section and packages
// it for insertion. kind labels how the footprint was cut ("strike", "path").
func NewRecord(name, kind string, sec *section.Section, variable string) (*SectionRecord, error) {
	v, err := sec.Slice(variable)
	if err != nil {
		return nil, err
	}
	trace, err := sec.Trace()
	if err != nil {
		return nil, err
	}
	nz, m := v.Dims()
	data := v.Data()
	values := make([]float64, 0, nz*m)
	for i := 0; i < nz; i++ {
		values = append(values, data.RawRowView(i)...)
	}
	return &SectionRecord{
		Name:     name,
		Kind:     kind,
		Variable: variable,
		Rows:     nz,
		Cols:     m,
		Trace:    trace,
		S:        append([]float64(nil), v.S()...),
		Z:        append([]float64(nil), v.Z()...),
		Values:   values,
	}, nil
}

// Matrix returns the payload as a dense (Rows, Cols) matrix, or nil when the
// record carries no payload.
func (r *SectionRecord) Matrix() *mat.Dense {
	if r.Rows <= 0 || r.Cols <= 0 || len(r.Values) != r.Rows*r.Cols {
		return nil
	}
	return mat.NewDense(r.Rows, r.Cols, append([]float64(nil), r.Values...))
}

// Insert persists a new section record. If SectionID is empty, a UUID is
// generated; if CreatedAt is zero it is set to the current time.
func (st *Store) Insert(rec *SectionRecord) error {
	if rec.SectionID == "" {
		rec.SectionID = uuid.New().String()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().UnixNano()
	}
	if len(rec.Values) != rec.Rows*rec.Cols {
		return fmt.Errorf("section %s payload has %d values for %dx%d", rec.SectionID, len(rec.Values), rec.Rows, rec.Cols)
	}

	traceJSON, err := marshalTrace(rec.Trace)
	if err != nil {
		return fmt.Errorf("marshal trace: %w", err)
	}
	sJSON, err := json.Marshal(rec.S)
	if err != nil {
		return fmt.Errorf("marshal s coordinate: %w", err)
	}
	zJSON, err := json.Marshal(rec.Z)
	if err != nil {
		return fmt.Errorf("marshal z coordinate: %w", err)
	}
	blob, err := encodePayload(rec.Rows, rec.Cols, rec.Values)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	return retryOnBusy(func() error {
		_, err := st.db.Exec(`
			INSERT INTO sections (
				section_id, name, kind, variable,
				rows, cols, trace_json, s_json, z_json,
				payload, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.SectionID, rec.Name, rec.Kind, rec.Variable,
			rec.Rows, rec.Cols, traceJSON, string(sJSON), string(zJSON),
			blob, rec.CreatedAt,
		)
		return err
	})
}

// Get returns a single section record by ID, payload included.
func (st *Store) Get(sectionID string) (*SectionRecord, error) {
	row := st.db.QueryRow(`
		SELECT section_id, name, kind, variable,
		       rows, cols, trace_json, s_json, z_json,
		       payload, created_at
		FROM sections
		WHERE section_id = ?`, sectionID)

	var r SectionRecord
	var traceJSON, sJSON, zJSON string
	var blob []byte
	err := row.Scan(
		&r.SectionID, &r.Name, &r.Kind, &r.Variable,
		&r.Rows, &r.Cols, &traceJSON, &sJSON, &zJSON,
		&blob, &r.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("section %s not found", sectionID)
		}
		return nil, fmt.Errorf("scan section: %w", err)
	}
	if err := unmarshalCoords(&r, traceJSON, sJSON, zJSON); err != nil {
		return nil, err
	}
	rows, cols, values, err := decodePayload(blob)
	if err != nil {
		return nil, fmt.Errorf("section %s: %w", sectionID, err)
	}
	if rows != r.Rows || cols != r.Cols {
		return nil, fmt.Errorf("section %s payload is %dx%d, row says %dx%d", sectionID, rows, cols, r.Rows, r.Cols)
	}
	r.Values = values
	return &r, nil
}

// List returns all section records ordered by creation time descending. The
// data payload is omitted; fetch a record with Get to load it.
func (st *Store) List() ([]*SectionRecord, error) {
	rows, err := st.db.Query(`
		SELECT section_id, name, kind, variable,
		       rows, cols, trace_json, s_json, z_json,
		       created_at
		FROM sections
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	defer rows.Close()

	var recs []*SectionRecord
	for rows.Next() {
		r, err := scanSectionMeta(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// Delete removes a section record by ID.
func (st *Store) Delete(sectionID string) error {
	return retryOnBusy(func() error {
		result, err := st.db.Exec(`DELETE FROM sections WHERE section_id = ?`, sectionID)
		if err != nil {
			return fmt.Errorf("delete section: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("section %s not found", sectionID)
		}
		return nil
	})
}

// scanSectionMeta scans a payload-less section row from a sql.Rows cursor.
func scanSectionMeta(rows *sql.Rows) (*SectionRecord, error) {
	var r SectionRecord
	var traceJSON, sJSON, zJSON string
	err := rows.Scan(
		&r.SectionID, &r.Name, &r.Kind, &r.Variable,
		&r.Rows, &r.Cols, &traceJSON, &sJSON, &zJSON,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan section row: %w", err)
	}
	if err := unmarshalCoords(&r, traceJSON, sJSON, zJSON); err != nil {
		return nil, err
	}
	return &r, nil
}

// unmarshalCoords fills the trace and coordinate fields from their stored
// JSON columns.
func unmarshalCoords(r *SectionRecord, traceJSON, sJSON, zJSON string) error {
	trace, err := unmarshalTrace(traceJSON)
	if err != nil {
		return fmt.Errorf("section %s: %w", r.SectionID, err)
	}
	r.Trace = trace
	if err := json.Unmarshal([]byte(sJSON), &r.S); err != nil {
		return fmt.Errorf("section %s: unmarshal s coordinate: %w", r.SectionID, err)
	}
	if err := json.Unmarshal([]byte(zJSON), &r.Z); err != nil {
		return fmt.Errorf("section %s: unmarshal z coordinate: %w", r.SectionID, err)
	}
	return nil
}

// marshalTrace stores footprint points as compact [x, y] pairs.
func marshalTrace(pts []section.Point) (string, error) {
	pairs := make([][2]int, len(pts))
	for i, p := range pts {
		pairs[i] = [2]int{p.X, p.Y}
	}
	b, err := json.Marshal(pairs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalTrace(s string) ([]section.Point, error) {
	var pairs [][2]int
	if err := json.Unmarshal([]byte(s), &pairs); err != nil {
		return nil, fmt.Errorf("unmarshal trace: %w", err)
	}
	pts := make([]section.Point, len(pairs))
	for i, pr := range pairs {
		pts[i] = section.Point{X: pr[0], Y: pr[1]}
	}
	return pts, nil
}
