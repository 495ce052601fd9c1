package dataset

import (
	"fmt"

	"cvleak/domain/core"
)

// Matrix is a resolved feature matrix: one row per observation, one
// column per variable.
type Matrix struct {
	Data         [][]float64        `json:"data"`
	VariableKeys []core.VariableKey `json:"variable_keys"`
}

// Rows returns the observation count
func (m *Matrix) Rows() int {
	return len(m.Data)
}

// Cols returns the variable count
func (m *Matrix) Cols() int {
	if len(m.Data) == 0 {
		return 0
	}
	return len(m.Data[0])
}

// Column extracts variable j as a contiguous slice
func (m *Matrix) Column(j int) []float64 {
	col := make([]float64, len(m.Data))
	for i, row := range m.Data {
		col[i] = row[j]
	}
	return col
}

// SubsetRows returns a new matrix containing only the given observation
// indices, in the given order. Rows are shared, not copied.
func (m *Matrix) SubsetRows(indices []int) *Matrix {
	data := make([][]float64, len(indices))
	for i, idx := range indices {
		data[i] = m.Data[idx]
	}
	return &Matrix{Data: data, VariableKeys: m.VariableKeys}
}

// SubsetColumns returns a new matrix restricted to the given variable
// indices, in the given order. Values are copied row by row.
func (m *Matrix) SubsetColumns(indices []int) *Matrix {
	keys := make([]core.VariableKey, len(indices))
	for i, idx := range indices {
		keys[i] = m.VariableKeys[idx]
	}
	data := make([][]float64, len(m.Data))
	for i, row := range m.Data {
		sub := make([]float64, len(indices))
		for j, idx := range indices {
			sub[j] = row[idx]
		}
		data[i] = sub
	}
	return &Matrix{Data: data, VariableKeys: keys}
}

// Validate checks the matrix invariants: rectangular data and one key
// per column.
func (m *Matrix) Validate() error {
	cols := m.Cols()
	for i, row := range m.Data {
		if len(row) != cols {
			return fmt.Errorf("ragged matrix: row %d has %d values, expected %d", i, len(row), cols)
		}
	}
	if len(m.VariableKeys) != cols {
		return fmt.Errorf("variable key count %d does not match column count %d", len(m.VariableKeys), cols)
	}
	return nil
}

// Labels is a class label vector aligned with matrix rows.
type Labels struct {
	Values     []int `json:"values"`
	ClassCount int   `json:"class_count"`
}

// Len returns the label count
func (l *Labels) Len() int {
	return len(l.Values)
}

// Subset returns labels for the given observation indices, in order.
func (l *Labels) Subset(indices []int) *Labels {
	values := make([]int, len(indices))
	for i, idx := range indices {
		values[i] = l.Values[idx]
	}
	return &Labels{Values: values, ClassCount: l.ClassCount}
}

// ChanceLevel is the expected accuracy of a no-signal classifier on
// balanced classes.
func (l *Labels) ChanceLevel() float64 {
	if l.ClassCount <= 0 {
		return 0
	}
	return 1.0 / float64(l.ClassCount)
}

// Validate checks label invariants: known class count and every value
// inside [0, ClassCount).
func (l *Labels) Validate() error {
	if l.ClassCount <= 0 {
		return fmt.Errorf("class count must be positive, got %d", l.ClassCount)
	}
	for i, v := range l.Values {
		if v < 0 || v >= l.ClassCount {
			return fmt.Errorf("label %d at row %d outside [0, %d)", v, i, l.ClassCount)
		}
	}
	return nil
}

// Bundle pairs a matrix with its aligned labels plus generation metadata.
type Bundle struct {
	DatasetID core.DatasetID `json:"dataset_id"`
	Matrix    *Matrix        `json:"matrix"`
	Labels    *Labels        `json:"labels"`
	Seed      int64          `json:"seed"`
	CreatedAt core.Timestamp `json:"created_at"`
}

// Validate checks cross-structure invariants
func (b *Bundle) Validate() error {
	if err := b.Matrix.Validate(); err != nil {
		return err
	}
	if err := b.Labels.Validate(); err != nil {
		return err
	}
	if b.Matrix.Rows() != b.Labels.Len() {
		return fmt.Errorf("matrix has %d rows but %d labels", b.Matrix.Rows(), b.Labels.Len())
	}
	return nil
}
