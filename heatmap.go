package gomkit

import "fmt"

// Cell is one sparse heatmap coordinate: column index on the x axis,
// row index on the y axis, and the GoM coefficient at that position.
type Cell struct {
	X     int
	Y     int
	Value float64
}

// Heatmap is the sparse coordinate payload consumed by a grid renderer.
// Data is ordered row-major: for each table row, the k1 cell then the k2
// cell. YLabels has one "{Variable} - {Level}" entry per table row, in
// table order.
type Heatmap struct {
	XLabels []string
	YLabels []string
	Data    []Cell
}

// heatmapColumns is the fixed 2-profile projection the heatmap view uses,
// regardless of the k the table was extracted with.
var heatmapColumns = []string{"Variable", "Level", "k1", "k2"}

// Reshape projects the typed LMFR table onto k1/k2 heatmap coordinates.
// The table must carry Variable, Level, k1 and k2 columns; anything less
// is an ErrMissingColumns (the caller distinguishes a missing table via
// ErrArtifactNotFound before ever reaching here). Missing coefficients
// are emitted as zero so the grid stays dense per row.
func Reshape(t *Table) (*Heatmap, error) {
	if err := ValidateColumns(t, heatmapColumns); err != nil {
		return nil, err
	}
	variable := t.Column("Variable")
	level := t.Column("Level")
	k1 := t.Column("k1")
	k2 := t.Column("k2")

	n := t.RowCount()
	h := &Heatmap{
		XLabels: []string{"k1", "k2"},
		YLabels: make([]string, n),
		Data:    make([]Cell, 0, 2*n),
	}
	for r := 0; r < n; r++ {
		h.YLabels[r] = fmt.Sprintf("%s - %s",
			variable.Cells[r].Format(variable.Kind), level.Cells[r].Format(level.Kind))
		h.Data = append(h.Data,
			Cell{X: 0, Y: r, Value: k1.Cells[r].Num},
			Cell{X: 1, Y: r, Value: k2.Cells[r].Num},
		)
	}
	return h, nil
}
