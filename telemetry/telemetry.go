// Package telemetry exports substrate.Stats snapshots to CSV, the
// same incremental-write pattern the simulation's own
// telemetry.OutputManager uses for its window stats.
package telemetry

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/Bbeierle12/EcoSysX-sub006/substrate"
)

// Row is the CSV-flattened form of a substrate.Stats snapshot.
// Per-channel slices are joined with ';' since gocsv records are
// fixed-width rows; a reader can split them back out.
type Row struct {
	TickCount    int64   `csv:"tick_count"`
	FlowEnergy   float64 `csv:"flow_energy"`
	UpdateTimeMs float64 `csv:"update_time_ms"`
	TotalMass    string  `csv:"total_mass"`
	MaxValue     string  `csv:"max_value"`
	MeanValue    string  `csv:"mean_value"`
}

// RowFromStats flattens a Stats snapshot into a CSV row.
func RowFromStats(st substrate.Stats) Row {
	return Row{
		TickCount:    st.TickCount,
		FlowEnergy:   st.FlowEnergy,
		UpdateTimeMs: st.UpdateTimeMs,
		TotalMass:    joinFloats(st.TotalMass),
		MaxValue:     joinFloats(st.MaxValue),
		MeanValue:    joinFloats(st.MeanValue),
	}
}

func joinFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ";")
}

// Writer incrementally appends Stats snapshots to an io.Writer as CSV,
// writing the header exactly once.
type Writer struct {
	dst           io.Writer
	headerWritten bool
}

// NewWriter wraps dst for incremental CSV stats export.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst}
}

// Write appends one Stats snapshot as a CSV row.
func (w *Writer) Write(st substrate.Stats) error {
	rows := []Row{RowFromStats(st)}
	if !w.headerWritten {
		if err := gocsv.Marshal(rows, w.dst); err != nil {
			return fmt.Errorf("writing stats row: %w", err)
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, w.dst); err != nil {
		return fmt.Errorf("writing stats row: %w", err)
	}
	return nil
}
