package substrate

import (
	"log/slog"
	"strconv"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats is a snapshot of derived per-tick statistics.
type Stats struct {
	TickCount    int64     `json:"tick_count" csv:"tick_count"`
	TotalMass    []float64 `json:"total_mass" csv:"-"`
	MaxValue     []float64 `json:"max_value" csv:"-"`
	MeanValue    []float64 `json:"mean_value" csv:"-"`
	FlowEnergy   float64   `json:"flow_energy" csv:"flow_energy"`
	UpdateTimeMs float64   `json:"update_time_ms" csv:"update_time_ms"`
}

// Clone returns a deep copy, safe to hand to a caller.
func (st Stats) Clone() Stats {
	return Stats{
		TickCount:    st.TickCount,
		TotalMass:    append([]float64(nil), st.TotalMass...),
		MaxValue:     append([]float64(nil), st.MaxValue...),
		MeanValue:    append([]float64(nil), st.MeanValue...),
		FlowEnergy:   st.FlowEnergy,
		UpdateTimeMs: st.UpdateTimeMs,
	}
}

// LogValue implements slog.LogValuer so a host application can fold a
// substrate's stats into its own structured logs.
func (st Stats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("tick_count", st.TickCount),
		slog.Float64("flow_energy", st.FlowEnergy),
		slog.Float64("update_time_ms", st.UpdateTimeMs),
	}
	for i, m := range st.TotalMass {
		attrs = append(attrs, slog.Float64("total_mass_"+strconv.Itoa(i), m))
	}
	return slog.GroupValue(attrs...)
}

// GetStats returns a defensive copy of the current statistics.
func (s *Substrate) GetStats() Stats {
	return s.stats.Clone()
}

// recomputeStats derives total mass, max, and mean per channel, flow
// kinetic energy, and wall-clock update time.
func (s *Substrate) recomputeStats(elapsed time.Duration) {
	n := len(s.channels)
	totals := make([]float64, n)
	maxes := make([]float64, n)
	means := make([]float64, n)

	var data []float64
	for c := range s.channels {
		grid := s.channels[c].read
		if len(grid) == 0 {
			continue
		}
		if cap(data) < len(grid) {
			data = make([]float64, len(grid))
		}
		data = data[:len(grid)]
		maxV := grid[0]
		for i, v := range grid {
			data[i] = float64(v)
			if v > maxV {
				maxV = v
			}
		}
		totals[c] = floats.Sum(data)
		maxes[c] = float64(maxV)
		means[c] = stat.Mean(data, nil)
	}

	s.stats = Stats{
		TickCount:    s.tick,
		TotalMass:    totals,
		MaxValue:     maxes,
		MeanValue:    means,
		FlowEnergy:   s.flow.Energy(),
		UpdateTimeMs: float64(elapsed) / float64(time.Millisecond),
	}
}
