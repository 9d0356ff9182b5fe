package substrate

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Bbeierle12/EcoSysX-sub006/config"
)

// ErrInvalidSerializedSubstrate is returned by FromJSON when the input
// fails basic structural validation (missing required top-level
// fields). Every error FromJSON returns wraps it.
var ErrInvalidSerializedSubstrate = errors.New("substrate: invalid serialized substrate")

// wireFormat is the JSON shape produced by ToJSON and consumed by
// FromJSON: full config, every channel as a dense array, flow arrays
// when flow is enabled, and the stats snapshot.
type wireFormat struct {
	Config    *config.Config `json:"config"`
	Channels  [][]float32    `json:"channels"`
	VelocityX []float32      `json:"velocity_x,omitempty"`
	VelocityY []float32      `json:"velocity_y,omitempty"`
	Stats     Stats          `json:"stats"`
}

// ToJSON serializes the substrate: config, every channel's dense data,
// the flow arrays (if flow is enabled), and the current stats
// snapshot including the tick counter.
func (s *Substrate) ToJSON() ([]byte, error) {
	w := wireFormat{
		Config: s.cfg.Clone(),
		Stats:  s.stats.Clone(),
	}
	w.Stats.TickCount = s.tick

	w.Channels = make([][]float32, len(s.channels))
	for i := range s.channels {
		w.Channels[i] = append([]float32(nil), s.channels[i].read...)
	}

	if s.flow.Enabled {
		w.VelocityX, w.VelocityY = s.flow.VelocityData()
	}

	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("marshal substrate: %w", err)
	}
	return data, nil
}

// FromJSON constructs a fresh substrate from the embedded config, then
// overwrites each channel (truncating to the stored length) and the
// flow buffers. The tick counter is restored from stats.
func FromJSON(data []byte) (*Substrate, error) {
	var w wireFormat
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSerializedSubstrate, err)
	}
	if w.Config == nil {
		return nil, fmt.Errorf("%w: missing config", ErrInvalidSerializedSubstrate)
	}
	if w.Channels == nil {
		return nil, fmt.Errorf("%w: missing channels", ErrInvalidSerializedSubstrate)
	}

	s := New(w.Config, nil)

	for i := range s.channels {
		if i >= len(w.Channels) {
			break
		}
		src := w.Channels[i]
		n := len(s.channels[i].read)
		if len(src) < n {
			n = len(src)
		}
		copy(s.channels[i].read, src[:n])
	}

	if s.flow.Enabled && len(w.VelocityX) > 0 {
		n := len(s.flow.VX)
		if len(w.VelocityX) < n {
			n = len(w.VelocityX)
		}
		copy(s.flow.VX, w.VelocityX[:n])
		if len(w.VelocityY) < n {
			n = len(w.VelocityY)
		}
		copy(s.flow.VY, w.VelocityY[:n])
	}

	s.tick = w.Stats.TickCount
	s.stats = w.Stats.Clone()

	logger.Debug("substrate deserialized", "tick_count", s.tick, "channels", len(s.channels))
	return s, nil
}
