// Package substrate implements the Flow-Lenia cellular substrate: a
// continuous, multi-channel cellular automaton with kernel-based
// convolution, growth-driven state update, semi-Lagrangian advection
// against a self-generated velocity field, per-channel decay and
// diffusion, and agent-driven sensing/deposition.
//
// A Substrate is single-threaded cooperative: callers must externally
// serialise access to Update, SenseAt, DepositAt, the channel
// accessors, and (de)serialization. No operation blocks. The only
// operations that return errors are FromJSON on malformed input,
// NewFromYAML on an unparsable override, and ToJSON when the data
// cannot be marshalled.
package substrate

import (
	"io"
	"log/slog"
	"math/rand"

	"github.com/Bbeierle12/EcoSysX-sub006/config"
	"github.com/Bbeierle12/EcoSysX-sub006/flowfield"
	"github.com/Bbeierle12/EcoSysX-sub006/growth"
	"github.com/Bbeierle12/EcoSysX-sub006/kernel"
)

// defaultSeed seeds the RNG used when a caller passes a nil *rand.Rand.
// A Substrate is deterministic by default; callers who want true
// non-determinism supply their own time-seeded source instead of
// relying on ambient, implicit randomness.
const defaultSeed = 1

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetLogger installs the logger used for diagnostic (non-hot-path)
// messages: substrate construction, preset seeding, deserialization.
// Passing nil disables logging.
func SetLogger(l *slog.Logger) {
	if l == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}
	logger = l
}

// channelState pairs a channel's configuration with its double buffer.
type channelState struct {
	cfg  config.ChannelConfig
	read []float32
	back []float32
}

// Substrate owns every channel, kernel, growth function, and the flow
// field. Nothing escapes except defensive copies (or the documented
// immutable borrow of GetChannelDataRaw).
type Substrate struct {
	cfg *config.Config

	w, h         int
	resolution   float64
	dt           float64
	stepsPerTick int
	wrap         bool

	channels []channelState
	kernels  []*kernel.Kernel
	growths  []*growth.GrowthFn
	flow     *flowfield.FlowField
	scratch  []float32

	rng *rand.Rand

	tick  int64
	stats Stats
}

// New allocates a substrate from cfg. A nil cfg uses config.Defaults().
// A nil rng uses a fixed, documented default seed so behaviour is
// deterministic unless the caller opts into randomness.
func New(cfg *config.Config, rng *rand.Rand) *Substrate {
	if cfg == nil {
		cfg = config.Defaults()
	} else {
		cfg = cfg.Clone()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(defaultSeed))
	}

	s := &Substrate{
		cfg:          cfg,
		w:            cfg.Width,
		h:            cfg.Height,
		resolution:   cfg.Resolution,
		dt:           cfg.DT,
		stepsPerTick: max1(cfg.StepsPerTick),
		wrap:         cfg.WrapBoundary,
		rng:          rng,
	}

	size := s.w * s.h
	s.channels = make([]channelState, len(cfg.Channels))
	for i, cc := range cfg.Channels {
		s.channels[i] = channelState{
			cfg:  cc,
			read: make([]float32, size),
			back: make([]float32, size),
		}
	}

	s.kernels = make([]*kernel.Kernel, len(cfg.Kernels))
	for i, kc := range cfg.Kernels {
		s.kernels[i] = kernel.New(kc)
	}

	s.growths = make([]*growth.GrowthFn, len(cfg.Growths))
	for i, gc := range cfg.Growths {
		s.growths[i] = growth.New(gc)
	}

	s.flow = flowfield.New(cfg.Flow, s.w, s.h)
	s.scratch = make([]float32, size)

	s.stats = Stats{
		TotalMass: make([]float64, len(s.channels)),
		MaxValue:  make([]float64, len(s.channels)),
		MeanValue: make([]float64, len(s.channels)),
	}

	logger.Debug("substrate constructed", "width", s.w, "height", s.h, "channels", len(s.channels), "wrap", s.wrap)
	return s
}

// NewFromYAML builds a substrate from a partial YAML document merged
// atop the embedded defaults, exactly like config.Load.
func NewFromYAML(data []byte, rng *rand.Rand) (*Substrate, error) {
	cfg, err := config.Load(data)
	if err != nil {
		return nil, err
	}
	return New(cfg, rng), nil
}

// GetDimensions returns the grid width and height.
func (s *Substrate) GetDimensions() (width, height int) {
	return s.w, s.h
}

// GetResolution returns cells-per-world-unit.
func (s *Substrate) GetResolution() float64 {
	return s.resolution
}

// GetConfig returns a defensive copy of the substrate's configuration.
func (s *Substrate) GetConfig() *config.Config {
	return s.cfg.Clone()
}

// Clear zeroes every channel and the flow field.
func (s *Substrate) Clear() {
	for i := range s.channels {
		zero(s.channels[i].read)
		zero(s.channels[i].back)
	}
	zero(s.flow.VX)
	zero(s.flow.VY)
}

func zero(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
