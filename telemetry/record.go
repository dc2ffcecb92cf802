package telemetry

import (
	"log/slog"
	"time"
)

// GenerationRecord is one finished generation, written as a row of
// generations.csv.
type GenerationRecord struct {
	Finished      time.Time `csv:"-"`
	Sequence      int       `csv:"seq"`
	Algorithm     string    `csv:"algorithm"`
	Width         int       `csv:"width"`
	Height        int       `csv:"height"`
	Interpolation string    `csv:"interpolation"` // Perlin interpolation or corner algorithm; empty otherwise
	Seed          int64     `csv:"seed"`
	Threads       int       `csv:"threads"`
	CPUSec        float64   `csv:"cpu_sec"`
	WallSec       float64   `csv:"wall_sec"`
	LumaMean      float64   `csv:"luma_mean"`
	LumaStd       float64   `csv:"luma_std"`
	LumaMin       float64   `csv:"luma_min"`
	LumaMax       float64   `csv:"luma_max"`
	LumaP10       float64   `csv:"luma_p10"`
	LumaP50       float64   `csv:"luma_p50"`
	LumaP90       float64   `csv:"luma_p90"`
}

// SetStats copies texture statistics into the record.
func (r *GenerationRecord) SetStats(s TextureStats) {
	r.LumaMean = s.Mean
	r.LumaStd = s.StdDev
	r.LumaMin = s.Min
	r.LumaMax = s.Max
	r.LumaP10 = s.P10
	r.LumaP50 = s.P50
	r.LumaP90 = s.P90
}

// LogValue implements slog.LogValuer for structured logging.
func (r GenerationRecord) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("seq", r.Sequence),
		slog.String("algorithm", r.Algorithm),
		slog.Int("width", r.Width),
		slog.Int("height", r.Height),
		slog.Float64("cpu_sec", r.CPUSec),
		slog.Float64("wall_sec", r.WallSec),
		slog.Float64("luma_mean", r.LumaMean),
	}
	if r.Interpolation != "" {
		attrs = append(attrs, slog.String("interpolation", r.Interpolation))
	}
	if r.Seed != 0 {
		attrs = append(attrs, slog.Int64("seed", r.Seed))
	}
	return slog.GroupValue(attrs...)
}
