package telemetry

import (
	"image/color"
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TextureStats summarizes the luminance of a generated texture, in [0, 1].
type TextureStats struct {
	Samples int
	Mean    float64
	StdDev  float64
	Min     float64
	Max     float64
	P10     float64
	P50     float64
	P90     float64
}

// Luminance returns the Rec. 709 luma of c in [0, 1].
func Luminance(c color.RGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}

// ComputeTextureStats calculates luminance statistics over every stride-th
// pixel. A stride below 1 samples every pixel.
func ComputeTextureStats(pixels []color.RGBA, stride int) TextureStats {
	if stride < 1 {
		stride = 1
	}
	values := make([]float64, 0, len(pixels)/stride+1)
	for i := 0; i < len(pixels); i += stride {
		values = append(values, Luminance(pixels[i]))
	}
	if len(values) == 0 {
		return TextureStats{}
	}

	mean, std := stat.PopMeanStdDev(values, nil)

	sorted := values
	sort.Float64s(sorted)

	return TextureStats{
		Samples: len(values),
		Mean:    mean,
		StdDev:  std,
		Min:     floats.Min(sorted),
		Max:     floats.Max(sorted),
		P10:     stat.Quantile(0.10, stat.LinInterp, sorted, nil),
		P50:     stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P90:     stat.Quantile(0.90, stat.LinInterp, sorted, nil),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s TextureStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("samples", s.Samples),
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.StdDev),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Float64("p50", s.P50),
	)
}
