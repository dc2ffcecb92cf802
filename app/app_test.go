package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/noisetex/config"
	"github.com/pthm-cable/noisetex/interp"
	"github.com/pthm-cable/noisetex/noise"
	"github.com/pthm-cable/noisetex/telemetry"
)

func init() {
	config.MustInit("")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(opts ...Option) *App {
	opts = append([]Option{WithLogger(quietLogger()), WithBudget(time.Millisecond)}, opts...)
	return New(opts...)
}

func smallPerlin() noise.Request {
	req := noise.DefaultRequest()
	req.Algorithm = noise.AlgoPerlin
	req.Width, req.Height = 60, 60
	req.Perlin = noise.PerlinParams{
		GridSizeX:     4,
		GridSizeY:     4,
		StepX:         20,
		StepY:         20,
		Interpolation: noise.InterpBilinear,
		RandomSeed:    7,
	}
	return req
}

func TestRequestRejectsInvalid(t *testing.T) {
	a := newTestApp()
	req := smallPerlin()
	req.Perlin.StepX = 0
	if err := a.Request(req); !errors.Is(err, noise.ErrInvalidRequest) {
		t.Fatalf("Request error = %v, want ErrInvalidRequest", err)
	}
	if _, ok := a.Texture(); ok {
		t.Error("invalid request should not create a texture")
	}
}

func TestWhiteFinishesSynchronously(t *testing.T) {
	a := newTestApp()
	var events []FinishedEvent
	a.OnFinished(func(ev FinishedEvent) { events = append(events, ev) })

	req := noise.DefaultRequest()
	req.Algorithm = noise.AlgoWhite
	req.Width, req.Height = 16, 8
	req.White.BlackProbability = 1
	if err := a.Request(req); err != nil {
		t.Fatal(err)
	}

	if a.Generating() {
		t.Error("white noise should not leave a job running")
	}
	if len(events) != 1 {
		t.Fatalf("got %d finished events, want 1", len(events))
	}
	ev := events[0]
	if ev.Record.Algorithm != "white" || ev.Record.Threads != 1 {
		t.Errorf("record = %+v", ev.Record)
	}
	if ev.Stats.Max != 0 {
		t.Errorf("all-black texture has luma max %f", ev.Stats.Max)
	}
	if ev.Result.Columns != 16 {
		t.Errorf("columns = %d, want 16", ev.Result.Columns)
	}

	tex, ok := a.Texture()
	if !ok {
		t.Fatal("texture entity missing")
	}
	if !a.PrepareDraw(nil) {
		t.Error("first draw after a sync generation should copy")
	}
	if px := tex.Surface.Presented()[0]; px.R != 0 {
		t.Errorf("presented pixel = %+v, want black", px)
	}
}

func TestRunHeadlessPerlin(t *testing.T) {
	a := newTestApp()
	ev, err := a.RunHeadless(context.Background(), smallPerlin())
	if err != nil {
		t.Fatal(err)
	}
	if ev.Record.Sequence != 1 || ev.Record.Seed != 7 {
		t.Errorf("record = %+v", ev.Record)
	}
	if ev.Record.Interpolation != "bilinear" {
		t.Errorf("interpolation = %q", ev.Record.Interpolation)
	}
	if ev.Result.Columns != 60 {
		t.Errorf("columns = %d, want 60", ev.Result.Columns)
	}
	if a.Generating() {
		t.Error("job still attached after finishing")
	}

	tex, _ := a.Texture()
	img := tex.Surface.Image()
	if img.Bounds().Dx() != 60 {
		t.Fatalf("image width = %d", img.Bounds().Dx())
	}
	if ev.Stats.Max <= ev.Stats.Min {
		t.Errorf("perlin texture looks flat: %+v", ev.Stats)
	}
}

func TestRunHeadlessSameSeedSamePixels(t *testing.T) {
	a := newTestApp()
	if _, err := a.RunHeadless(context.Background(), smallPerlin()); err != nil {
		t.Fatal(err)
	}
	tex, _ := a.Texture()
	first := tex.Surface.Presented()

	if _, err := a.RunHeadless(context.Background(), smallPerlin()); err != nil {
		t.Fatal(err)
	}
	tex, _ = a.Texture()
	second := tex.Surface.Presented()

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pixel %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRunHeadlessCancelled(t *testing.T) {
	a := newTestApp()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.RunHeadless(ctx, smallPerlin())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if a.Generating() {
		t.Error("cancelled run left a job behind")
	}
}

func TestRequestCancelsRunningJob(t *testing.T) {
	a := newTestApp()
	var seqs []int
	a.OnFinished(func(ev FinishedEvent) { seqs = append(seqs, ev.Record.Sequence) })

	big := smallPerlin()
	big.Width, big.Height = 400, 400
	big.Perlin.GridSizeX, big.Perlin.GridSizeY = 21, 21
	if err := a.Request(big); err != nil {
		t.Fatal(err)
	}
	a.Update()
	a.PrepareDraw(nil)
	if !a.Generating() {
		t.Skip("generation finished within one slice")
	}

	white := noise.DefaultRequest()
	white.Algorithm = noise.AlgoWhite
	white.Width, white.Height = 8, 8
	if err := a.Request(white); err != nil {
		t.Fatal(err)
	}

	if a.Generating() {
		t.Error("previous job still running")
	}
	if len(seqs) != 1 || seqs[0] != 2 {
		t.Errorf("finished sequences = %v, want [2]", seqs)
	}
	tex, _ := a.Texture()
	if tex.Request.Algorithm != noise.AlgoWhite {
		t.Errorf("current texture is %v, want white", tex.Request.Algorithm)
	}
}

func TestGradientOverlay(t *testing.T) {
	a := newTestApp(WithGlyphSize(50))
	if err := a.ShowGradients(true); !errors.Is(err, ErrNoPerlinTexture) {
		t.Errorf("overlay without texture: err = %v", err)
	}

	req := smallPerlin()
	req.Perlin.StepX, req.Perlin.StepY = 200, 300
	req.Width, req.Height = 600, 600
	if err := a.Request(req); err != nil {
		t.Fatal(err)
	}
	if err := a.ShowGradients(true); err != nil {
		t.Fatal(err)
	}
	if !a.GradientsShown() {
		t.Fatal("overlay not shown")
	}

	// maxScale = min(200, 300) / 50 / 2 = 2
	if got := a.GradientScale(1); got != 1 {
		t.Errorf("scale at zoom 1 = %f, want 1", got)
	}
	if got := a.GradientScale(0.25); got != 2 {
		t.Errorf("scale at zoom 0.25 = %f, want 2 (capped)", got)
	}

	glyphs := a.GradientGlyphs()
	if len(glyphs) != 16 {
		t.Fatalf("got %d glyphs, want 16", len(glyphs))
	}
	if last := glyphs[15]; last.Pos.X != 600 || last.Pos.Y != 900 {
		t.Errorf("last glyph at %+v, want (600, 900)", last.Pos)
	}
	minPos, maxPos, ok := a.GradientBounds()
	if !ok || minPos != (interp.Vec2{}) || maxPos != glyphs[15].Pos {
		t.Errorf("bounds = %+v..%+v (%v), want origin..last glyph", minPos, maxPos, ok)
	}

	if err := a.ShowGradients(false); err != nil || a.GradientsShown() {
		t.Error("overlay should turn off")
	}
	if _, _, ok := a.GradientBounds(); ok {
		t.Error("bounds reported with the overlay off")
	}

	a.ShowGradients(true)
	if err := a.Request(smallPerlin()); err != nil {
		t.Fatal(err)
	}
	if a.GradientsShown() {
		t.Error("a new request should clear overlays")
	}
	a.Shutdown()
}

func TestTruePixelOverlay(t *testing.T) {
	a := newTestApp()
	req := noise.DefaultRequest()
	req.Algorithm = noise.AlgoCorner
	req.Width, req.Height = 90, 60
	if err := a.Request(req); err != nil {
		t.Fatal(err)
	}
	if err := a.ShowGradients(true); !errors.Is(err, ErrNoPerlinTexture) {
		t.Errorf("gradients on a corner texture: err = %v", err)
	}
	if err := a.ShowTruePixels(true); err != nil {
		t.Fatal(err)
	}

	markers, ov := a.TruePixels()
	if len(markers) != 16 {
		t.Fatalf("got %d markers, want 16", len(markers))
	}
	if ov.MarkerSize != 6 || ov.BorderSize != 1 {
		t.Errorf("overlay = %+v, want size 6 border 1", ov)
	}
	if m := markers[15]; m.X != 89 || m.Y != 59 {
		t.Errorf("far corner marker at (%d,%d), want (89,59)", m.X, m.Y)
	}
	if m := markers[5]; m.X != 30 || m.Y != 20 {
		t.Errorf("node (1,1) marker at (%d,%d), want (30,20)", m.X, m.Y)
	}
	want := noise.ToRGBA(req.Corner.Colors[0])
	if markers[0].Color != want {
		t.Errorf("marker color = %+v, want %+v", markers[0].Color, want)
	}

	a.ShowTruePixels(false)
	if got, _ := a.TruePixels(); got != nil {
		t.Error("markers returned with the overlay off")
	}
}

func TestRequestFromConfig(t *testing.T) {
	req, err := RequestFromConfig(config.Cfg())
	if err != nil {
		t.Fatal(err)
	}
	if req.Algorithm != noise.AlgoPerlin || req.Width != 900 {
		t.Errorf("request = %+v", req)
	}
	if req.Perlin.GridSizeX != 31 || req.Perlin.Interpolation != noise.InterpBicubic {
		t.Errorf("perlin params = %+v", req.Perlin)
	}
	if req.Corner.Colors != noise.DefaultCornerColors() {
		t.Error("empty colors should keep the stock palette")
	}

	cfg := *config.Cfg()
	cfg.Defaults.Algorithm = "plasma"
	if _, err := RequestFromConfig(&cfg); !errors.Is(err, noise.ErrInvalidRequest) {
		t.Errorf("unknown algorithm: err = %v", err)
	}
}

func TestOutputWritesGenerations(t *testing.T) {
	dir := t.TempDir()
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	a := newTestApp(WithOutput(om))

	req := noise.DefaultRequest()
	req.Algorithm = noise.AlgoWhite
	req.Width, req.Height = 4, 4
	for i := 0; i < 2; i++ {
		if err := a.Request(req); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "seq,algorithm") {
		t.Errorf("header = %q", lines[0])
	}
}
