package noise

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/noisetex/interp"
)

func newTestField(t *testing.T, p FieldParams, grads []interp.Vec2) *VectorField {
	t.Helper()
	f, err := NewVectorFieldFromGradients(p, grads)
	if err != nil {
		t.Fatalf("NewVectorFieldFromGradients: %v", err)
	}
	return f
}

func TestVectorFieldUnitGradients(t *testing.T) {
	p := FieldParams{GridSizeX: 8, GridSizeY: 5, StepX: 10, StepY: 10}
	f, err := NewVectorField(p, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("NewVectorField: %v", err)
	}
	for y := 0; y < p.GridSizeY; y++ {
		for x := 0; x < p.GridSizeX; x++ {
			l := f.Gradient(x, y).Len()
			if math.Abs(float64(l-1)) > 1e-5 {
				t.Errorf("gradient (%d,%d) length %f, want 1", x, y, l)
			}
		}
	}
}

func TestVectorFieldRejectsBadParams(t *testing.T) {
	tests := []FieldParams{
		{GridSizeX: 0, GridSizeY: 2, StepX: 1, StepY: 1},
		{GridSizeX: 2, GridSizeY: -1, StepX: 1, StepY: 1},
		{GridSizeX: 2, GridSizeY: 2, StepX: 0, StepY: 1},
		{GridSizeX: 2, GridSizeY: 2, StepX: float32(math.NaN()), StepY: 1},
		{GridSizeX: 2, GridSizeY: 2, StepX: 1, StepY: float32(math.NaN())},
		{GridSizeX: 2, GridSizeY: 2, StepX: 1, StepY: 1, Interpolation: Interpolation(42)},
	}
	for _, p := range tests {
		if _, err := NewVectorField(p, rand.New(rand.NewSource(1))); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("params %+v: expected ErrInvalidRequest, got %v", p, err)
		}
	}
}

func TestPerlinCellCenterBilinear(t *testing.T) {
	p := FieldParams{GridSizeX: 2, GridSizeY: 2, StepX: 10, StepY: 10}
	grads := []interp.Vec2{{X: 1}, {Y: 1}, {X: -1}, {X: 0.6, Y: 0.8}}
	perlin := NewPerlin(newTestField(t, p, grads))

	got := perlin.Evaluate(5, 5)

	// Offsets run from the query point to each node.
	tl := interp.Vec2{X: -5, Y: -5}.Dot(grads[0])
	tr := interp.Vec2{X: 5, Y: -5}.Dot(grads[1])
	bl := interp.Vec2{X: -5, Y: 5}.Dot(grads[2])
	br := interp.Vec2{X: 5, Y: 5}.Dot(grads[3])
	v := (tl + tr + bl + br) / 4 / float32(math.Sqrt(200))
	want := (1 + v) / 2

	if got < 0 || got > 1 {
		t.Fatalf("value %f outside [0,1]", got)
	}
	if math.Abs(float64(got-want)) > 1e-5 {
		t.Errorf("Evaluate(5,5) = %f, want %f", got, want)
	}
}

func TestPerlinOutsideGridIsZero(t *testing.T) {
	p := FieldParams{GridSizeX: 2, GridSizeY: 2, StepX: 10, StepY: 10}
	f, err := NewVectorField(p, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatal(err)
	}
	perlin := NewPerlin(f)

	for _, q := range [][2]float32{{-1, -1}, {-0.5, 5}, {5, -0.01}, {10, 5}, {5, 10}, {100, 100}} {
		if got := perlin.Evaluate(q[0], q[1]); got != 0 {
			t.Errorf("Evaluate(%v,%v) = %f, want exactly 0", q[0], q[1], got)
		}
	}
}

func TestPerlinBicubicNeedsMargin(t *testing.T) {
	for _, algo := range []Interpolation{InterpBicubic, InterpBicubicZero} {
		p := FieldParams{GridSizeX: 4, GridSizeY: 4, StepX: 10, StepY: 10, Interpolation: algo}
		f, err := NewVectorField(p, rand.New(rand.NewSource(5)))
		if err != nil {
			t.Fatal(err)
		}
		perlin := NewPerlin(f)

		// Only cell (1,1)-(2,2) has a full ring of neighbours in a 4x4 grid.
		if got := perlin.Evaluate(5, 15); got != 0 {
			t.Errorf("%v: left edge cell should be out of support, got %f", algo, got)
		}
		if got := perlin.Evaluate(25, 15); got != 0 {
			t.Errorf("%v: right edge cell should be out of support, got %f", algo, got)
		}
		if got := perlin.Evaluate(13, 17); got == 0 {
			t.Errorf("%v: interior cell should produce a value", algo)
		}
	}
}

func TestPerlinZeroGradientNodeContributesNothing(t *testing.T) {
	for _, normalize := range []bool{false, true} {
		p := FieldParams{GridSizeX: 3, GridSizeY: 3, StepX: 10, StepY: 10, NormalizeOffsets: normalize}
		grads := make([]interp.Vec2, 9)
		rng := rand.New(rand.NewSource(21))
		for i := range grads {
			a := rng.Float64() * 2 * math.Pi
			grads[i] = interp.Vec2{X: float32(math.Cos(a)), Y: float32(math.Sin(a))}
		}
		grads[1+1*3] = interp.Vec2{}
		perlin := NewPerlin(newTestField(t, p, grads))

		// At node (1,1) only that node carries weight, and its dot is zero.
		if got := perlin.Evaluate(10, 10); math.Abs(float64(got-0.5)) > 1e-6 {
			t.Errorf("normalize=%v: Evaluate at zero-gradient node = %f, want 0.5", normalize, got)
		}
	}
}

func TestPerlinNearestNeighborTiesGoLeftTop(t *testing.T) {
	p := FieldParams{GridSizeX: 2, GridSizeY: 2, StepX: 10, StepY: 10, Interpolation: InterpNearestNeighbor}
	grads := []interp.Vec2{{X: 1}, {X: 1}, {X: 1}, {X: 1}}
	perlin := NewPerlin(newTestField(t, p, grads))
	diag := float32(math.Sqrt(200))

	// At x=5 the offset to the left node is (-5, 0).
	wantLeft := (1 - 5/diag) / 2
	if got := perlin.Evaluate(5, 0); math.Abs(float64(got-wantLeft)) > 1e-5 {
		t.Errorf("tie should pick the left node: got %f, want %f", got, wantLeft)
	}

	// Just past half a step the right node (offset +4.99) wins.
	wantRight := (1 + 4.99/diag) / 2
	if got := perlin.Evaluate(5.01, 0); math.Abs(float64(got-wantRight)) > 1e-4 {
		t.Errorf("past half step should pick the right node: got %f, want %f", got, wantRight)
	}
}

func TestPerlinDeterministicAndInRange(t *testing.T) {
	algos := []Interpolation{InterpBilinear, InterpBicubic, InterpBicubicZero, InterpNearestNeighbor}
	for _, algo := range algos {
		for _, normalize := range []bool{false, true} {
			p := FieldParams{GridSizeX: 12, GridSizeY: 12, StepX: 16, StepY: 12,
				OffsetX: 3, OffsetY: -2, NormalizeOffsets: normalize, Interpolation: algo}
			f, err := NewVectorField(p, rand.New(rand.NewSource(99)))
			if err != nil {
				t.Fatal(err)
			}
			perlin := NewPerlin(f)

			for y := 0; y < 140; y += 3 {
				for x := 0; x < 180; x += 3 {
					a := perlin.Evaluate(float32(x), float32(y))
					b := perlin.Evaluate(float32(x), float32(y))
					if math.Float32bits(a) != math.Float32bits(b) {
						t.Fatalf("%v: non-deterministic value at (%d,%d): %f vs %f", algo, x, y, a, b)
					}
					if a < 0 || a > 1 || math.IsNaN(float64(a)) {
						t.Fatalf("%v normalize=%v: value %f at (%d,%d) outside [0,1]", algo, normalize, a, x, y)
					}
				}
			}
		}
	}
}

func TestPerlinSameSeedSameField(t *testing.T) {
	p := FieldParams{GridSizeX: 6, GridSizeY: 6, StepX: 10, StepY: 10, Interpolation: InterpBicubic}
	f1, _ := NewVectorField(p, rand.New(rand.NewSource(1234)))
	f2, _ := NewVectorField(p, rand.New(rand.NewSource(1234)))
	a, b := NewPerlin(f1), NewPerlin(f2)
	for i := 0; i < 50; i++ {
		x, y := float32(i)*0.97+10, float32(i)*0.53+10
		if a.Evaluate(x, y) != b.Evaluate(x, y) {
			t.Fatalf("same seed produced different values at (%f,%f)", x, y)
		}
	}
}

func TestPerlinSampleIsGrey(t *testing.T) {
	p := FieldParams{GridSizeX: 4, GridSizeY: 4, StepX: 8, StepY: 8}
	f, _ := NewVectorField(p, rand.New(rand.NewSource(2)))
	c := NewPerlin(f).Sample(9, 11)
	if c.R != c.G || c.G != c.B || c.A != 255 {
		t.Errorf("expected opaque grey, got %+v", c)
	}
}

func TestParseInterpolation(t *testing.T) {
	for _, algo := range []Interpolation{InterpBilinear, InterpBicubic, InterpBicubicZero, InterpNearestNeighbor} {
		got, err := ParseInterpolation(algo.String())
		if err != nil || got != algo {
			t.Errorf("ParseInterpolation(%q) = %v, %v", algo.String(), got, err)
		}
	}
	if _, err := ParseInterpolation("trilinear"); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func BenchmarkPerlinBicubic(b *testing.B) {
	p := FieldParams{GridSizeX: 31, GridSizeY: 31, StepX: 30, StepY: 30, Interpolation: InterpBicubic}
	f, _ := NewVectorField(p, rand.New(rand.NewSource(1)))
	perlin := NewPerlin(f)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = perlin.Evaluate(float32(i%800)+30, 450)
	}
}
