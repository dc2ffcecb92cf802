// Package interp provides bilinear and bicubic interpolation over any value
// type that supports addition and scalar multiplication.
package interp

// Value is the set of operations interpolation needs from a sample type.
type Value[T any] interface {
	Add(T) T
	Sub(T) T
	Scale(k float32) T
}

// Lerp returns a + k*(b-a). k is not clamped, so values outside [0, 1]
// extrapolate along the same line.
func Lerp[T Value[T]](a, b T, k float32) T {
	return a.Add(b.Sub(a).Scale(k))
}

// Bilinear interpolates across x on both rows, then across y.
func Bilinear[T Value[T]](topLeft, topRight, botLeft, botRight T, dx, dy float32) T {
	top := Lerp(topLeft, topRight, dx)
	bot := Lerp(botLeft, botRight, dx)
	return Lerp(top, bot, dy)
}

// Corners is the corner bundle of a bicubic patch: function values and
// derivatives at the four unit-square corners.
type Corners[T any] struct {
	F, DFx, DFy, DFxy Quad[T]
}

// Quad holds one value per unit-square corner.
type Quad[T any] struct {
	TopLeft, TopRight, BotLeft, BotRight T
}

// Coefficients are the 16 polynomial coefficients of a bicubic patch.
// A[4*j+i] multiplies dx^i * dy^j.
type Coefficients[T any] struct {
	A [16]T
}

// hermiteInverse is the inverse of the bicubic Hermite basis matrix.
//
// Row i gives coefficient a[i] as a combination of the corner bundle laid out
// as [F00 F10 F01 F11 Fx00 Fx10 Fx01 Fx11 Fy00 Fy10 Fy01 Fy11 Fxy00 Fxy10 Fxy01 Fxy11],
// where the suffix is (x, y) of the corner. The basis matrix maps the 16
// coefficients to those 16 constraints; TestHermiteInverseMatchesBasis
// rebuilds it and checks the product is the identity.
var hermiteInverse = [16 * 16]float32{
	1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	-3, 3, 0, 0, -2, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	2, -2, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, -3, 3, 0, 0, -2, -1, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 2, -2, 0, 0, 1, 1, 0, 0,
	-3, 0, 3, 0, 0, 0, 0, 0, -2, 0, -1, 0, 0, 0, 0, 0,
	0, 0, 0, 0, -3, 0, 3, 0, 0, 0, 0, 0, -2, 0, -1, 0,
	9, -9, -9, 9, 6, 3, -6, -3, 6, -6, 3, -3, 4, 2, 2, 1,
	-6, 6, 6, -6, -3, -3, 3, 3, -4, 4, -2, 2, -2, -2, -1, -1,
	2, 0, -2, 0, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 2, 0, -2, 0, 0, 0, 0, 0, 1, 0, 1, 0,
	-6, 6, 6, -6, -4, -2, 4, 2, -3, 3, -3, 3, -2, -1, -2, -1,
	4, -4, -4, 4, 2, 2, -2, -2, 2, -2, 2, -2, 1, 1, 1, 1,
}

// flatten lays out the corner bundle in hermiteInverse column order.
func (c Corners[T]) flatten() [16]T {
	return [16]T{
		c.F.TopLeft, c.F.TopRight, c.F.BotLeft, c.F.BotRight,
		c.DFx.TopLeft, c.DFx.TopRight, c.DFx.BotLeft, c.DFx.BotRight,
		c.DFy.TopLeft, c.DFy.TopRight, c.DFy.BotLeft, c.DFy.BotRight,
		c.DFxy.TopLeft, c.DFxy.TopRight, c.DFxy.BotLeft, c.DFxy.BotRight,
	}
}

// CalcBicubicCoefficients solves the Hermite bicubic system for a patch.
// The resulting polynomial and its x, y and cross derivatives match the
// supplied bundle at (0,0), (1,0), (0,1) and (1,1).
func CalcBicubicCoefficients[T Value[T]](c Corners[T]) Coefficients[T] {
	x := c.flatten()

	var coefs Coefficients[T]
	for i := 0; i < 16; i++ {
		var acc T
		for j := 0; j < 16; j++ {
			k := hermiteInverse[16*i+j]
			if k == 0 {
				continue
			}
			acc = acc.Add(x[j].Scale(k))
		}
		coefs.A[i] = acc
	}
	return coefs
}

// Bicubic evaluates sum(a[4j+i] * dx^i * dy^j) for i, j in [0, 3].
func Bicubic[T Value[T]](dx, dy float32, c Coefficients[T]) T {
	xs := [4]float32{1, dx, dx * dx, dx * dx * dx}
	ys := [4]float32{1, dy, dy * dy, dy * dy * dy}

	var res T
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			res = res.Add(c.A[4*j+i].Scale(xs[i] * ys[j]))
		}
	}
	return res
}
