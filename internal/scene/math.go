package scene

import "math"

type Vec3 struct {
	X, Y, Z float64
}

func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

// Euler is a rotation in radians applied in X, then Y, then Z order.
type Euler struct {
	X, Y, Z float64
}

// Mat4 is a row-major 4x4 matrix acting on column vectors.
type Mat4 [16]float64

func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func (m Mat4) At(row, col int) float64 { return m[row*4+col] }

// Mul returns m*o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += m[i*4+k] * o[k*4+j]
			}
			r[i*4+j] = s
		}
	}
	return r
}

// Transform applies m to the homogeneous point (p, 1) and returns xyz and w.
func (m Mat4) Transform(p Vec3) (Vec3, float64) {
	x := m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3]
	y := m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7]
	z := m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11]
	w := m[12]*p.X + m[13]*p.Y + m[14]*p.Z + m[15]
	return Vec3{x, y, z}, w
}

// TransformDir applies the upper 3x3 of m to d.
func (m Mat4) TransformDir(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[1]*d.Y + m[2]*d.Z,
		m[4]*d.X + m[5]*d.Y + m[6]*d.Z,
		m[8]*d.X + m[9]*d.Y + m[10]*d.Z,
	}
}

// RotationMatrix builds the rotation for e in XYZ order.
func RotationMatrix(e Euler) Mat4 {
	a, b := math.Cos(e.X), math.Sin(e.X)
	c, d := math.Cos(e.Y), math.Sin(e.Y)
	ce, f := math.Cos(e.Z), math.Sin(e.Z)
	ae, af, be, bf := a*ce, a*f, b*ce, b*f
	return Mat4{
		c * ce, -c * f, d, 0,
		af + be*d, ae - bf*d, -b * c, 0,
		bf - ae*d, be + af*d, a * c, 0,
		0, 0, 0, 1,
	}
}

// Compose builds translate * rotate * scale.
func Compose(pos Vec3, rot Euler, scale Vec3) Mat4 {
	m := RotationMatrix(rot)
	for row := 0; row < 3; row++ {
		m[row*4+0] *= scale.X
		m[row*4+1] *= scale.Y
		m[row*4+2] *= scale.Z
	}
	m[3], m[7], m[11] = pos.X, pos.Y, pos.Z
	return m
}

// Perspective returns an OpenGL-style projection. fovY is in radians.
func Perspective(fovY, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovY/2)
	nf := 1 / (near - far)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, 2 * far * near * nf,
		0, 0, -1, 0,
	}
}

// LookAt returns the view matrix of an eye at eye looking at target.
func LookAt(eye, target, up Vec3) Mat4 {
	z := eye.Sub(target).Normalize()
	if z == (Vec3{}) {
		z = Vec3{0, 0, 1}
	}
	x := up.Cross(z).Normalize()
	if x == (Vec3{}) {
		x = Vec3{1, 0, 0}
	}
	y := z.Cross(x)
	return Mat4{
		x.X, x.Y, x.Z, -x.Dot(eye),
		y.X, y.Y, y.Z, -y.Dot(eye),
		z.X, z.Y, z.Z, -z.Dot(eye),
		0, 0, 0, 1,
	}
}

func Deg2Rad(d float64) float64 { return d * math.Pi / 180 }
