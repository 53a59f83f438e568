package scene

// Camera is a perspective camera. Projection is cached and only recomputed
// by UpdateProjection, so changing Aspect alone has no visible effect.
type Camera struct {
	FOV    float64 // vertical field of view, degrees
	Aspect float64
	Near   float64
	Far    float64

	Position Vec3
	Target   Vec3
	Up       Vec3

	projection Mat4
}

func NewPerspectiveCamera(fov, aspect, near, far float64) *Camera {
	if aspect <= 0 {
		aspect = 1
	}
	c := &Camera{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Target: Vec3{0, 0, -1},
		Up:     Vec3{0, 1, 0},
	}
	c.UpdateProjection()
	return c
}

// SetAspect records a new aspect ratio. Call UpdateProjection to apply it.
func (c *Camera) SetAspect(aspect float64) { c.Aspect = aspect }

func (c *Camera) UpdateProjection() {
	c.projection = Perspective(Deg2Rad(c.FOV), c.Aspect, c.Near, c.Far)
}

func (c *Camera) Projection() Mat4 { return c.projection }

// View returns the world-to-camera matrix.
func (c *Camera) View() Mat4 {
	return LookAt(c.Position, c.Target, c.Up)
}

// SetPosition moves the camera and keeps it looking down -z.
func (c *Camera) SetPosition(p Vec3) {
	dir := c.Target.Sub(c.Position)
	if dir == (Vec3{}) {
		dir = Vec3{0, 0, -1}
	}
	c.Position = p
	c.Target = p.Add(dir)
}
