package viewer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
)

// Camera is an orbit camera around a target, Z up
type Camera struct {
	Target    geometry.Vector3
	FOV       float64 // Vertical field of view in radians
	Distance  float64
	Elevation float64 // Radians above the XY plane
	Azimuth   float64 // Radians around Z, zero looks along +Y
}

// NewCamera creates a camera framing a bounding box
func NewCamera(bbox geometry.BoundingBox, fovDeg float64) *Camera {
	if bbox.Empty() {
		bbox = geometry.BoundsOf([]geometry.Vector3{{X: -1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: 1}})
	}
	fov := mgl64.DegToRad(fovDeg)

	// Fit the bounding sphere into the narrower field of view
	radius := math.Max(bbox.Diagonal()/2, 1e-3)
	distance := radius / math.Sin(fov/2) * 1.1

	return &Camera{
		Target:    bbox.Center(),
		FOV:       fov,
		Distance:  distance,
		Elevation: math.Pi / 6,
		Azimuth:   math.Pi / 6,
	}
}

// Position returns the eye position
func (c *Camera) Position() geometry.Vector3 {
	ce := math.Cos(c.Elevation)
	offset := geometry.NewVector3(
		c.Distance*ce*math.Sin(c.Azimuth),
		-c.Distance*ce*math.Cos(c.Azimuth),
		c.Distance*math.Sin(c.Elevation),
	)
	return c.Target.Add(offset)
}

// Rotate orbits the camera by the given angles in radians
func (c *Camera) Rotate(deltaElevation, deltaAzimuth float64) {
	c.Elevation += deltaElevation
	c.Azimuth = math.Mod(c.Azimuth+deltaAzimuth, 2*math.Pi)

	// Clamp elevation short of the poles where the up vector degenerates
	maxAngle := math.Pi/2 - 0.05
	c.Elevation = math.Max(-maxAngle, math.Min(maxAngle, c.Elevation))
}

// Zoom scales the camera distance
func (c *Camera) Zoom(delta float64) {
	c.Distance *= 1.0 + delta
	if c.Distance < 1e-3 {
		c.Distance = 1e-3
	}
}

// View returns the world-to-camera matrix
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position().Vec3(), c.Target.Vec3(), mgl64.Vec3{0, 0, 1})
}

// Projection returns the perspective matrix; the clip range follows the distance
func (c *Camera) Projection(aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(c.FOV, aspect, c.Distance*0.01, c.Distance*100)
}

// ViewProj returns projection times view
func (c *Camera) ViewProj(width, height int) mgl64.Mat4 {
	aspect := 1.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}
	return c.Projection(aspect).Mul4(c.View())
}

// Project maps a world point to pixel coordinates (y down) and view depth.
// ok is false for points behind the camera.
func Project(viewProj mgl64.Mat4, p geometry.Vector3, width, height int) (x, y, depth float64, ok bool) {
	clip := viewProj.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	if clip[3] <= 1e-9 {
		return 0, 0, 0, false
	}
	nx, ny, nz := clip[0]/clip[3], clip[1]/clip[3], clip[2]/clip[3]
	x = (nx + 1) / 2 * float64(width)
	y = (1 - ny) / 2 * float64(height)
	return x, y, nz, true
}
