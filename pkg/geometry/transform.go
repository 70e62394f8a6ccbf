package geometry

import "github.com/go-gl/mathgl/mgl64"

// Compose builds an object-to-world matrix from a location, XYZ euler rotation in
// degrees and per-axis scale. Rotation is applied X first, then Y, then Z.
func Compose(location, rotationDeg, scale Vector3) mgl64.Mat4 {
	rotation := mgl64.HomogRotate3DZ(mgl64.DegToRad(rotationDeg.Z)).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(rotationDeg.Y))).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(rotationDeg.X)))

	return mgl64.Translate3D(location.X, location.Y, location.Z).
		Mul4(rotation).
		Mul4(mgl64.Scale3D(scale.X, scale.Y, scale.Z))
}

// TransformPoint maps a local point through an affine matrix
func TransformPoint(m mgl64.Mat4, p Vector3) Vector3 {
	return FromVec3(mgl64.TransformCoordinate(p.Vec3(), m))
}

// Origin returns the world position of the local origin
func Origin(m mgl64.Mat4) Vector3 {
	return FromVec3(m.Col(3).Vec3())
}
