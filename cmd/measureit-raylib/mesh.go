package main

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/draw"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
)

// objectMesh is the GPU copy of one scene object, in world space
type objectMesh struct {
	mesh  rl.Mesh
	edges [][2]rl.Vector3
	empty bool
}

// uploadObject fan-triangulates the faces of obj with baked lighting and uploads them
func uploadObject(obj draw.Object) objectMesh {
	m := obj.Transform()
	world := make([]geometry.Vector3, len(obj.Vertices()))
	for i, v := range obj.Vertices() {
		world[i] = geometry.TransformPoint(m, v)
	}

	var vertices, normals, texcoords []float32
	var colors []uint8
	var edges [][2]rl.Vector3
	lightDir := geometry.NewVector3(-0.5, -0.5, -1.0).Normalize()

	for _, face := range obj.Faces() {
		if len(face) < 3 {
			continue
		}
		loop := make([]geometry.Vector3, len(face))
		for i, idx := range face {
			loop[i] = world[idx]
			edges = append(edges, [2]rl.Vector3{toRL(world[idx]), toRL(world[face[(i+1)%len(face)]])})
		}
		normal := loop[1].Sub(loop[0]).Cross(loop[2].Sub(loop[0])).Normalize()

		// Two-sided diffuse so faces of either winding are lit
		light := math.Max(0.3, math.Abs(normal.Dot(lightDir)))
		r := uint8(200 * light * 0.55)
		g := uint8(200 * light * 0.6)
		b := uint8(200 * light * 0.65)

		for i := 1; i+1 < len(loop); i++ {
			for _, p := range [3]geometry.Vector3{loop[0], loop[i], loop[i+1]} {
				vertices = append(vertices, float32(p.X), float32(p.Y), float32(p.Z))
				normals = append(normals, float32(normal.X), float32(normal.Y), float32(normal.Z))
				texcoords = append(texcoords, 0, 0)
				colors = append(colors, r, g, b, 255)
			}
		}
	}

	out := objectMesh{edges: edges, empty: len(vertices) == 0}
	if out.empty {
		return out
	}
	out.mesh = rl.Mesh{
		VertexCount:   int32(len(vertices) / 3),
		TriangleCount: int32(len(vertices) / 9),
		Vertices:      &vertices[0],
		Normals:       &normals[0],
		Texcoords:     &texcoords[0],
		Colors:        &colors[0],
	}
	rl.UploadMesh(&out.mesh, false)
	return out
}

func (o *objectMesh) unload() {
	if !o.empty {
		rl.UnloadMesh(&o.mesh)
	}
}

func toRL(v geometry.Vector3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
