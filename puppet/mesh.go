package puppet

// Mesh is the geometry of a drawable node: flat 2D vertex positions, texture
// coordinates, and an optional triangle index list. When Indices is empty the
// vertices are drawn as an ordered, non-indexed triangle list.
type Mesh struct {
	// Verts holds x,y pairs. This is the array as authored; it is retained
	// unmodified so serialization round-trips exactly.
	Verts []float32

	// UVs holds u,v pairs, or nil if the source omitted them. Like Verts it
	// is the authored array; synthesized UVs never appear here.
	UVs []float32

	// Indices is the triangle index list, or nil for non-indexed drawing.
	Indices []uint16

	// interleaved is the packed [x,y,u,v,...] GPU buffer built at load time.
	interleaved []float32
}

// BuildMesh packs the given arrays into a mesh with an interleaved vertex
// buffer. If uvs is nil, texture coordinates are synthesized once by
// normalizing each vertex position against the bounding box of the vertex
// set. The derivation is permanent: mutating Verts afterward does not
// re-derive.
func BuildMesh(verts, uvs []float32, indices []uint16) *Mesh {
	m := &Mesh{Verts: verts, UVs: uvs, Indices: indices}
	packed := uvs
	if packed == nil {
		packed = synthesizeUVs(verts)
	}
	n := len(verts) / 2
	m.interleaved = make([]float32, 0, n*4)
	for i := 0; i < n; i++ {
		m.interleaved = append(m.interleaved,
			verts[i*2], verts[i*2+1],
			packed[i*2], packed[i*2+1])
	}
	return m
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Verts) / 2
}

// Interleaved returns the packed [x,y,u,v,...] buffer.
// The returned slice must not be mutated by the caller.
func (m *Mesh) Interleaved() []float32 {
	return m.interleaved
}

// TriangleIndices returns the index buffer used for drawing. For non-indexed
// meshes this is a generated ordered list 0,1,2,... covering every vertex.
func (m *Mesh) TriangleIndices() []uint16 {
	if m.Indices != nil {
		return m.Indices
	}
	n := m.VertexCount()
	idx := make([]uint16, n)
	for i := range idx {
		idx[i] = uint16(i)
	}
	return idx
}

// synthesizeUVs projects each vertex onto the axis-aligned bounding box of
// the vertex set: uv = ((x-minX)/w, (y-minY)/h). Degenerate extents (a box
// with zero width or height) map to 0 on that axis.
func synthesizeUVs(verts []float32) []float32 {
	n := len(verts) / 2
	uvs := make([]float32, n*2)
	if n == 0 {
		return uvs
	}

	minX, minY := verts[0], verts[1]
	maxX, maxY := minX, minY
	for i := 1; i < n; i++ {
		x, y := verts[i*2], verts[i*2+1]
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	w := maxX - minX
	h := maxY - minY
	for i := 0; i < n; i++ {
		if w != 0 {
			uvs[i*2] = (verts[i*2] - minX) / w
		}
		if h != 0 {
			uvs[i*2+1] = (verts[i*2+1] - minY) / h
		}
	}
	return uvs
}
