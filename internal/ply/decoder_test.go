package ply

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const cubeHeader = "format %s 1.0\n" +
	"element vertex 4\n" +
	"property float x\n" +
	"property float y\n" +
	"property double z\n" +
	"property float nx\n" +
	"property float ny\n" +
	"property float nz\n" +
	"property float s\n" +
	"property float t\n" +
	"property uchar quality\n" +
	"element face 2\n" +
	"property uchar flags\n" +
	"property list uchar uint vertex_index\n" +
	"end_header\n"

type testVertex struct {
	pos    [3]float64
	normal [3]float32
	uv     [2]float32
}

var testVerts = []testVertex{
	{[3]float64{0, 0, 0}, [3]float32{0, 0, 1}, [2]float32{0, 0}},
	{[3]float64{1.5, 0, -2.25}, [3]float32{0, 1, 0}, [2]float32{1, 0}},
	{[3]float64{1, 1, 0.1}, [3]float32{1, 0, 0}, [2]float32{1, 1}},
	{[3]float64{-3, 1, 4}, [3]float32{0, 0, -1}, [2]float32{0, 1}},
}

var testFaces = [][]uint32{{0, 1, 2, 3}, {3, 2}}

// encodeBinary writes the cube body in the given byte order.
func encodeBinary(order binary.ByteOrder, format string) []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Replace(cubeHeader, "%s", format, 1))
	for _, v := range testVerts {
		binary.Write(&buf, order, float32(v.pos[0]))
		binary.Write(&buf, order, float32(v.pos[1]))
		binary.Write(&buf, order, v.pos[2])
		binary.Write(&buf, order, v.normal)
		binary.Write(&buf, order, v.uv)
		buf.WriteByte(200)
	}
	for _, f := range testFaces {
		buf.WriteByte(0xff)
		buf.WriteByte(byte(len(f)))
		binary.Write(&buf, order, f)
	}
	return buf.Bytes()
}

func TestBinaryByteOrders(t *testing.T) {
	_, le, err := Decode(bytes.NewReader(encodeBinary(binary.LittleEndian, "binary_little_endian")))
	if err != nil {
		t.Fatal(err)
	}
	_, be, err := Decode(bytes.NewReader(encodeBinary(binary.BigEndian, "binary_big_endian")))
	if err != nil {
		t.Fatal(err)
	}

	for _, g := range []*Geometry{le, be} {
		if len(g.Positions) != 4 || len(g.Normals) != 4 || len(g.TexCoords) != 4 {
			t.Fatalf("buffer sizes %d/%d/%d", len(g.Positions), len(g.Normals), len(g.TexCoords))
		}
		for i, v := range testVerts {
			want := mgl32.Vec3{float32(v.pos[0]), float32(v.pos[1]), float32(v.pos[2])}
			if g.Positions[i] != want {
				t.Errorf("position %d = %v, want %v", i, g.Positions[i], want)
			}
			if g.Normals[i] != mgl32.Vec3(v.normal) {
				t.Errorf("normal %d = %v", i, g.Normals[i])
			}
			if g.TexCoords[i] != mgl32.Vec2(v.uv) {
				t.Errorf("texcoord %d = %v", i, g.TexCoords[i])
			}
		}
		want := []uint32{0, 1, 2, 0, 2, 3}
		if !equalIndices(g.Indices, want) {
			t.Errorf("indices = %v, want %v", g.Indices, want)
		}
	}
}

func TestASCIIScenario(t *testing.T) {
	in := "ply\n" +
		"format ascii 1.0\n" +
		"element vertex 3\n" +
		"property float x\n" +
		"property float y\n" +
		"property float z\n" +
		"element face 1\n" +
		"property list uchar int vertex_index\n" +
		"end_header\n" +
		"0 0 0\n1 0 0\n0 1 0\n3 0 1 2\n"

	_, g, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	if len(g.Positions) != len(want) {
		t.Fatalf("got %d positions", len(g.Positions))
	}
	for i := range want {
		if g.Positions[i] != want[i] {
			t.Errorf("position %d = %v", i, g.Positions[i])
		}
	}
	if g.Normals != nil || g.TexCoords != nil {
		t.Error("normals and texcoords should be absent")
	}
	if !equalIndices(g.Indices, []uint32{0, 1, 2}) {
		t.Errorf("indices = %v", g.Indices)
	}
}

func TestPositionsOnly(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		var b strings.Builder
		b.WriteString("format ascii 1.0\nelement vertex ")
		b.WriteString(string(rune('0' + n)))
		b.WriteString("\nproperty float x\nproperty float y\nproperty float z\nend_header\n")
		for i := 0; i < n; i++ {
			b.WriteString("1 2 3\n")
		}
		_, g, err := Decode(strings.NewReader(b.String()))
		if err != nil {
			t.Fatal(err)
		}
		if len(g.Positions) != n || len(g.Normals) != 0 || len(g.TexCoords) != 0 {
			t.Errorf("n=%d: %d/%d/%d", n, len(g.Positions), len(g.Normals), len(g.TexCoords))
		}
	}
}

func TestNormalsFlagSpansElements(t *testing.T) {
	// Normals are declared on the second vertex element only, yet every
	// vertex element gets a normal slot.
	in := "format ascii 1.0\n" +
		"element vertex 2\n" +
		"property float x\n" +
		"element vertex 1\n" +
		"property float x\n" +
		"property float nx\n" +
		"end_header\n" +
		"1\n2\n3 0.5\n"
	_, g, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Normals) != 3 || len(g.Positions) != 3 {
		t.Fatalf("normals=%d positions=%d", len(g.Normals), len(g.Positions))
	}
	if g.Normals[0] != (mgl32.Vec3{}) || g.Normals[2][0] != 0.5 {
		t.Errorf("normals = %v", g.Normals)
	}
}

func TestFanTriangulation(t *testing.T) {
	tests := []struct {
		face []uint32
		want []uint32
	}{
		{[]uint32{2, 5, 7, 9}, []uint32{2, 5, 7, 2, 7, 9}},
		{[]uint32{4, 1, 8}, []uint32{4, 1, 8}},
		{[]uint32{0, 1, 2, 3, 4}, []uint32{0, 1, 2, 0, 2, 3, 0, 3, 4}},
		{[]uint32{0, 1}, nil},
		{[]uint32{7}, nil},
		{nil, nil},
	}
	for _, tt := range tests {
		got := appendFan(nil, tt.face)
		if !equalIndices(got, tt.want) {
			t.Errorf("appendFan(%v) = %v, want %v", tt.face, got, tt.want)
		}
		if len(tt.face) >= 3 && len(got)/3 != len(tt.face)-2 {
			t.Errorf("appendFan(%v) made %d triangles", tt.face, len(got)/3)
		}
	}
}

func TestDegenerateFacesSkipped(t *testing.T) {
	in := "format ascii 1.0\n" +
		"element face 4\n" +
		"property list uchar int vertex_index\n" +
		"end_header\n" +
		"0\n1 5\n2 5 6\n4 2 5 7 9\n"
	_, g, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if !equalIndices(g.Indices, []uint32{2, 5, 7, 2, 7, 9}) {
		t.Errorf("indices = %v", g.Indices)
	}
}

func TestListOnVertexDiscarded(t *testing.T) {
	in := "format ascii 1.0\n" +
		"element vertex 2\n" +
		"property float x\n" +
		"property list uchar float weights\n" +
		"property float y\n" +
		"end_header\n" +
		"1 2 0.5 0.5 7\n" +
		"2 0 8\n"
	_, g, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []mgl32.Vec3{{1, 7, 0}, {2, 8, 0}}
	for i := range want {
		if g.Positions[i] != want[i] {
			t.Errorf("position %d = %v, want %v", i, g.Positions[i], want[i])
		}
	}
	if len(g.Indices) != 0 {
		t.Errorf("indices = %v", g.Indices)
	}
}

func TestBinaryScalarTypes(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("format binary_big_endian 1.0\n" +
		"element vertex 1\n" +
		"property char x\n" +
		"property ushort y\n" +
		"property int z\n" +
		"property uint extra\n" +
		"element face 1\n" +
		"property list ushort uint vertex_index\n" +
		"end_header\n")
	be := binary.BigEndian
	buf.WriteByte(0xfe) // -2
	binary.Write(&buf, be, uint16(65535))
	binary.Write(&buf, be, int32(-70000))
	binary.Write(&buf, be, uint32(math.MaxUint32))
	binary.Write(&buf, be, uint16(3))
	binary.Write(&buf, be, []uint32{4000000000, 1, 2})

	_, g, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if want := (mgl32.Vec3{-2, 65535, -70000}); g.Positions[0] != want {
		t.Errorf("position = %v, want %v", g.Positions[0], want)
	}
	if !equalIndices(g.Indices, []uint32{4000000000, 1, 2}) {
		t.Errorf("indices = %v", g.Indices)
	}
}

func TestTruncatedBody(t *testing.T) {
	full := encodeBinary(binary.LittleEndian, "binary_little_endian")
	_, _, err := Decode(bytes.NewReader(full[:len(full)-3]))
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("err = %v, want ErrUnexpectedEOF", err)
	}

	in := "format ascii 1.0\nelement vertex 2\nproperty float x\nend_header\n1\n"
	_, _, err = Decode(strings.NewReader(in))
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("ascii err = %v, want ErrUnexpectedEOF", err)
	}
}

func TestMalformedASCII(t *testing.T) {
	in := "format ascii 1.0\nelement vertex 1\nproperty float x\nend_header\nbanana\n"
	_, _, err := Decode(strings.NewReader(in))
	if !errors.Is(err, ErrMalformedValue) {
		t.Errorf("err = %v, want ErrMalformedValue", err)
	}
}

func TestUnknownTypeConsumesNothing(t *testing.T) {
	// A binary property of unknown type reads as zero without advancing.
	var buf bytes.Buffer
	buf.WriteString("format binary_little_endian 1.0\n" +
		"element vertex 1\n" +
		"property quaternion w\n" +
		"property float x\n" +
		"end_header\n")
	binary.Write(&buf, binary.LittleEndian, float32(3.5))
	_, g, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if g.Positions[0][0] != 3.5 {
		t.Errorf("x = %v", g.Positions[0][0])
	}
}

func TestGeometryHelpers(t *testing.T) {
	g := &Geometry{
		Positions: []mgl32.Vec3{{1, -1, 0}, {-2, 3, 5}, {0, 0, -4}},
		Indices:   []uint32{0, 1, 2, 2, 1, 0},
	}
	min, max, ok := g.Bounds()
	if !ok || min != (mgl32.Vec3{-2, -1, -4}) || max != (mgl32.Vec3{1, 3, 5}) {
		t.Errorf("bounds = %v %v %v", min, max, ok)
	}
	if g.TriangleCount() != 2 || g.Triangle(1) != [3]uint32{2, 1, 0} {
		t.Errorf("triangles = %d %v", g.TriangleCount(), g.Triangle(1))
	}
	if _, _, ok := (&Geometry{}).Bounds(); ok {
		t.Error("empty geometry has no bounds")
	}
}

func equalIndices(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
