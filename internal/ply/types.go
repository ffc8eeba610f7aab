package ply

import "github.com/go-gl/mathgl/mgl32"

// Format is the body encoding declared by the header's format line.
type Format int

const (
	FormatUnknown Format = iota
	FormatASCII
	FormatBinaryLittleEndian
	FormatBinaryBigEndian
)

func (f Format) String() string {
	switch f {
	case FormatASCII:
		return "ascii"
	case FormatBinaryLittleEndian:
		return "binary_little_endian"
	case FormatBinaryBigEndian:
		return "binary_big_endian"
	}
	return "unknown"
}

// DataType is the storage type of a property or list component.
type DataType int

const (
	TypeUnknown DataType = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
	TypeList
)

var dataTypeNames = map[string]DataType{
	"int8":    Int8,
	"char":    Int8,
	"uint8":   Uint8,
	"uchar":   Uint8,
	"int16":   Int16,
	"short":   Int16,
	"uint16":  Uint16,
	"ushort":  Uint16,
	"int32":   Int32,
	"int":     Int32,
	"uint32":  Uint32,
	"uint":    Uint32,
	"float32": Float32,
	"float":   Float32,
	"float64": Float64,
	"double":  Float64,
	"list":    TypeList,
}

func toDataType(name string) DataType {
	if t, ok := dataTypeNames[name]; ok {
		return t
	}
	return TypeUnknown
}

// Size returns the encoded width in bytes, or 0 for list and unknown types.
func (t DataType) Size() int {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Float64:
		return 8
	}
	return 0
}

func (t DataType) String() string {
	switch t {
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case TypeList:
		return "list"
	}
	return "unknown"
}

// PropertyType is the semantic role of a property, derived from its name.
type PropertyType int

const (
	PropertyUnknown PropertyType = iota
	PropertyVertexIndex
	PropertyX
	PropertyY
	PropertyZ
	PropertyNormalX
	PropertyNormalY
	PropertyNormalZ
	PropertyTextureU
	PropertyTextureV
)

var propertyNames = map[string]PropertyType{
	"vertex_index": PropertyVertexIndex,
	"x":            PropertyX,
	"y":            PropertyY,
	"z":            PropertyZ,
	"nx":           PropertyNormalX,
	"ny":           PropertyNormalY,
	"nz":           PropertyNormalZ,
	"s":            PropertyTextureU,
	"t":            PropertyTextureV,
}

func toPropertyType(name string) PropertyType {
	return propertyNames[name]
}

func (p PropertyType) isNormal() bool {
	return p == PropertyNormalX || p == PropertyNormalY || p == PropertyNormalZ
}

func (p PropertyType) isTexCoord() bool {
	return p == PropertyTextureU || p == PropertyTextureV
}

// ElementType distinguishes the elements the decoder gives meaning to.
type ElementType int

const (
	ElementUnknown ElementType = iota
	ElementVertex
	ElementFace
)

func toElementType(name string) ElementType {
	switch name {
	case "vertex":
		return ElementVertex
	case "face":
		return ElementFace
	}
	return ElementUnknown
}

func (e ElementType) String() string {
	switch e {
	case ElementVertex:
		return "vertex"
	case ElementFace:
		return "face"
	}
	return "unknown"
}

// Property is one field of an element record. ListSizeType and
// ListElementType are only meaningful when DataType is TypeList.
type Property struct {
	Name            string
	DataType        DataType
	Type            PropertyType
	ListSizeType    DataType
	ListElementType DataType
}

// Element is a repeated record declared in the header.
type Element struct {
	Name       string
	Type       ElementType
	Count      int
	Properties []Property
}

// Schema is the parsed header. Elements and their properties are kept in
// header order, which is also the order the body is decoded in.
type Schema struct {
	Format       Format
	Version      string
	Elements     []Element
	HasNormals   bool
	HasTexCoords bool

	Comments    []string
	ObjInfo     []string
	TextureFile string // from "comment TextureFile <name>", empty if absent
}

// VertexCount sums the declared counts of all vertex elements.
func (s *Schema) VertexCount() int {
	n := 0
	for _, e := range s.Elements {
		if e.Type == ElementVertex {
			n += e.Count
		}
	}
	return n
}

// GeometrySink receives decoded buffers. Load only calls it after the whole
// stream decoded successfully.
type GeometrySink interface {
	SetPositions([]mgl32.Vec3)
	SetNormals([]mgl32.Vec3)
	SetTexCoords([]mgl32.Vec2)
	SetIndices([]uint32)
}

// Geometry holds flat buffers decoded from a PLY body.
// Normals is nil unless the header declared nx/ny/nz, TexCoords unless s/t.
// Indices holds three entries per triangle.
type Geometry struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Indices   []uint32
}

func (g *Geometry) SetPositions(p []mgl32.Vec3) { g.Positions = p }
func (g *Geometry) SetNormals(n []mgl32.Vec3)   { g.Normals = n }
func (g *Geometry) SetTexCoords(t []mgl32.Vec2) { g.TexCoords = t }
func (g *Geometry) SetIndices(i []uint32)       { g.Indices = i }

// TriangleCount returns len(Indices)/3.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Triangle returns the vertex indices of triangle i.
func (g *Geometry) Triangle(i int) [3]uint32 {
	return [3]uint32{g.Indices[i*3], g.Indices[i*3+1], g.Indices[i*3+2]}
}

// Bounds returns the axis-aligned box of all positions. ok is false when
// there are no positions.
func (g *Geometry) Bounds() (min, max mgl32.Vec3, ok bool) {
	if len(g.Positions) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	min, max = g.Positions[0], g.Positions[0]
	for _, p := range g.Positions[1:] {
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	return min, max, true
}
