package ply

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadHeader consumes header lines from r up to and including end_header.
// r is left positioned at the first byte of the body.
func ReadHeader(r *bufio.Reader) (*Schema, error) {
	s := &Schema{}
	lineNo := 0

	for {
		raw, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("ply: read header: %w", err)
		}
		if raw == "" && err != nil {
			return nil, &HeaderError{Err: ErrUnterminatedHeader}
		}
		lineNo++

		line := strings.TrimRight(raw, "\r\n")
		fields := strings.Fields(line)
		if len(fields) > 0 {
			if fields[0] == "end_header" {
				break
			}
			if perr := s.applyLine(fields, line); perr != nil {
				return nil, &HeaderError{Line: lineNo, Text: line, Err: perr}
			}
		}

		if err != nil {
			return nil, &HeaderError{Err: ErrUnterminatedHeader}
		}
	}

	if s.Format == FormatUnknown {
		return nil, &HeaderError{Err: ErrMissingFormat}
	}
	return s, nil
}

// applyLine dispatches one header directive on its first token. Directives
// the decoder has no use for are ignored.
func (s *Schema) applyLine(fields []string, line string) error {
	switch fields[0] {
	case "format":
		switch token(fields, 1) {
		case "ascii":
			s.Format = FormatASCII
		case "binary_little_endian":
			s.Format = FormatBinaryLittleEndian
		case "binary_big_endian":
			s.Format = FormatBinaryBigEndian
		default:
			return ErrUnrecognizedFormat
		}
		s.Version = token(fields, 2)

	case "element":
		name := token(fields, 1)
		// A malformed count reads as zero, the same as an empty element.
		count, _ := strconv.Atoi(token(fields, 2))
		s.Elements = append(s.Elements, Element{
			Name:  name,
			Type:  toElementType(name),
			Count: count,
		})

	case "property":
		if len(s.Elements) == 0 {
			return ErrMisplacedProperty
		}
		p := Property{DataType: toDataType(token(fields, 1))}
		next := 2
		if p.DataType == TypeList {
			p.ListSizeType = toDataType(token(fields, 2))
			p.ListElementType = toDataType(token(fields, 3))
			next = 4
		}
		p.Name = token(fields, next)
		p.Type = toPropertyType(p.Name)
		if p.Type.isNormal() {
			s.HasNormals = true
		}
		if p.Type.isTexCoord() {
			s.HasTexCoords = true
		}
		last := &s.Elements[len(s.Elements)-1]
		last.Properties = append(last.Properties, p)

	case "comment":
		text := headerText(line, "comment")
		s.Comments = append(s.Comments, text)
		if len(fields) >= 3 && strings.EqualFold(fields[1], "TextureFile") {
			s.TextureFile = strings.TrimSpace(strings.TrimPrefix(text, fields[1]))
		}

	case "obj_info":
		s.ObjInfo = append(s.ObjInfo, headerText(line, "obj_info"))
	}
	return nil
}

func token(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

// headerText returns the free text following keyword. Exporters on Windows
// often write comments in the local code page, so text that is not UTF-8
// is decoded as Windows-1252.
func headerText(line, keyword string) string {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), keyword))
	if utf8.ValidString(text) {
		return text
	}
	decoded, err := charmap.Windows1252.NewDecoder().String(text)
	if err != nil {
		return text
	}
	return decoded
}
