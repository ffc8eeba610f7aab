package ply

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// scalarReader turns body bytes into numbers. The decoder is written once
// against this interface and stays oblivious to the encoding.
type scalarReader interface {
	readInt(t DataType) (int64, error)
	readFloat(t DataType) (float32, error)
}

func newScalarReader(r *bufio.Reader, f Format) scalarReader {
	switch f {
	case FormatASCII:
		return &asciiReader{r: r}
	case FormatBinaryLittleEndian:
		return &binaryReader{r: r, order: binary.LittleEndian}
	default:
		return &binaryReader{r: r, order: binary.BigEndian}
	}
}

// asciiReader reads whitespace separated tokens. Text has no fixed width,
// so the requested type does not affect how a token is parsed.
type asciiReader struct {
	r   *bufio.Reader
	tok []byte
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func (a *asciiReader) next() (string, error) {
	a.tok = a.tok[:0]
	for {
		c, err := a.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(a.tok) > 0 {
					return string(a.tok), nil
				}
				return "", ErrUnexpectedEOF
			}
			return "", err
		}
		if isSpace(c) {
			if len(a.tok) > 0 {
				return string(a.tok), nil
			}
			continue
		}
		a.tok = append(a.tok, c)
	}
}

func (a *asciiReader) readInt(DataType) (int64, error) {
	tok, err := a.next()
	if err != nil {
		return 0, err
	}
	if v, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedValue, tok)
	}
	return int64(f), nil
}

func (a *asciiReader) readFloat(DataType) (float32, error) {
	tok, err := a.next()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedValue, tok)
	}
	return float32(f), nil
}

// binaryReader reads fixed-width values in the given byte order.
type binaryReader struct {
	r     *bufio.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryReader) fill(n int) ([]byte, error) {
	p := b.buf[:n]
	if _, err := io.ReadFull(b.r, p); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrUnexpectedEOF
		}
		return nil, err
	}
	return p, nil
}

// value decodes one field of type t. Integer types come back in i, floats
// in f; isFloat tells which. List and unknown types consume nothing.
func (b *binaryReader) value(t DataType) (i int64, f float64, isFloat bool, err error) {
	n := t.Size()
	if n == 0 {
		return 0, 0, false, nil
	}
	p, err := b.fill(n)
	if err != nil {
		return 0, 0, false, err
	}
	switch t {
	case Int8:
		return int64(int8(p[0])), 0, false, nil
	case Uint8:
		return int64(p[0]), 0, false, nil
	case Int16:
		return int64(int16(b.order.Uint16(p))), 0, false, nil
	case Uint16:
		return int64(b.order.Uint16(p)), 0, false, nil
	case Int32:
		return int64(int32(b.order.Uint32(p))), 0, false, nil
	case Uint32:
		return int64(b.order.Uint32(p)), 0, false, nil
	case Float32:
		return 0, float64(math.Float32frombits(b.order.Uint32(p))), true, nil
	default: // Float64
		return 0, math.Float64frombits(b.order.Uint64(p)), true, nil
	}
}

func (b *binaryReader) readInt(t DataType) (int64, error) {
	i, f, isFloat, err := b.value(t)
	if isFloat {
		return int64(f), err
	}
	return i, err
}

// readFloat narrows Float64 fields to single precision.
func (b *binaryReader) readFloat(t DataType) (float32, error) {
	i, f, isFloat, err := b.value(t)
	if isFloat {
		return float32(f), err
	}
	return float32(i), err
}
