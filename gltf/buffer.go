// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"encoding/base64"
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Opener fetches the contents of an external URI.
type Opener func(uri string) ([]byte, error)

// LoadBuffers returns the contents of every buffer in f.
// The buffer without URI is bin, the binary chunk of a GLB
// blob. Data URIs are decoded in place. Other URIs are
// fetched with open, which can be nil if f is
// self-contained.
func (f *GLTF) LoadBuffers(bin []byte, open Opener) ([][]byte, error) {
	data := make([][]byte, len(f.Buffers))
	for i, b := range f.Buffers {
		var err error
		switch {
		case b.URI == "":
			if bin == nil {
				return nil, newErr("buffer " + strconv.Itoa(i) + " has no data")
			}
			data[i] = bin
		case strings.HasPrefix(b.URI, "data:"):
			data[i], err = decodeDataURI(b.URI)
		case open == nil:
			return nil, newErr("cannot open external buffer " + strconv.Quote(b.URI))
		default:
			data[i], err = open(b.URI)
		}
		if err != nil {
			return nil, errors.Wrapf(err, prefix+"failed to load buffer %d", i)
		}
		if int64(len(data[i])) < b.ByteLength {
			return nil, newErr("buffer " + strconv.Itoa(i) + " is shorter than its byteLength")
		}
	}
	return data, nil
}

func decodeDataURI(uri string) ([]byte, error) {
	const b64 = ";base64,"
	i := strings.Index(uri, b64)
	if i < 0 {
		return nil, newErr("data URI is not base64-encoded")
	}
	return base64.StdEncoding.DecodeString(uri[i+len(b64):])
}

// ReadFloats reads the elements of accessor idx from
// buffers (see LoadBuffers) and converts them to float32.
// Normalized integer components are mapped to [0, 1] or
// [-1, 1]. Sparse substitutions are applied.
// It returns the components of all elements, one after
// the other, and the number of components per element.
func (f *GLTF) ReadFloats(idx int64, buffers [][]byte) ([]float32, int, error) {
	if !inRange(f.Accessors, idx) {
		return nil, 0, newErr("invalid accessor index " + strconv.FormatInt(idx, 10))
	}
	a := &f.Accessors[idx]
	n := ComponentCount(a.Type)
	size := componentSize(a.ComponentType)
	if n == 0 || size == 0 {
		return nil, 0, newErr("invalid accessor " + strconv.FormatInt(idx, 10))
	}
	dst := make([]float32, int(a.Count)*n)

	if a.BufferView != nil {
		src, stride, err := f.view(*a.BufferView, buffers)
		if err != nil {
			return nil, 0, err
		}
		if stride == 0 {
			stride = size * int64(n)
		}
		for i := int64(0); i < a.Count; i++ {
			off := a.ByteOffset + i*stride
			for j := 0; j < n; j++ {
				o := off + int64(j)*size
				if o+size > int64(len(src)) {
					return nil, 0, newErr("accessor " + strconv.FormatInt(idx, 10) + " out of bounds")
				}
				dst[int(i)*n+j] = component(src[o:], a.ComponentType, a.Normalized)
			}
		}
	}

	if s := a.Sparse; s != nil {
		is, _, err := f.view(s.Indices.BufferView, buffers)
		if err != nil {
			return nil, 0, err
		}
		vs, _, err := f.view(s.Values.BufferView, buffers)
		if err != nil {
			return nil, 0, err
		}
		isz := componentSize(s.Indices.ComponentType)
		for k := int64(0); k < s.Count; k++ {
			at := s.Indices.ByteOffset + k*isz
			if at+isz > int64(len(is)) {
				return nil, 0, newErr("sparse indices out of bounds")
			}
			e := int64(component(is[at:], s.Indices.ComponentType, false))
			if e < 0 || e >= a.Count {
				return nil, 0, newErr("invalid sparse index " + strconv.FormatInt(e, 10))
			}
			for j := 0; j < n; j++ {
				vo := s.Values.ByteOffset + (k*int64(n)+int64(j))*size
				if vo+size > int64(len(vs)) {
					return nil, 0, newErr("sparse values out of bounds")
				}
				dst[int(e)*n+j] = component(vs[vo:], a.ComponentType, a.Normalized)
			}
		}
	}
	return dst, n, nil
}

// view returns the bytes of buffer view idx and its stride.
func (f *GLTF) view(idx int64, buffers [][]byte) ([]byte, int64, error) {
	if !inRange(f.BufferViews, idx) {
		return nil, 0, newErr("invalid buffer view index " + strconv.FormatInt(idx, 10))
	}
	v := &f.BufferViews[idx]
	if !inRange(buffers, v.Buffer) {
		return nil, 0, newErr("buffer " + strconv.FormatInt(v.Buffer, 10) + " not loaded")
	}
	b := buffers[v.Buffer]
	if v.ByteOffset < 0 || v.ByteOffset+v.ByteLength > int64(len(b)) {
		return nil, 0, newErr("buffer view " + strconv.FormatInt(idx, 10) + " out of bounds")
	}
	return b[v.ByteOffset : v.ByteOffset+v.ByteLength], v.ByteStride, nil
}

// component decodes a single little-endian component.
func component(b []byte, typ int64, normalized bool) float32 {
	switch typ {
	case Byte:
		x := float32(int8(b[0]))
		if normalized {
			return max(x/127, -1)
		}
		return x
	case UnsignedByte:
		x := float32(b[0])
		if normalized {
			return x / 255
		}
		return x
	case Short:
		x := float32(int16(binary.LittleEndian.Uint16(b)))
		if normalized {
			return max(x/32767, -1)
		}
		return x
	case UnsignedShort:
		x := float32(binary.LittleEndian.Uint16(b))
		if normalized {
			return x / 65535
		}
		return x
	case UnsignedInt:
		return float32(binary.LittleEndian.Uint32(b))
	case Float:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	}
	panic(prefix + "undefined component type")
}
