// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// GLB header: magic, version and total length.
type glbHeader [3]uint32

// GLB chunk header: length and type.
// The payload follows.
type glbChunk [2]uint32

const (
	magic   = 0x46546c67
	version = 2

	typeJSON = 0x4e4f534a
	typeBIN  = 0x004e4942

	headerSize = 12
	chunkSize  = 8
)

// IsGLB returns whether r refers to a binary glTF
// (version 2).
// It consumes the header from r.
func IsGLB(r io.Reader) bool {
	var h glbHeader
	err := binary.Read(r, binary.LittleEndian, h[:])
	return err == nil && h[0] == magic && h[1] == version
}

// SeekJSON reads the header of a GLB blob and the header
// of its JSON chunk.
// If successful, it returns the length of the chunk and r
// is positioned at the start of the JSON string.
// r must refer to an unread GLB blob.
func SeekJSON(r io.Reader) (n int, err error) {
	if !IsGLB(r) {
		return 0, newErr("not a GLB blob")
	}
	var c glbChunk
	switch err = binary.Read(r, binary.LittleEndian, c[:]); {
	case err != nil:
		return 0, errors.Wrap(err, prefix+"failed to read GLB chunk")
	case c[0] == 0 || c[1] != typeJSON:
		return 0, newErr("invalid GLB chunk")
	}
	return int(c[0]), nil
}

// DecodeGLB decodes a GLB blob.
// It returns the document and the payload of the binary
// chunk, which is nil if the blob has none.
func DecodeGLB(r io.Reader) (*GLTF, []byte, error) {
	n, err := SeekJSON(r)
	if err != nil {
		return nil, nil, err
	}
	js := make([]byte, n)
	if _, err = io.ReadFull(r, js); err != nil {
		return nil, nil, errors.Wrap(err, prefix+"truncated JSON chunk")
	}
	f, err := Decode(bytes.NewReader(js))
	if err != nil {
		return nil, nil, err
	}

	var c glbChunk
	switch err = binary.Read(r, binary.LittleEndian, c[:]); {
	case err == io.EOF:
		return f, nil, nil
	case err != nil:
		return nil, nil, errors.Wrap(err, prefix+"failed to read GLB chunk")
	case c[1] != typeBIN:
		return nil, nil, newErr("expected BIN chunk")
	}
	bin := make([]byte, c[0])
	if _, err = io.ReadFull(r, bin); err != nil {
		return nil, nil, errors.Wrap(err, prefix+"truncated BIN chunk")
	}
	return f, bin, nil
}

// EncodeGLB encodes f and bin into w as a GLB blob.
// bin is omitted if empty. Chunks are padded to 4-byte
// boundaries.
func EncodeGLB(w io.Writer, f *GLTF, bin []byte) error {
	js, err := json.Marshal(f)
	if err != nil {
		return errors.Wrap(err, prefix+"failed to encode")
	}
	js = pad(js, ' ')
	length := headerSize + chunkSize + len(js)
	if len(bin) > 0 {
		bin = pad(bin, 0)
		length += chunkSize + len(bin)
	}

	var buf bytes.Buffer
	buf.Grow(length)
	binary.Write(&buf, binary.LittleEndian, glbHeader{magic, version, uint32(length)})
	binary.Write(&buf, binary.LittleEndian, glbChunk{uint32(len(js)), typeJSON})
	buf.Write(js)
	if len(bin) > 0 {
		binary.Write(&buf, binary.LittleEndian, glbChunk{uint32(len(bin)), typeBIN})
		buf.Write(bin)
	}
	if _, err = buf.WriteTo(w); err != nil {
		return errors.Wrap(err, prefix+"failed to write GLB")
	}
	return nil
}

func pad(b []byte, c byte) []byte {
	b = b[:len(b):len(b)]
	for len(b)%4 != 0 {
		b = append(b, c)
	}
	return b
}
