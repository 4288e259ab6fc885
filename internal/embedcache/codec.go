// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package embedcache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"
)

// Record layout, all integers little-endian:
//
//	magic       [4]byte "RMEC"
//	version     uint16
//	fp_len      uint16
//	fingerprint [fp_len]byte
//	count       uint32
//	dim         uint32
//	values      [count*dim]float32 (IEEE-754 bits, row-major)
//	crc32       uint32 (IEEE, over every preceding byte)
const (
	magic         = "RMEC"
	formatVersion = 1
	headerFixed   = 4 + 2 + 2
	shapeSize     = 4 + 4
	crcSize       = 4
)

// ErrCorrupt is returned by Decode for any malformed record.
var ErrCorrupt = errors.New("corrupt embedding cache")

// Encode serialises an entry. Every vector must have the same length.
func Encode(fingerprint string, vectors [][]float32) ([]byte, error) {
	if len(fingerprint) > math.MaxUint16 {
		return nil, fmt.Errorf("fingerprint too long: %d bytes", len(fingerprint))
	}
	if len(vectors) > math.MaxUint32 {
		return nil, fmt.Errorf("too many vectors: %d", len(vectors))
	}

	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has %d dimensions, want %d", i, len(v), dim)
		}
	}

	size := headerFixed + len(fingerprint) + shapeSize + len(vectors)*dim*4 + crcSize
	buf := make([]byte, 0, size)

	buf = append(buf, magic...)
	buf = binary.LittleEndian.AppendUint16(buf, formatVersion)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(fingerprint)))
	buf = append(buf, fingerprint...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(vectors)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dim))
	for _, v := range vectors {
		for _, x := range v {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(x))
		}
	}
	buf = binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))

	return buf, nil
}

// Decode parses a record produced by Encode. Any structural problem, size
// mismatch or checksum failure wraps ErrCorrupt.
func Decode(data []byte) (*Entry, error) {
	if len(data) < headerFixed+shapeSize+crcSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(data))
	}

	body, trailer := data[:len(data)-crcSize], data[len(data)-crcSize:]
	if got, want := crc32.ChecksumIEEE(body), binary.LittleEndian.Uint32(trailer); got != want {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	if string(body[:4]) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, body[:4])
	}
	if v := binary.LittleEndian.Uint16(body[4:6]); v != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}

	fpLen := int(binary.LittleEndian.Uint16(body[6:8]))
	off := headerFixed
	if len(body) < off+fpLen+shapeSize {
		return nil, fmt.Errorf("%w: truncated fingerprint", ErrCorrupt)
	}
	fingerprint := string(body[off : off+fpLen])
	off += fpLen

	count := int(binary.LittleEndian.Uint32(body[off:]))
	dim := int(binary.LittleEndian.Uint32(body[off+4:]))
	off += shapeSize

	payload := body[off:]
	if dim > 0 && uint64(count) > uint64(len(payload))/(uint64(dim)*4) {
		return nil, fmt.Errorf("%w: %d rows x %d dims exceeds payload", ErrCorrupt, count, dim)
	}
	if uint64(count)*uint64(dim)*4 != uint64(len(payload)) {
		return nil, fmt.Errorf("%w: payload is %d bytes, want %d rows x %d dims", ErrCorrupt, len(payload), count, dim)
	}

	vectors := make([][]float32, count)
	flat := make([]float32, count*dim)
	for i := range flat {
		flat[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[i*4:]))
	}
	for i := range vectors {
		vectors[i] = flat[i*dim : (i+1)*dim : (i+1)*dim]
	}

	return &Entry{Fingerprint: fingerprint, Vectors: vectors}, nil
}
