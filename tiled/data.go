package tiled

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Layer data encodings and compression tags as they appear in the documents.
const (
	encodingCSV    = "csv"
	encodingBase64 = "base64"

	compressionNone    = ""
	compressionZlib    = "zlib"
	compressionGzip    = "gzip"
	compressionChunked = "chunked"
)

// decodeCells decodes a layer's raw payload into a flat cell array.
//
// The "csv" encoding splits the text on newlines then commas and parses each
// non-empty token as a signed integer. Every other encoding takes the binary
// path: base64-decode, decompress per the compression tag, then reinterpret
// the bytes as little-endian 32-bit cell values. chunkCount is only
// meaningful for the chunked compression scheme, where the payload is split
// into that many equal-size chunks, each inflated independently.
func decodeCells(payload, encoding, compression string, chunkCount int) ([]uint32, error) {
	if encoding == encodingCSV {
		return decodeCSV(payload)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrMalformedDocument, err)
	}
	raw, err = decompress(raw, compression, chunkCount)
	if err != nil {
		return nil, err
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%w: cell data length %d is not a multiple of 4", ErrMalformedDocument, len(raw))
	}

	cells := make([]uint32, len(raw)/4)
	for i := range cells {
		cells[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return cells, nil
}

func decodeCSV(payload string) ([]uint32, error) {
	var cells []uint32
	for _, line := range strings.Split(payload, "\n") {
		for _, tok := range strings.Split(line, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			v, err := strconv.ParseInt(tok, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: csv token %q", ErrMalformedDocument, tok)
			}
			cells = append(cells, uint32(v))
		}
	}
	return cells, nil
}

// decompress applies the declared compression scheme. Unknown tags are fatal.
func decompress(raw []byte, compression string, chunkCount int) ([]byte, error) {
	switch compression {
	case compressionNone:
		return raw, nil
	case compressionZlib:
		return inflate(raw)
	case compressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrMalformedDocument, err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrMalformedDocument, err)
		}
		return out, nil
	case compressionChunked:
		return inflateChunked(raw, chunkCount)
	}
	return nil, fmt.Errorf("%w: compression %q", ErrUnsupportedEncoding, compression)
}

// inflate handles both zlib-wrapped and raw deflate streams: the wrapped
// form is tried first, and a missing header falls back to raw deflate.
func inflate(raw []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(raw))
	if err == nil {
		defer r.Close()
		out, err := io.ReadAll(r)
		if err == nil {
			return out, nil
		}
	}
	fr := flate.NewReader(bytes.NewReader(raw))
	defer fr.Close()
	out, err := io.ReadAll(fr)
	if err != nil {
		return nil, fmt.Errorf("%w: deflate: %v", ErrMalformedDocument, err)
	}
	return out, nil
}

// inflateChunked splits the payload into chunkCount equal-size chunks, each
// an independent zlib stream, and concatenates the inflated results.
func inflateChunked(raw []byte, chunkCount int) ([]byte, error) {
	if chunkCount <= 0 {
		chunkCount = 1
	}
	if len(raw)%chunkCount != 0 {
		return nil, fmt.Errorf("%w: payload length %d not divisible into %d chunks", ErrMalformedDocument, len(raw), chunkCount)
	}
	size := len(raw) / chunkCount
	var out []byte
	for i := 0; i < chunkCount; i++ {
		part, err := inflate(raw[i*size : (i+1)*size])
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		out = append(out, part...)
	}
	return out, nil
}
