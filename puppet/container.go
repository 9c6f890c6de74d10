package puppet

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/ftrvxmtrx/tga"
	"github.com/hajimehoshi/ebiten/v2"
)

// Container envelope:
//
//	offset 0:     8 bytes  magic "TRNSRTS\0"
//	offset 8:     4 bytes  big-endian length L of the JSON block
//	offset 12:    L bytes  UTF-8 JSON document (meta + node tree)
//	offset 12+L:  8 bytes  magic "TEX_SECT"
//	              4 bytes  big-endian texture blob count N
//	then N x:     4 bytes  big-endian blob length B
//	              1 byte   encoding tag
//	              B bytes  encoded image data
var (
	magicPuppet   = []byte("TRNSRTS\x00")
	magicTextures = []byte("TEX_SECT")
)

// ErrMalformedContainer is returned when either magic signature mismatches or
// the envelope is truncated.
var ErrMalformedContainer = errors.New("puppet: malformed container")

// ErrTextureDecode is returned when an embedded texture blob cannot be
// decoded by the image codec.
var ErrTextureDecode = errors.New("puppet: texture decode failed")

// TextureEncoding is the 1-byte format tag stored ahead of each texture blob.
type TextureEncoding uint8

const (
	EncodingPNG TextureEncoding = 0
	EncodingTGA TextureEncoding = 1
)

// Texture is one decoded entry of the puppet's texture array. Parts reference
// textures by slot index.
type Texture struct {
	// Encoding is the tag the blob carried in the container.
	Encoding TextureEncoding

	// Image holds the decoded pixels as raw RGBA.
	Image *image.RGBA

	gpu *ebiten.Image
}

// GPU returns the texture uploaded as an ebiten image, creating it on first
// use.
func (t *Texture) GPU() *ebiten.Image {
	if t.gpu == nil {
		t.gpu = ebiten.NewImageFromImage(t.Image)
	}
	return t.gpu
}

// readContainer splits a container buffer into its JSON document and decoded
// textures. It touches nothing outside its return values, so a failed load
// leaves no partial state behind.
func readContainer(data []byte) (doc []byte, textures []*Texture, err error) {
	r := &byteReader{data: data}

	if !r.expect(magicPuppet) {
		return nil, nil, fmt.Errorf("%w: bad header magic", ErrMalformedContainer)
	}
	doc = r.bytes(int(r.u32()))
	if !r.expect(magicTextures) {
		return nil, nil, fmt.Errorf("%w: bad texture section magic", ErrMalformedContainer)
	}

	count := int(r.u32())
	for i := 0; i < count; i++ {
		blobLen := int(r.u32())
		tag := TextureEncoding(r.byte())
		blob := r.bytes(blobLen)
		if r.failed {
			return nil, nil, fmt.Errorf("%w: truncated texture blob %d", ErrMalformedContainer, i)
		}
		img, err := decodeTexture(blob, tag)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: blob %d: %v", ErrTextureDecode, i, err)
		}
		textures = append(textures, &Texture{Encoding: tag, Image: img})
	}
	if r.failed {
		return nil, nil, fmt.Errorf("%w: truncated", ErrMalformedContainer)
	}
	return doc, textures, nil
}

// writeContainer is the exact inverse of readContainer. Textures are
// re-encoded from their decoded pixels; the PNG codec is used for every blob
// and the tag is written accordingly.
func writeContainer(doc []byte, textures []*Texture) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(magicPuppet)
	writeU32(&buf, uint32(len(doc)))
	buf.Write(doc)
	buf.Write(magicTextures)
	writeU32(&buf, uint32(len(textures)))

	for i, tex := range textures {
		var blob bytes.Buffer
		if err := png.Encode(&blob, tex.Image); err != nil {
			return nil, fmt.Errorf("puppet: encode texture %d: %w", i, err)
		}
		writeU32(&buf, uint32(blob.Len()))
		buf.WriteByte(byte(EncodingPNG))
		buf.Write(blob.Bytes())
	}
	return buf.Bytes(), nil
}

// decodeTexture decodes a blob per its tag and converts to raw RGBA.
func decodeTexture(blob []byte, tag TextureEncoding) (*image.RGBA, error) {
	var (
		img image.Image
		err error
	)
	switch tag {
	case EncodingTGA:
		img, err = tga.Decode(bytes.NewReader(blob))
	default:
		// Tag 0 is PNG; unknown tags fall through to format sniffing.
		img, _, err = image.Decode(bytes.NewReader(blob))
	}
	if err != nil {
		return nil, err
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

// byteReader is a sequential reader over a byte slice. Out-of-bounds reads
// set failed and return zero values instead of panicking, so callers can
// check once at section boundaries.
type byteReader struct {
	data   []byte
	off    int
	failed bool
}

func (r *byteReader) expect(magic []byte) bool {
	b := r.bytes(len(magic))
	return !r.failed && bytes.Equal(b, magic)
}

func (r *byteReader) bytes(n int) []byte {
	if n < 0 || r.off+n > len(r.data) {
		r.failed = true
		r.off = len(r.data)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *byteReader) u32() uint32 {
	b := r.bytes(4)
	if r.failed {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (r *byteReader) byte() byte {
	b := r.bytes(1)
	if r.failed {
		return 0
	}
	return b[0]
}
