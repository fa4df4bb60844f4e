package hbin

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
)

// container layout:
//
//	magic "SCRB" | version 0x01 | flags | body
//
// flags bit 0 marks a zstd-compressed body. The body is one node:
//
//	node    := 0x00 group | 0x01 dataset
//	group   := uvarint count, count * (uvarint keylen, key, node)
//	dataset := dtype, uvarint rank, rank * uvarint dim, payload
//
// Numeric payloads are little-endian; complex values are the real part
// followed by the imaginary part. Bools are single bytes, strings are
// uvarint-length-prefixed UTF-8.

var magic = [4]byte{'S', 'C', 'R', 'B'}

const (
	version       = 1
	flagZstd      = 1 << 0
	tagGroup      = 0x00
	tagDataset    = 0x01
	maxStreamSize = 1 << 36 // decompression guard
)

// Options configures encoding.
type Options struct {
	// Compress wraps the body in zstd. On by default via DefaultOptions.
	Compress bool
}

// DefaultOptions returns the standard encoding options.
func DefaultOptions() Options { return Options{Compress: true} }

// Encode serializes a node tree into container bytes.
func Encode(root Node, opts Options) ([]byte, error) {
	var body bytes.Buffer
	if err := encodeNode(&body, root); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Write(magic[:])
	out.WriteByte(version)
	if opts.Compress {
		out.WriteByte(flagZstd)
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("hbin: init zstd: %w", err)
		}
		defer enc.Close()
		out.Write(enc.EncodeAll(body.Bytes(), nil))
	} else {
		out.WriteByte(0)
		out.Write(body.Bytes())
	}
	return out.Bytes(), nil
}

func encodeNode(buf *bytes.Buffer, n Node) error {
	switch node := n.(type) {
	case *Group:
		buf.WriteByte(tagGroup)
		putUvarint(buf, uint64(node.Len()))
		for _, key := range node.Keys() {
			putUvarint(buf, uint64(len(key)))
			buf.WriteString(key)
			child, _ := node.Get(key)
			if err := encodeNode(buf, child); err != nil {
				return err
			}
		}
		return nil
	case *Dataset:
		buf.WriteByte(tagDataset)
		buf.WriteByte(byte(node.DType))
		putUvarint(buf, uint64(len(node.Shape)))
		for _, dim := range node.Shape {
			if dim < 0 {
				return fmt.Errorf("hbin: negative dimension %d", dim)
			}
			putUvarint(buf, uint64(dim))
		}
		return encodePayload(buf, node)
	}
	return fmt.Errorf("hbin: unsupported node %T", n)
}

func encodePayload(buf *bytes.Buffer, d *Dataset) error {
	switch b := d.Data.(type) {
	case []int8:
		for _, v := range b {
			buf.WriteByte(byte(v))
		}
	case []int16:
		for _, v := range b {
			putU16(buf, uint16(v))
		}
	case []int32:
		for _, v := range b {
			putU32(buf, uint32(v))
		}
	case []int64:
		for _, v := range b {
			putU64(buf, uint64(v))
		}
	case []uint8:
		buf.Write(b)
	case []uint16:
		for _, v := range b {
			putU16(buf, v)
		}
	case []uint32:
		for _, v := range b {
			putU32(buf, v)
		}
	case []uint64:
		for _, v := range b {
			putU64(buf, v)
		}
	case []float32:
		for _, v := range b {
			putU32(buf, math.Float32bits(v))
		}
	case []float64:
		for _, v := range b {
			putU64(buf, math.Float64bits(v))
		}
	case []complex64:
		for _, v := range b {
			putU32(buf, math.Float32bits(real(v)))
			putU32(buf, math.Float32bits(imag(v)))
		}
	case []complex128:
		for _, v := range b {
			putU64(buf, math.Float64bits(real(v)))
			putU64(buf, math.Float64bits(imag(v)))
		}
	case []bool:
		for _, v := range b {
			if v {
				buf.WriteByte(1)
			} else {
				buf.WriteByte(0)
			}
		}
	case []string:
		for _, v := range b {
			putUvarint(buf, uint64(len(v)))
			buf.WriteString(v)
		}
	default:
		return fmt.Errorf("hbin: unsupported dataset buffer %T", d.Data)
	}
	return nil
}

func putUvarint(buf *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	buf.Write(tmp[:n])
}

func putU16(buf *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	buf.Write(tmp[:])
}

func putU32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func putU64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}
