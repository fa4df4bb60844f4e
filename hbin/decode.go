package hbin

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
)

// Decode parses container bytes back into a node tree.
func Decode(data []byte) (Node, error) {
	if len(data) < 6 || !bytes.Equal(data[:4], magic[:]) {
		return nil, fmt.Errorf("hbin: not a scribe binary container")
	}
	if data[4] != version {
		return nil, fmt.Errorf("hbin: unsupported container version %d", data[4])
	}
	flags := data[5]
	body := data[6:]
	if flags&flagZstd != 0 {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxStreamSize))
		if err != nil {
			return nil, fmt.Errorf("hbin: init zstd: %w", err)
		}
		defer dec.Close()
		body, err = dec.DecodeAll(body, nil)
		if err != nil {
			return nil, fmt.Errorf("hbin: decompressing body: %w", err)
		}
	}

	r := &reader{buf: body}
	node, err := r.node()
	if err != nil {
		return nil, err
	}
	if len(r.buf) != r.pos {
		return nil, fmt.Errorf("hbin: %d trailing bytes after tree", len(r.buf)-r.pos)
	}
	return node, nil
}

type reader struct {
	buf []byte
	pos int
}

func (r *reader) byte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, fmt.Errorf("hbin: truncated container")
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, fmt.Errorf("hbin: truncated container")
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("hbin: malformed varint")
	}
	r.pos += n
	return v, nil
}

func (r *reader) node() (Node, error) {
	tag, err := r.byte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagGroup:
		count, err := r.uvarint()
		if err != nil {
			return nil, err
		}
		g := NewGroup()
		for i := uint64(0); i < count; i++ {
			keyLen, err := r.uvarint()
			if err != nil {
				return nil, err
			}
			key, err := r.take(int(keyLen))
			if err != nil {
				return nil, err
			}
			child, err := r.node()
			if err != nil {
				return nil, err
			}
			g.Put(string(key), child)
		}
		return g, nil
	case tagDataset:
		return r.dataset()
	}
	return nil, fmt.Errorf("hbin: unknown node tag 0x%02x", tag)
}

func (r *reader) dataset() (*Dataset, error) {
	dt, err := r.byte()
	if err != nil {
		return nil, err
	}
	if DType(dt) >= dtypeCount {
		return nil, fmt.Errorf("hbin: unknown dtype 0x%02x", dt)
	}
	rank, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	var shape []int
	if rank > 0 {
		shape = make([]int, rank)
		for i := range shape {
			dim, err := r.uvarint()
			if err != nil {
				return nil, err
			}
			shape[i] = int(dim)
		}
	}
	d := &Dataset{DType: DType(dt), Shape: shape}
	if err := r.payload(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *reader) payload(d *Dataset) error {
	count := d.Count()
	switch d.DType {
	case Int8:
		raw, err := r.take(count)
		if err != nil {
			return err
		}
		buf := make([]int8, count)
		for i, b := range raw {
			buf[i] = int8(b)
		}
		d.Data = buf
	case Uint8:
		raw, err := r.take(count)
		if err != nil {
			return err
		}
		d.Data = append([]uint8(nil), raw...)
	case Int16:
		raw, err := r.take(count * 2)
		if err != nil {
			return err
		}
		buf := make([]int16, count)
		for i := range buf {
			buf[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
		}
		d.Data = buf
	case Uint16:
		raw, err := r.take(count * 2)
		if err != nil {
			return err
		}
		buf := make([]uint16, count)
		for i := range buf {
			buf[i] = binary.LittleEndian.Uint16(raw[i*2:])
		}
		d.Data = buf
	case Int32:
		raw, err := r.take(count * 4)
		if err != nil {
			return err
		}
		buf := make([]int32, count)
		for i := range buf {
			buf[i] = int32(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		d.Data = buf
	case Uint32:
		raw, err := r.take(count * 4)
		if err != nil {
			return err
		}
		buf := make([]uint32, count)
		for i := range buf {
			buf[i] = binary.LittleEndian.Uint32(raw[i*4:])
		}
		d.Data = buf
	case Int64:
		raw, err := r.take(count * 8)
		if err != nil {
			return err
		}
		buf := make([]int64, count)
		for i := range buf {
			buf[i] = int64(binary.LittleEndian.Uint64(raw[i*8:]))
		}
		d.Data = buf
	case Uint64:
		raw, err := r.take(count * 8)
		if err != nil {
			return err
		}
		buf := make([]uint64, count)
		for i := range buf {
			buf[i] = binary.LittleEndian.Uint64(raw[i*8:])
		}
		d.Data = buf
	case Float32:
		raw, err := r.take(count * 4)
		if err != nil {
			return err
		}
		buf := make([]float32, count)
		for i := range buf {
			buf[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		d.Data = buf
	case Float64:
		raw, err := r.take(count * 8)
		if err != nil {
			return err
		}
		buf := make([]float64, count)
		for i := range buf {
			buf[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
		}
		d.Data = buf
	case Complex64:
		raw, err := r.take(count * 8)
		if err != nil {
			return err
		}
		buf := make([]complex64, count)
		for i := range buf {
			re := math.Float32frombits(binary.LittleEndian.Uint32(raw[i*8:]))
			im := math.Float32frombits(binary.LittleEndian.Uint32(raw[i*8+4:]))
			buf[i] = complex(re, im)
		}
		d.Data = buf
	case Complex128:
		raw, err := r.take(count * 16)
		if err != nil {
			return err
		}
		buf := make([]complex128, count)
		for i := range buf {
			re := math.Float64frombits(binary.LittleEndian.Uint64(raw[i*16:]))
			im := math.Float64frombits(binary.LittleEndian.Uint64(raw[i*16+8:]))
			buf[i] = complex(re, im)
		}
		d.Data = buf
	case Bool:
		raw, err := r.take(count)
		if err != nil {
			return err
		}
		buf := make([]bool, count)
		for i, b := range raw {
			buf[i] = b != 0
		}
		d.Data = buf
	case String:
		buf := make([]string, count)
		for i := range buf {
			strLen, err := r.uvarint()
			if err != nil {
				return err
			}
			raw, err := r.take(int(strLen))
			if err != nil {
				return err
			}
			buf[i] = string(raw)
		}
		d.Data = buf
	}
	return nil
}
