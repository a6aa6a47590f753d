// SPDX-License-Identifier: MIT

package wsnet

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/golang/snappy"
	"github.com/katalvlaran/distmm/collective"
)

// Kind identifies the purpose of a frame.
type Kind uint8

const (
	KindHello Kind = iota + 1
	KindScatter
	KindBroadcast
	KindGather
	KindGatherAck
	KindBarrier
	KindRelease
)

const (
	frameMagic  uint16 = 0x4d4d // "MM"
	headerSize         = 2 + 1 + 1 + 4*5
	flagSnappy  uint8  = 1 << 0
	maxFrameDim        = 1 << 24
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindHello:
		return "hello"
	case KindScatter:
		return "scatter"
	case KindBroadcast:
		return "broadcast"
	case KindGather:
		return "gather"
	case KindGatherAck:
		return "gather-ack"
	case KindBarrier:
		return "barrier"
	case KindRelease:
		return "release"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Frame is one protocol message.
//   - Rank is the sender for worker frames and the addressee for root frames.
//   - Size is the group size (hello only; zero otherwise).
//   - Offset/Rows/Cols/Data describe a row block or a whole matrix
//     (Offset 0) for broadcast.
type Frame struct {
	Kind   Kind
	Rank   int
	Size   int
	Offset int
	Rows   int
	Cols   int
	Data   []float64
}

// Encode serializes f. Layout (little-endian):
//
//	magic u16 | kind u8 | flags u8 | rank u32 | size u32 | offset u32 | rows u32 | cols u32 | payload
//
// The payload is rows*cols float64 values, snappy-compressed when compress is set.
func Encode(f Frame, compress bool) ([]byte, error) {
	if f.Rank < 0 || f.Size < 0 || f.Offset < 0 || f.Rows < 0 || f.Cols < 0 ||
		f.Rows > maxFrameDim || f.Cols > maxFrameDim {
		return nil, fmt.Errorf("wsnet: Encode %s: negative or oversized geometry: %w", f.Kind, collective.ErrProtocol)
	}
	if len(f.Data) != f.Rows*f.Cols {
		return nil, fmt.Errorf("wsnet: Encode %s: %d values for %dx%d: %w",
			f.Kind, len(f.Data), f.Rows, f.Cols, collective.ErrProtocol)
	}

	raw := make([]byte, 8*len(f.Data))
	for i, v := range f.Data {
		binary.LittleEndian.PutUint64(raw[8*i:], math.Float64bits(v))
	}
	var flags uint8
	if compress && len(raw) > 0 {
		raw = snappy.Encode(nil, raw)
		flags |= flagSnappy
	}

	buf := make([]byte, headerSize, headerSize+len(raw))
	binary.LittleEndian.PutUint16(buf[0:], frameMagic)
	buf[2] = uint8(f.Kind)
	buf[3] = flags
	binary.LittleEndian.PutUint32(buf[4:], uint32(f.Rank))
	binary.LittleEndian.PutUint32(buf[8:], uint32(f.Size))
	binary.LittleEndian.PutUint32(buf[12:], uint32(f.Offset))
	binary.LittleEndian.PutUint32(buf[16:], uint32(f.Rows))
	binary.LittleEndian.PutUint32(buf[20:], uint32(f.Cols))

	return append(buf, raw...), nil
}

// Decode parses a frame produced by Encode. Data is always non-nil.
func Decode(b []byte) (Frame, error) {
	if len(b) < headerSize {
		return Frame{}, fmt.Errorf("wsnet: Decode: short frame (%d bytes): %w", len(b), collective.ErrProtocol)
	}
	if binary.LittleEndian.Uint16(b[0:]) != frameMagic {
		return Frame{}, fmt.Errorf("wsnet: Decode: bad magic: %w", collective.ErrProtocol)
	}
	f := Frame{
		Kind:   Kind(b[2]),
		Rank:   int(binary.LittleEndian.Uint32(b[4:])),
		Size:   int(binary.LittleEndian.Uint32(b[8:])),
		Offset: int(binary.LittleEndian.Uint32(b[12:])),
		Rows:   int(binary.LittleEndian.Uint32(b[16:])),
		Cols:   int(binary.LittleEndian.Uint32(b[20:])),
	}
	if f.Kind < KindHello || f.Kind > KindRelease {
		return Frame{}, fmt.Errorf("wsnet: Decode: unknown kind %d: %w", b[2], collective.ErrProtocol)
	}
	if f.Rows > maxFrameDim || f.Cols > maxFrameDim {
		return Frame{}, fmt.Errorf("wsnet: Decode %s: oversized geometry: %w", f.Kind, collective.ErrProtocol)
	}

	raw := b[headerSize:]
	if b[3]&flagSnappy != 0 {
		var err error
		if raw, err = snappy.Decode(nil, raw); err != nil {
			return Frame{}, fmt.Errorf("wsnet: Decode %s: %w: %w", f.Kind, collective.ErrProtocol, err)
		}
	}
	n := f.Rows * f.Cols
	if len(raw) != 8*n {
		return Frame{}, fmt.Errorf("wsnet: Decode %s: payload %d bytes for %dx%d: %w",
			f.Kind, len(raw), f.Rows, f.Cols, collective.ErrProtocol)
	}
	f.Data = make([]float64, n)
	for i := range f.Data {
		f.Data[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
	}

	return f, nil
}
