package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"primeexplorer/internal/model"
)

/*
Every sequence is written as one self-checking frame:

| PayloadLength | CRC32C | Kind   | Count   | Values          |
|---------------|--------|--------|---------|-----------------|
| 4 bytes       | 4 bytes| 1 byte | 4 bytes | Count x 4 bytes |

PayloadLength and CRC32C cover everything from Kind to the last value.
All integers are big endian.
*/
const (
	payloadLenBytes = 4
	checksumBytes   = 4
	kindBytes       = 1
	countBytes      = 4
	valueBytes      = 4
	headerBytes     = payloadLenBytes + checksumBytes

	// MaxPayloadBytes bounds a single frame so a corrupt length field
	// cannot trigger an arbitrarily large allocation.
	MaxPayloadBytes = kindBytes + countBytes + valueBytes*(1<<28)
)

var (
	ErrChecksum   = errors.New("frame checksum mismatch")
	ErrTruncated  = errors.New("frame truncated")
	ErrMalformed  = errors.New("frame malformed")
	ErrValueRange = errors.New("value does not fit in a frame")
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// AppendFrame encodes seq and appends the frame to dst.
func AppendFrame(dst []byte, seq model.Sequence) ([]byte, error) {
	if !seq.Kind.Valid() {
		return dst, fmt.Errorf("kind %d: %w", seq.Kind, ErrMalformed)
	}
	payloadLen := kindBytes + countBytes + valueBytes*len(seq.Values)
	if payloadLen > MaxPayloadBytes {
		return dst, fmt.Errorf("%d values: %w", len(seq.Values), ErrValueRange)
	}

	start := len(dst)
	dst = append(dst, make([]byte, headerBytes)...)
	dst = append(dst, byte(seq.Kind))
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(seq.Values)))
	for i, v := range seq.Values {
		if v < 0 || uint64(v) > math.MaxUint32 {
			return dst[:start], fmt.Errorf("value %d at index %d: %w", v, i, ErrValueRange)
		}
		dst = binary.BigEndian.AppendUint32(dst, uint32(v))
	}

	payload := dst[start+headerBytes:]
	binary.BigEndian.PutUint32(dst[start:], uint32(len(payload)))
	binary.BigEndian.PutUint32(dst[start+payloadLenBytes:], crc32.Checksum(payload, castagnoli))
	return dst, nil
}

// WriteFrame encodes seq and writes it to w in a single buffered write.
func WriteFrame(w io.Writer, seq model.Sequence) error {
	record, err := AppendFrame(nil, seq)
	if err != nil {
		return err
	}
	return WriteFrames(w, record)
}

// ReadFrame decodes the next frame from r. It returns io.EOF only when r is
// exhausted exactly at a frame boundary.
func ReadFrame(r io.Reader) (model.Sequence, error) {
	var header [headerBytes]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return model.Sequence{}, io.EOF
		}
		return model.Sequence{}, fmt.Errorf("header: %w", truncated(err))
	}
	payloadLen := binary.BigEndian.Uint32(header[:payloadLenBytes])
	expected := binary.BigEndian.Uint32(header[payloadLenBytes:])

	if payloadLen < kindBytes+countBytes || payloadLen > MaxPayloadBytes {
		return model.Sequence{}, fmt.Errorf("payload length %d: %w", payloadLen, ErrMalformed)
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return model.Sequence{}, fmt.Errorf("payload: %w", truncated(err))
	}
	if actual := crc32.Checksum(payload, castagnoli); actual != expected {
		return model.Sequence{}, fmt.Errorf("expected %x, got %x: %w", expected, actual, ErrChecksum)
	}
	return decodePayload(payload)
}

func decodePayload(payload []byte) (model.Sequence, error) {
	kind := model.SequenceKind(payload[0])
	if !kind.Valid() {
		return model.Sequence{}, fmt.Errorf("kind %d: %w", kind, ErrMalformed)
	}
	pos := kindBytes
	count := binary.BigEndian.Uint32(payload[pos : pos+countBytes])
	pos += countBytes

	if uint64(len(payload)-pos) != uint64(count)*valueBytes {
		return model.Sequence{}, fmt.Errorf("count %d does not match %d value bytes: %w", count, len(payload)-pos, ErrMalformed)
	}

	values := make([]int, count)
	for i := range values {
		values[i] = int(binary.BigEndian.Uint32(payload[pos : pos+valueBytes]))
		pos += valueBytes
	}
	return model.Sequence{Kind: kind, Values: values}, nil
}

func truncated(err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return ErrTruncated
	}
	return err
}
