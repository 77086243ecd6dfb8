package packet

import (
	"encoding/binary"
)

// ReadLPBytes read length prefixed bytes
func ReadLPBytes(buf []byte) ([]byte, int, error) {
	// callers hand in a slice bounded by the remaining length, so a short
	// prefix here means the packet is broken, not still in flight
	if len(buf) < 2 {
		return nil, 0, ErrMalformedStream
	}

	var n int
	total := 0

	n = int(binary.BigEndian.Uint16(buf))
	total += 2

	// if remaining space is less than the length prefix the packet is broken
	if len(buf[total:]) < n {
		return nil, total, ErrMalformedStream
	}

	total += n

	return buf[2:total], total, nil
}

// WriteLPBytes write length prefixed bytes
func WriteLPBytes(buf []byte, b []byte) (int, error) {
	total, n := 0, len(b)

	if n > MaxLPString {
		return 0, ErrInvalidLPStringSize
	}

	if len(buf) < 2+n {
		return 2 + n, ErrInsufficientBufferSize
	}

	binary.BigEndian.PutUint16(buf, uint16(n))
	total += 2

	copy(buf[total:], b)
	total += n

	return total, nil
}
