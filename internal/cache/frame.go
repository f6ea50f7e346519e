package cache

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const frameVersion byte = 1

var frameMagic = [...]byte{'B', 'Z', 'R', 'C'}

// encodeFrame: magic(4) | ver(1) | schema(u16 be) | clen(u8) | codec(clen) | plen(u32 be) | payload(plen)
func encodeFrame(schema uint16, codecName string, payload []byte) ([]byte, error) {
	if len(codecName) == 0 || len(codecName) > 0xFF {
		return nil, fmt.Errorf("invalid codec name %q", codecName)
	}

	var buf bytes.Buffer
	buf.Grow(4 + 1 + 2 + 1 + len(codecName) + 4 + len(payload))

	buf.Write(frameMagic[:])
	buf.WriteByte(frameVersion)

	var u2 [2]byte
	binary.BigEndian.PutUint16(u2[:], schema)
	buf.Write(u2[:])

	buf.WriteByte(byte(len(codecName)))
	buf.WriteString(codecName)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes(), nil
}

func decodeFrame(b []byte) (schema uint16, codecName string, payload []byte, err error) {
	const fixed = 4 + 1 + 2 + 1
	if len(b) < fixed || !bytes.Equal(b[:4], frameMagic[:]) || b[4] != frameVersion {
		return 0, "", nil, ErrCorrupt
	}
	off := 5

	schema = binary.BigEndian.Uint16(b[off : off+2])
	off += 2

	clen := int(b[off])
	off++
	if clen == 0 || clen > len(b)-off {
		return 0, "", nil, ErrCorrupt
	}
	codecName = string(b[off : off+clen])
	off += clen

	if off+4 > len(b) {
		return 0, "", nil, ErrCorrupt
	}
	plen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if plen < 0 || plen != len(b)-off {
		return 0, "", nil, ErrCorrupt
	}
	return schema, codecName, b[off:], nil
}
