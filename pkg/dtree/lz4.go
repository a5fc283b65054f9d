package dtree

import (
	"bytes"
	"encoding/binary"

	"github.com/pierrec/lz4/v4"
)

// uint32ByteSize is the number of bytes in a uint32.
const uint32ByteSize = 4

// Block tags. LZ4 block compression yields nothing for incompressible
// input, so such buffers are kept raw and tagged accordingly.
const (
	tagCompressed = 0x01
	tagRaw        = 0x00
)

// compressUint32Slice compresses a slice of uint32-s with LZ4. The first
// byte of the result tags the block as compressed or raw.
func compressUint32Slice(data []uint32) []byte {
	buf := new(bytes.Buffer)

	writeErr := binary.Write(buf, binary.LittleEndian, data)
	if writeErr != nil {
		return nil
	}

	compressed := make([]byte, lz4.CompressBlockBound(buf.Len())+1)

	written, err := lz4.CompressBlock(buf.Bytes(), compressed[1:], nil)
	if err != nil || written == 0 {
		raw := append([]byte{tagRaw}, buf.Bytes()...)

		return raw
	}

	compressed[0] = tagCompressed

	return compressed[:written+1]
}

// decompressUint32Slice decompresses a slice of uint32-s previously produced
// by compressUint32Slice. result must be preallocated to the original
// length; it is left zeroed when data is empty or corrupt.
func decompressUint32Slice(data []byte, result []uint32) {
	if len(data) == 0 {
		return
	}

	decompressed := make([]byte, len(result)*uint32ByteSize)

	if data[0] == tagCompressed {
		_, err := lz4.UncompressBlock(data[1:], decompressed)
		if err != nil {
			return
		}
	} else {
		copy(decompressed, data[1:])
	}

	readErr := binary.Read(bytes.NewReader(decompressed), binary.LittleEndian, result)
	if readErr != nil {
		return
	}
}
