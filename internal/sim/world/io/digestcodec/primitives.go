package digestcodec

import "encoding/binary"

type Writer interface {
	Write(p []byte) (n int, err error)
}

func BoolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

func WriteU64(w Writer, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.Write(tmp[:])
}

func WriteI64(w Writer, tmp *[8]byte, v int64) { WriteU64(w, tmp, uint64(v)) }

// WriteBools packs flags one byte each, preceded by their count so that
// adjacent sequences cannot run into each other.
func WriteBools(w Writer, tmp *[8]byte, v []bool) {
	WriteU64(w, tmp, uint64(len(v)))
	buf := make([]byte, len(v))
	for i, b := range v {
		buf[i] = BoolByte(b)
	}
	w.Write(buf)
}
