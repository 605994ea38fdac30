package resp

import (
	"io"
	"strconv"
)

var crlf = []byte("\r\n")

// Encode returns the wire representation of v.
func Encode(v Value) []byte {
	return AppendValue(nil, v)
}

// AppendValue appends the wire representation of v to dst. A nil value is
// encoded as a null bulk string.
func AppendValue(dst []byte, v Value) []byte {
	switch t := v.(type) {
	case SimpleString:
		dst = append(dst, MarkerSimpleString)
		dst = append(dst, t...)
		dst = append(dst, crlf...)
	case BulkString:
		dst = append(dst, MarkerBulkString)
		dst = strconv.AppendInt(dst, int64(len(t)), 10)
		dst = append(dst, crlf...)
		dst = append(dst, t...)
		dst = append(dst, crlf...)
	case Array:
		dst = append(dst, MarkerArray)
		dst = strconv.AppendInt(dst, int64(len(t)), 10)
		dst = append(dst, crlf...)
		for _, item := range t {
			dst = AppendValue(dst, item)
		}
	default:
		dst = append(dst, "$-1\r\n"...)
	}

	return dst
}

// WriteValue encodes v to w.
func WriteValue(w io.Writer, v Value) error {
	_, err := w.Write(Encode(v))
	return err
}
