package resp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Limits bounds what a Reader accepts from a peer. A zero field means unbounded.
type Limits struct {
	// MaxLineSize limits a single line, terminator included, in bytes
	MaxLineSize int
	// MaxArrayLen limits the declared element count of an array
	MaxArrayLen int
	// MaxDepth limits array nesting; a flat request has depth 1
	MaxDepth int
}

// preallocCap caps the capacity reserved up front for a declared array size.
const preallocCap = 64

// Reader decodes values from a byte stream.
type Reader struct {
	br     *bufio.Reader
	limits Limits
}

// NewReader creates a Reader over r. If r is already a *bufio.Reader it is used as is.
func NewReader(r io.Reader, limits Limits) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	return &Reader{br: br, limits: limits}
}

// Decode reads exactly one value. It returns io.EOF if the stream ends cleanly
// before the value starts, io.ErrUnexpectedEOF if it ends in the middle of a line,
// and a *DecodeError for malformed input.
func (r *Reader) Decode() (Value, error) {
	return r.decode(0)
}

func (r *Reader) decode(depth int) (Value, error) {
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}

	if len(line) == 0 {
		return nil, decodeErrorf("empty line")
	}

	switch line[0] {
	case MarkerSimpleString:
		return SimpleString(line[1:]), nil
	case MarkerBulkString:
		return r.readBulk(line[1:])
	case MarkerArray:
		return r.readArray(line[1:], depth+1)
	}

	return nil, decodeErrorf("unknown type marker %q", line[0])
}

// readBulk treats the line after the header as the bulk content, so bulk data
// cannot carry CR or LF. The declared length is validated but not enforced.
func (r *Reader) readBulk(header string) (Value, error) {
	if header == "-1" {
		return NullBulkString{}, nil
	}

	if _, ok := parseLength(header); !ok {
		return nil, decodeErrorf("invalid bulk length %q", header)
	}

	data, err := r.readLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	return BulkString(data), nil
}

func (r *Reader) readArray(header string, depth int) (Value, error) {
	n, ok := parseLength(header)
	if !ok {
		return nil, decodeErrorf("invalid array length %q", header)
	}

	if r.limits.MaxArrayLen > 0 && n > r.limits.MaxArrayLen {
		return nil, &DecodeError{
			Msg: fmt.Sprintf("array length %d exceeds limit %d", n, r.limits.MaxArrayLen),
			Err: ErrLimitExceeded,
		}
	}
	if r.limits.MaxDepth > 0 && depth > r.limits.MaxDepth {
		return nil, &DecodeError{
			Msg: fmt.Sprintf("nesting depth exceeds limit %d", r.limits.MaxDepth),
			Err: ErrLimitExceeded,
		}
	}

	arr := make(Array, 0, min(n, preallocCap))
	for i := 0; i < n; i++ {
		v, err := r.decode(depth)
		if err != nil {
			// a nested array already reports its own count
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) && (errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)) {
				return nil, &DecodeError{
					Msg: fmt.Sprintf("expected %d elements but got %d", n, i),
					Err: io.ErrUnexpectedEOF,
				}
			}
			return nil, err
		}
		arr = append(arr, v)
	}

	return arr, nil
}

// parseLength accepts only plain decimal digits without leading zeros, so
// every accepted header re-encodes to the same bytes.
func parseLength(s string) (int, bool) {
	if s == "" || s[0] < '0' || s[0] > '9' || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}

	return n, true
}

// readLine returns the next line without its LF or CRLF terminator.
func (r *Reader) readLine() (string, error) {
	var buf []byte
	for {
		frag, err := r.br.ReadSlice('\n')
		buf = append(buf, frag...)

		if r.limits.MaxLineSize > 0 && len(buf) > r.limits.MaxLineSize {
			return "", &DecodeError{
				Msg: fmt.Sprintf("line length exceeds limit %d", r.limits.MaxLineSize),
				Err: ErrLimitExceeded,
			}
		}

		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) && len(buf) > 0 {
			return "", io.ErrUnexpectedEOF
		}

		return "", err
	}

	buf = bytes.TrimSuffix(buf[:len(buf)-1], []byte{'\r'})

	return string(buf), nil
}
