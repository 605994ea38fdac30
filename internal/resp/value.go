// Package resp implements the subset of the RESP wire protocol spoken by respkv:
// simple strings, bulk strings, null bulk strings and arrays.
package resp

// Type markers
const (
	MarkerSimpleString = '+'
	MarkerBulkString   = '$'
	MarkerArray        = '*'
)

// Value is a decoded protocol value. It is one of SimpleString, BulkString,
// Array or NullBulkString.
type Value interface {
	isValue()
}

// SimpleString is a single line of text with no length prefix
type SimpleString string

// BulkString is a length-prefixed string
type BulkString string

// Array is an ordered sequence of values
type Array []Value

// NullBulkString is the `$-1` marker
type NullBulkString struct{}

func (SimpleString) isValue()   {}
func (BulkString) isValue()     {}
func (Array) isValue()          {}
func (NullBulkString) isValue() {}

// Text returns the text carried by a simple or bulk string.
func Text(v Value) (string, bool) {
	switch t := v.(type) {
	case SimpleString:
		return string(t), true
	case BulkString:
		return string(t), true
	}

	return "", false
}

// BulkArray builds an array of bulk strings, the shape of every client request.
func BulkArray(args ...string) Array {
	arr := make(Array, 0, len(args))
	for _, a := range args {
		arr = append(arr, BulkString(a))
	}

	return arr
}
