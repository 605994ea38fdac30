// Package sl holds shared slog attributes
package sl

import (
	"log/slog"
	"net"
)

// Err returns a slog.Attr with the error message
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}

	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Conn returns a slog.Attr with the remote address of a connection
func Conn(conn net.Conn) slog.Attr {
	return slog.String("remote_addr", conn.RemoteAddr().String())
}
