package compute

import (
	"log/slog"
	"math"
	"time"

	"github.com/8thgencore/respkv/internal/resp"
	"github.com/8thgencore/respkv/internal/storage"
)

// Handler is a struct that handles commands
type Handler struct {
	log     *slog.Logger
	storage storage.Storage
}

// NewHandler creates a new Handler
func NewHandler(log *slog.Logger, s storage.Storage) *Handler {
	return &Handler{log: log, storage: s}
}

// Handle parses a decoded request and executes it
func (h *Handler) Handle(req resp.Value) []byte {
	return h.Execute(ParseCommand(req))
}

// Execute runs a command and returns the encoded reply. It returns nil when
// the command gets no reply at all, which is the case for Unknown.
func (h *Handler) Execute(cmd Command) []byte {
	h.log.Debug("Handling command", "command", cmd.Name())

	switch c := cmd.(type) {
	case Ping:
		return resp.Encode(resp.SimpleString(ResponsePong))

	case Echo:
		return resp.Encode(resp.BulkString(c.Message))

	case Get:
		value, ok := h.storage.Get(c.Key)
		if !ok {
			return resp.Encode(resp.NullBulkString{})
		}
		return resp.Encode(resp.BulkString(value))

	case Set:
		if c.ExpiryMillis != nil {
			h.storage.SetWithTTL(c.Key, c.Value, millisToDuration(*c.ExpiryMillis))
		} else {
			h.storage.Set(c.Key, c.Value)
		}
		return []byte(replyOK)

	case Info:
		return resp.Encode(resp.BulkString(ResponseInfo))

	case Unknown:
		h.log.Debug("Ignoring unknown command")
	}

	return nil
}

// millisToDuration saturates at the largest Duration instead of overflowing
func millisToDuration(ms uint64) time.Duration {
	if ms > uint64(math.MaxInt64/int64(time.Millisecond)) {
		return time.Duration(math.MaxInt64)
	}

	return time.Duration(ms) * time.Millisecond
}
