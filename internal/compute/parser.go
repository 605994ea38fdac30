package compute

import (
	"strconv"
	"strings"

	"github.com/8thgencore/respkv/internal/resp"
)

// ParseCommand turns a decoded request into a Command. Requests that are not a
// non-empty array, name an unsupported command, or have the wrong arguments
// become Unknown; this never fails.
func ParseCommand(req resp.Value) Command {
	arr, ok := req.(resp.Array)
	if !ok || len(arr) == 0 {
		return Unknown{}
	}

	name, ok := resp.Text(arr[0])
	if !ok {
		return Unknown{}
	}
	args := arr[1:]

	switch strings.ToUpper(name) {
	case CommandPing:
		return Ping{}

	case CommandEcho:
		msg, ok := bulkArg(args, 0)
		if !ok {
			return Unknown{}
		}
		return Echo{Message: msg}

	case CommandGet:
		key, ok := bulkArg(args, 0)
		if !ok {
			return Unknown{}
		}
		return Get{Key: key}

	case CommandSet:
		return parseSet(args)

	case CommandInfo:
		return Info{}
	}

	return Unknown{}
}

// parseSet reads key and value, then option pairs until the first pair that is
// not PX followed by an unsigned integer.
func parseSet(args resp.Array) Command {
	key, ok := bulkArg(args, 0)
	if !ok {
		return Unknown{}
	}
	value, ok := bulkArg(args, 1)
	if !ok {
		return Unknown{}
	}

	cmd := Set{Key: key, Value: value}

	for opts := args[2:]; len(opts) >= 2; opts = opts[2:] {
		opt, ok := resp.Text(opts[0])
		if !ok || !strings.EqualFold(opt, OptionPX) {
			break
		}

		raw, ok := resp.Text(opts[1])
		if !ok {
			break
		}
		ms, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			break
		}

		cmd.ExpiryMillis = &ms
	}

	return cmd
}

func bulkArg(args resp.Array, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}

	s, ok := args[i].(resp.BulkString)

	return string(s), ok
}
