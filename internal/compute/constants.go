package compute

// Command names, matched case-insensitively
const (
	CommandPing = "PING"
	CommandEcho = "ECHO"
	CommandGet  = "GET"
	CommandSet  = "SET"
	CommandInfo = "INFO"
)

// SET options
const (
	OptionPX = "PX"
)

// Response messages
const (
	ResponsePong = "PONG"
	ResponseInfo = "role:master"

	// replyOK is written as is, without going through the encoder
	replyOK = "+OK\r\n"
)
