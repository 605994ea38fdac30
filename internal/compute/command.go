package compute

// Command is a request turned into a typed operation. It is one of Ping, Echo,
// Get, Set, Info or Unknown.
type Command interface {
	// Name returns the upper-case command name, or "UNKNOWN"
	Name() string
	isCommand()
}

// Ping asks for a PONG
type Ping struct{}

// Echo asks for Message back as a bulk string
type Echo struct {
	Message string
}

// Get reads Key
type Get struct {
	Key string
}

// Set writes Key. ExpiryMillis, when set, is the time-to-live from the PX option.
type Set struct {
	Key          string
	Value        string
	ExpiryMillis *uint64
}

// Info asks for the static server info
type Info struct{}

// Unknown is any request that is not a well-formed supported command. It gets no reply.
type Unknown struct{}

func (Ping) Name() string    { return CommandPing }
func (Echo) Name() string    { return CommandEcho }
func (Get) Name() string     { return CommandGet }
func (Set) Name() string     { return CommandSet }
func (Info) Name() string    { return CommandInfo }
func (Unknown) Name() string { return "UNKNOWN" }

func (Ping) isCommand()    {}
func (Echo) isCommand()    {}
func (Get) isCommand()     {}
func (Set) isCommand()     {}
func (Info) isCommand()    {}
func (Unknown) isCommand() {}
