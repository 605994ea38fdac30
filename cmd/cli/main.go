package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/8thgencore/respkv/internal/client"
	"github.com/alecthomas/kong"
)

// CLI is the command line of respkv-cli
type CLI struct {
	Address string        `help:"Server address to connect to." default:"127.0.0.1:6379" short:"a"`
	Timeout time.Duration `help:"How long to wait for a reply." default:"1s"`
	Command []string      `arg:"" optional:"" help:"Command to run once, e.g. SET foo bar PX 100. Starts an interactive session when omitted."`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("respkv-cli"),
		kong.Description("Command line client for respkv."),
		kong.UsageOnError(),
	)

	c := client.New(cli.Address, cli.Timeout)
	if err := c.Connect(); err != nil {
		kctx.Fatalf("%v", err)
	}

	if len(cli.Command) == 0 {
		if err := c.Run(os.Stdin, os.Stdout); err != nil {
			kctx.Fatalf("%v", err)
		}
		return
	}

	defer func() {
		_ = c.Close()
	}()

	reply, err := c.Do(cli.Command...)
	switch {
	case errors.Is(err, client.ErrNoReply):
		fmt.Println("(no reply)")
	case err != nil:
		kctx.Fatalf("%v", err)
	default:
		fmt.Println(client.Format(reply))
	}
}
