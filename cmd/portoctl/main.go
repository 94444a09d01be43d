// Command portoctl is the client CLI of spec.md §6's external interface,
// framing rpcstub requests over the Unix socket portod listens on.
// Grounded on the teacher's nsinit/cli.go subcommand layout: one cli.Command
// per verb, each a thin wrapper that marshals flags/args into a request.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ChatWorks/porto/internal/rpcstub"
)

func main() {
	app := &cli.App{
		Name:  "portoctl",
		Usage: "container property-engine client",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "socket", Value: "/run/portod.socket", Usage: "portod Unix socket"},
		},
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "create a container",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					return call(c, rpcstub.Request{Verb: "create", Args: []string{c.Args().First()}})
				},
			},
			{
				Name:      "list",
				Usage:     "list a container's visible properties",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					return call(c, rpcstub.Request{Verb: "list_properties", Args: []string{c.Args().First()}})
				},
			},
			{
				Name:      "get",
				Usage:     "get a property value",
				ArgsUsage: "NAME PROPERTY [INDEX]",
				Action: func(c *cli.Context) error {
					args := c.Args().Slice()
					if len(args) == 3 {
						return call(c, rpcstub.Request{Verb: "get_indexed", Args: args})
					}
					return call(c, rpcstub.Request{Verb: "get", Args: args})
				},
			},
			{
				Name:      "set",
				Usage:     "set a property value",
				ArgsUsage: "NAME PROPERTY VALUE | NAME PROPERTY INDEX VALUE",
				Action: func(c *cli.Context) error {
					args := c.Args().Slice()
					if len(args) == 4 {
						return call(c, rpcstub.Request{Verb: "set_indexed", Args: args})
					}
					return call(c, rpcstub.Request{Verb: "set", Args: args})
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func call(c *cli.Context, req rpcstub.Request) error {
	conn, err := net.Dial("unix", c.String("socket"))
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := rpcstub.WriteRequest(conn, req); err != nil {
		return err
	}
	resp, err := rpcstub.ReadResponse(bufio.NewReader(conn))
	if err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("%s: %s", resp.ErrKind, resp.ErrMsg)
	}
	if len(resp.Values) > 0 {
		fmt.Println(strings.Join(resp.Values, "\n"))
	}
	return nil
}
