// Command portod is the container property-engine daemon of spec.md §1: it
// assembles the property registry, the container forest, and every
// collaborator (cgroups, network, stats, config) and serves rpcstub
// requests over a Unix socket. Grounded on the teacher's nsinit/main.go,
// which builds a urfave/cli app around a single long-running subcommand
// rather than one binary per verb.
package main

import (
	"bufio"
	"net"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ChatWorks/porto/internal/catalogue"
	"github.com/ChatWorks/porto/internal/cgroup/fs"
	"github.com/ChatWorks/porto/internal/config"
	"github.com/ChatWorks/porto/internal/container"
	"github.com/ChatWorks/porto/internal/engine"
	"github.com/ChatWorks/porto/internal/logging"
	"github.com/ChatWorks/porto/internal/netcollab"
	"github.com/ChatWorks/porto/internal/rpcstub"
	"github.com/ChatWorks/porto/internal/stats"
)

func main() {
	app := &cli.App{
		Name:  "portod",
		Usage: "container property-engine daemon",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "socket", Value: "/run/portod.socket", Usage: "Unix socket to serve rpcstub requests on"},
			&cli.StringFlag{Name: "config", Value: "", Usage: "path to daemon config YAML"},
			&cli.StringFlag{Name: "cgroup-root", Value: "/sys/fs/cgroup", Usage: "cgroupfs mount point"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
			&cli.StringFlag{Name: "log-file", Value: "", Usage: "log file path (stderr if empty)"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("portod exited")
	}
}

func run(c *cli.Context) error {
	log, err := logging.New(c.Bool("debug"), c.String("log-file"))
	if err != nil {
		return err
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	reg := catalogue.Build()
	forest := container.NewForest()
	cgroups := fs.NewRegistry(c.String("cgroup-root"))
	netMgr := netcollab.NewManager()
	st := stats.New()

	eng := engine.New(reg, forest, cfg, cgroups, netMgr, st)

	socketPath := c.String("socket")
	os.Remove(socketPath)
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return err
	}
	defer ln.Close()

	log.WithField("socket", socketPath).Info("portod listening")
	for {
		conn, err := ln.Accept()
		if err != nil {
			log.WithError(err).Warn("accept failed")
			continue
		}
		go serve(eng, conn, log)
	}
}

func serve(eng *engine.Engine, conn net.Conn, log logrus.FieldLogger) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		req, err := rpcstub.ReadRequest(r)
		if err != nil {
			return
		}
		resp := rpcstub.Dispatch(eng, req)
		if err := rpcstub.WriteResponse(conn, resp); err != nil {
			log.WithError(err).Warn("write response failed")
			return
		}
	}
}
