// Command p9ufs serves one or more host directories over 9P2000.u, each
// bound to an aname. Extra positional arguments come in pairs: an aname
// and the host path it maps to.
package main

import (
	"fmt"
	"log"
	"net"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	p9 "github.com/paultag/arigato"
	"github.com/paultag/arigato/fsutil"
	"github.com/paultag/arigato/p9proto"
)

var verbose bool

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "p9ufs <listen-addr> [aname path]...",
		Short: "Serve host directories over 9P2000.u",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(args[0], args[1:])
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace requests and replies to stderr")
	return cmd
}

func serve(addr string, pairs []string) error {
	if len(pairs)%2 != 0 {
		return errors.New("p9ufs: aname/path arguments must come in pairs")
	}

	logger := log.New(os.Stderr, "p9ufs: ", log.LstdFlags)
	srv := &p9.Server{ListenAddr: addr, ErrorLog: logger}

	for i := 0; i < len(pairs); i += 2 {
		aname, root := pairs[i], pairs[i+1]
		srv.Register(aname, fsutil.NewHostFS(root))
		logger.Printf("serving %s at aname %q", root, aname)
	}

	traceEnabled := verbose && term.IsTerminal(int(os.Stderr.Fd()))
	ln, err := newListener(addr)
	if err != nil {
		return errors.Wrap(err, "p9ufs: listen failed")
	}

	announce := fmt.Sprintf("listening on %s", addr)
	if traceEnabled {
		announce = color.CyanString(announce)
		srv.Trace = func(sent bool, msg p9proto.Msg) {
			if sent {
				fmt.Fprintln(os.Stderr, color.GreenString("<- %s tag=%d", msg.Type(), msg.Tag()))
			} else {
				fmt.Fprintln(os.Stderr, color.YellowString("-> %s tag=%d", msg.Type(), msg.Tag()))
			}
		}
	}
	fmt.Fprintln(os.Stderr, announce)

	if err := srv.Serve(ln); err != nil {
		return errors.Wrap(err, "p9ufs: serve failed")
	}
	return nil
}

// newListener opens a TCP listener and, beyond the TCP_NODELAY that
// Server.Serve sets per accepted connection, tunes the receive buffer on
// the listening socket itself -- a knob net.Listen does not expose.
func newListener(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if tl, ok := ln.(*net.TCPListener); ok {
		if raw, err := tl.SyscallConn(); err == nil {
			raw.Control(func(fd uintptr) {
				unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, 1<<20)
			})
		}
	}
	return ln, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
