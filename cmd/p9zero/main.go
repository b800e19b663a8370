// Command p9zero serves the synthetic zero-device filesystem
// (/zero, /1gig, /10gig, /100gig) over 9P2000.u.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	p9 "github.com/paultag/arigato"
	"github.com/paultag/arigato/fsutil"
	"github.com/paultag/arigato/p9proto"
)

var verbose bool

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "p9zero <listen-addr>",
		Short: "Serve the zero-device demo filesystem over 9P2000.u",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(args[0])
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace requests and replies to stderr")
	return cmd
}

func serve(addr string) error {
	srv := &p9.Server{
		ListenAddr: addr,
		ErrorLog:   log.New(os.Stderr, "p9zero: ", log.LstdFlags),
	}
	srv.Register("", fsutil.ZeroFS{})

	traceEnabled := verbose && term.IsTerminal(int(os.Stderr.Fd()))
	announce := fmt.Sprintf("listening on %s", addr)
	if traceEnabled {
		announce = color.GreenString(announce)
		srv.Trace = func(sent bool, msg p9proto.Msg) {
			if sent {
				fmt.Fprintln(os.Stderr, color.CyanString("<- %s tag=%d", msg.Type(), msg.Tag()))
			} else {
				fmt.Fprintln(os.Stderr, color.YellowString("-> %s tag=%d", msg.Type(), msg.Tag()))
			}
		}
	}
	fmt.Fprintln(os.Stderr, announce)

	if err := srv.ListenAndServe(); err != nil {
		return errors.Wrap(err, "p9zero: serve failed")
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
