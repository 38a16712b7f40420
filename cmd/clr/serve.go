package main

import (
	"fmt"
	"net"

	"github.com/gin-gonic/gin"
	"github.com/nihei9/clr/server"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var serveFlags = struct {
	addr  *string
	debug *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the compiler and the parser over an HTTP JSON API",
		Example: `  clr serve --addr 127.0.0.1:8080`,
		Args:    cobra.NoArgs,
		RunE:    runServe,
	}
	serveFlags.addr = cmd.Flags().String("addr", "127.0.0.1:8080", "address to listen on")
	serveFlags.debug = cmd.Flags().Bool("debug", false, "run gin in debug mode")
	rootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if !*serveFlags.debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ln, err := net.Listen("tcp", *serveFlags.addr)
	if err != nil {
		return fmt.Errorf("Cannot listen on %v: %w", *serveFlags.addr, err)
	}
	pterm.Info.Printfln("Listening on %v", ln.Addr())

	return server.Serve(ln)
}
