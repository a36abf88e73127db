package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalogue/internal/kernel"
	"github.com/shashiranjanraj/catalogue/internal/server"
)

// catalogue serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		k, err := kernel.Boot(ctx)
		if err != nil {
			return err
		}
		defer k.Close()
		return server.Run(ctx, k)
	},
}

// catalogue route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := kernel.Boot(cmd.Context(), kernel.Offline())
		if err != nil {
			return err
		}
		r, err := k.Router()
		if err != nil {
			return err
		}

		infos := r.Routes()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
