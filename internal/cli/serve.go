package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chomins/autocommit/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the review engine.

Endpoints:
  GET  /health        — Health check
  POST /api/review    — Review a diff and return structured findings
  POST /api/compress  — Classification and compression preview, no model call
  POST /api/message   — Generate a commit message for a diff
  GET  /api/ws        — WebSocket streaming pipeline phases per review`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntP("port", "p", 6142, "port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	port, _ := cmd.Flags().GetInt("port")

	listen := fmt.Sprintf("%s:%d", addr, port)
	return api.New(listen, cfg, client, log).ListenAndServe()
}
