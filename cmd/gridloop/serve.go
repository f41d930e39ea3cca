package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gridloop/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gridloop SSH server",
		Long: `Start an SSH server that allows users to connect and play games.

Each SSH connection gets its own session with a game picker menu and its
own loop. Results are stored per-server (all users share the same table).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise uses ssh.host_key from the config, generating it if missing

Examples:
  gridloop serve                           # Listen on :23234
  gridloop serve --ssh :2222               # Listen on port 2222
  gridloop serve --host-key ./my_host_key  # Use specific host key
  gridloop serve --db ./results.db         # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, default from config)")
	cmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (default from config)")
	cmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Disconnect idle sessions after this long")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	sshCfg := e.cfg.SSH
	if cmd.Flags().Changed("ssh") {
		sshCfg.Address = flagSSHAddr
	}
	if cmd.Flags().Changed("host-key") {
		sshCfg.HostKey = flagHostKey
	}
	if cmd.Flags().Changed("idle-timeout") {
		sshCfg.IdleTimeout = flagIdleTimeout
	}

	opts := e.options()
	opts.Logger = e.logger.With("component", "ssh")
	server, err := tui.NewSSHServer(sshCfg, opts)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Starting gridloop SSH server on %s\n", server.Addr())
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	return server.ListenAndServe()
}
