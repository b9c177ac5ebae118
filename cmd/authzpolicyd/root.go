package main

import "github.com/spf13/cobra"

// NewRootCmd creates the root command for the authzpolicyd CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authzpolicyd",
		Short: "Attribute-based authorization policy engine",
		Long: `authzpolicyd compiles an HTTP authorization policy expression,
runs its declared test suite, and either validates it standalone or
serves it as a downstream enforcement step in front of an upstream.`,
	}

	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}
