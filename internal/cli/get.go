package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ledgerstore/internal/entrystore"
	"github.com/roach88/ledgerstore/internal/ir"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <address>",
		Short: "Print the record stored at an address",
		Long: `Print the record stored at an address as canonical JSON.

Exits with status 1 when nothing is stored at the address, or when the
address names a history action rather than an entry.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runGet(opts *RootOptions, arg string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	addr, err := f.parseAddressArg(arg)
	if err != nil {
		return err
	}

	s, err := openSession(opts, cmd, openExisting)
	if err != nil {
		return err
	}
	defer s.Close()

	entry, ok, err := s.entries.Get(commandContext(cmd), addr)
	if err != nil {
		return f.failOperation("get failed", err)
	}
	if !ok {
		return f.fail(ExitFailure, string(entrystore.ErrCodeNotFound), fmt.Sprintf("no entry at %s", addr), nil)
	}

	canonical, err := ir.MarshalCanonical(entry.Content)
	if err != nil {
		return f.fail(ExitFailure, string(entrystore.ErrCodeEncoding), "encode record", err)
	}
	return f.Result(entry, string(canonical))
}
