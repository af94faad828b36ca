package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ledgerstore/internal/ir"
)

// MetadataResult is the JSON payload of metadata. Metadata is null when the
// address carries no entry-level history.
type MetadataResult struct {
	Address  ir.Address   `json:"address"`
	Metadata *ir.Metadata `json:"metadata"`
}

// NewMetadataCommand creates the metadata command.
func NewMetadataCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata <address>",
		Short: "Print the history attached to an address",
		Long: `Print the entry-level history attached to an address.

Unknown addresses, action addresses and entries without history all report
no metadata. This is not an error.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetadata(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runMetadata(opts *RootOptions, arg string, cmd *cobra.Command) error {
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

	md, err := s.entries.GetMetadata(commandContext(cmd), addr)
	if err != nil {
		return f.failOperation("get metadata failed", err)
	}

	return f.Result(MetadataResult{Address: addr, Metadata: md}, metadataLines(addr, md)...)
}

func metadataLines(addr ir.Address, md *ir.Metadata) []string {
	if md == nil {
		return []string{fmt.Sprintf("no metadata for %s", addr)}
	}
	lines := []string{
		fmt.Sprintf("address:     %s", md.Address),
		fmt.Sprintf("entry_type:  %s", md.EntryType),
		fmt.Sprintf("author:      %s", md.Author),
		fmt.Sprintf("status:      %s", md.Status),
	}
	if md.ValidationStatus != "" {
		lines = append(lines, fmt.Sprintf("validation:  %s", md.ValidationStatus))
	}
	for _, act := range md.Updates {
		lines = append(lines, fmt.Sprintf("update       %s -> %s", act.Address, act.NewEntry))
	}
	for _, act := range md.Deletes {
		lines = append(lines, fmt.Sprintf("delete       %s", act.Address))
	}
	for _, act := range md.Validations {
		lines = append(lines, fmt.Sprintf("validation   %s %s", act.Address, act.Status))
	}
	return lines
}
