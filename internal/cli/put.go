package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/ledgerstore/internal/ir"
)

// PutOptions holds flags for the put command.
type PutOptions struct {
	*RootOptions
	Record    string
	EntryType string
}

// PutResult is the JSON payload of put.
type PutResult struct {
	Address   ir.Address `json:"address"`
	EntryType string     `json:"entry_type"`
}

// NewPutCommand creates the put command.
func NewPutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Store a record and print its address",
		Long: `Store a JSON record and print its content address.

The address depends only on the record content and entry type. Putting the
same record again returns the same address and stores nothing new.

Example:
  ledgerstore put --record '{"content":"test"}'
  ledgerstore put --type post --record '{"content":"test"}'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPut(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Record, "record", "r", "", "record as a JSON object (required)")
	cmd.Flags().StringVarP(&opts.EntryType, "type", "t", ir.DefaultEntryType, "entry type")
	_ = cmd.MarkFlagRequired("record")

	return cmd
}

func runPut(opts *PutOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	record, err := f.parseRecordFlag(opts.Record)
	if err != nil {
		return err
	}

	s, err := openSession(opts.RootOptions, cmd, openCreate)
	if err != nil {
		return err
	}
	defer s.Close()

	addr, err := s.entries.PutTyped(commandContext(cmd), opts.EntryType, record)
	if err != nil {
		return f.failOperation("put failed", err)
	}

	return f.Result(PutResult{Address: addr, EntryType: opts.EntryType}, addr.String())
}
