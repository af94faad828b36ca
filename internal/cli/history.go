package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ledgerstore/internal/ir"
)

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	Record string
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Status string
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <address>",
		Short: "Store a replacement record and link it to an entry",
		Long: `Store a replacement record for an existing entry.

The replacement keeps the original entry type. A signed update action is
appended to the original entry's history and its address is printed.

Example:
  ledgerstore update <address> --record '{"content":"edited"}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts.RootOptions, cmd)
			record, err := f.parseRecordFlag(opts.Record)
			if err != nil {
				return err
			}
			return runHistoryWrite(opts.RootOptions, args[0], cmd, "update",
				func(ctx context.Context, s *session, addr ir.Address) (ir.Action, error) {
					return s.entries.Update(ctx, addr, record)
				})
		},
	}

	cmd.Flags().StringVarP(&opts.Record, "record", "r", "", "replacement record as a JSON object (required)")
	_ = cmd.MarkFlagRequired("record")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <address>",
		Short: "Mark an entry as deleted",
		Long: `Append a signed delete action to an entry's history.

Nothing is removed: the entry stays retrievable and its metadata reports
status dead.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryWrite(rootOpts, args[0], cmd, "delete",
				func(ctx context.Context, s *session, addr ir.Address) (ir.Action, error) {
					return s.entries.Delete(ctx, addr)
				})
		},
	}

	return cmd
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <address>",
		Short: "Record a validation outcome for an entry",
		Long: `Append a signed validation action to an entry's history.

Status is one of valid, rejected or abandoned. The latest validation
determines the entry's validation status.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := ir.ValidationStatus(opts.Status)
			return runHistoryWrite(opts.RootOptions, args[0], cmd, "validate",
				func(ctx context.Context, s *session, addr ir.Address) (ir.Action, error) {
					return s.entries.RecordValidation(ctx, addr, status)
				})
		},
	}

	cmd.Flags().StringVarP(&opts.Status, "status", "s", string(ir.ValidationValid), "validation status (valid|rejected|abandoned)")

	return cmd
}

type historyWrite func(ctx context.Context, s *session, addr ir.Address) (ir.Action, error)

func runHistoryWrite(opts *RootOptions, arg string, cmd *cobra.Command, name string, write historyWrite) error {
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

	act, err := write(commandContext(cmd), s, addr)
	if err != nil {
		return f.failOperation(fmt.Sprintf("%s failed", name), err)
	}
	f.VerboseLog("%s action %s appended to %s (seq %d)", act.Kind, act.Address, act.Target, act.Seq)
	return f.Result(act, act.Address.String())
}
