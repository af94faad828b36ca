package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/ledgerstore/internal/ir"
)

// WhoAmIResult is the JSON payload of whoami.
type WhoAmIResult struct {
	Agent ir.AgentID `json:"agent"`
}

// NewWhoAmICommand creates the whoami command.
func NewWhoAmICommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Print the local agent identity",
		Long: `Print the identity of the local agent.

The agent key comes from agent_seed in the config file. Without one, a key is
generated on first use and kept in the database.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoAmI(rootOpts, cmd)
		},
	}

	return cmd
}

func runWhoAmI(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, openExisting)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.entries.WhoAmI()
	if err != nil {
		return s.formatter.failOperation("whoami failed", err)
	}
	return s.formatter.Result(WhoAmIResult{Agent: id}, string(id))
}
