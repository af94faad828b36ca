package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ledgerstore/internal/ir"
)

// InfoResult is the JSON payload of info.
type InfoResult struct {
	Database      string     `json:"database"`
	SpaceID       string     `json:"space_id"`
	Agent         ir.AgentID `json:"agent"`
	Entries       int        `json:"entries"`
	Actions       int        `json:"actions"`
	FormatVersion string     `json:"format_version"`
	StoreVersion  string     `json:"store_version"`
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "info",
		Short:         "Summarize the database",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, cmd)
		},
	}

	return cmd
}

func runInfo(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, openExisting)
	if err != nil {
		return err
	}
	defer s.Close()

	f := s.formatter
	ctx := commandContext(cmd)

	spaceID, err := s.store.SpaceID(ctx)
	if err != nil {
		return f.fail(ExitFailure, ErrCodeStorage, "read space id", err)
	}
	entries, err := s.store.CountEntries(ctx)
	if err != nil {
		return f.fail(ExitFailure, ErrCodeStorage, "count entries", err)
	}
	actions, err := s.store.CountActions(ctx)
	if err != nil {
		return f.fail(ExitFailure, ErrCodeStorage, "count actions", err)
	}

	info := InfoResult{
		Database:      s.cfg.Database,
		SpaceID:       spaceID,
		Agent:         s.agent.ID(),
		Entries:       entries,
		Actions:       actions,
		FormatVersion: ir.FormatVersion,
		StoreVersion:  ir.StoreVersion,
	}
	return f.Result(info,
		fmt.Sprintf("database:  %s", info.Database),
		fmt.Sprintf("space:     %s", info.SpaceID),
		fmt.Sprintf("agent:     %s", info.Agent),
		fmt.Sprintf("entries:   %d", info.Entries),
		fmt.Sprintf("actions:   %d", info.Actions),
		fmt.Sprintf("format:    v%s (ledgerstore %s)", info.FormatVersion, info.StoreVersion),
	)
}
