package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/alchemy/internal/cli/ui"
)

// NewValidateCommand creates the validate command
func NewValidateCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [metadata-file...]",
		Short: "Validate metadata maps",
		Long: `Check that each metadata map decodes, validates and generates a
conflict-free set of operations. Without arguments the configured
metadata.path is validated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				cfg, err := loadConfig(global, "")
				if err != nil {
					return err
				}
				paths = []string{cfg.Metadata.Path}
			}

			for _, path := range paths {
				m, registry, err := loadRegistry(cmd.Context(), path, nil, nil, nil)
				if err != nil {
					return err
				}
				ui.Success(cmd.OutOrStdout(), color.NoColor,
					"%s: %d entities, %d enums, %d relationships, %d operations",
					path, len(m.Entities()), len(m.Enums()), len(m.Relationships), registry.Len())
			}

			return nil
		},
	}
}
