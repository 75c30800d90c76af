package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/alchemy/internal/api/operations"
	"github.com/conduit-lang/alchemy/internal/cli/ui"
	"github.com/conduit-lang/alchemy/internal/metadata"
)

type operationsOptions struct {
	metadata string
	entity   string
}

// NewOperationsCommand creates the operations command
func NewOperationsCommand(global *globalOptions) *cobra.Command {
	opts := &operationsOptions{}

	cmd := &cobra.Command{
		Use:   "operations",
		Short: "List the operations generated for a metadata map",
		Long: `Print every operation the API exposes for the metadata map, with its
root, entity and arguments. No database connection is made.

Examples:
  alchemy operations
  alchemy operations --metadata schema/library.yaml --entity Book`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global, opts.metadata)
			if err != nil {
				return err
			}

			metadataMap, registry, err := loadRegistry(cmd.Context(), cfg.Metadata.Path, nil, nil, nil)
			if err != nil {
				return err
			}

			if opts.entity != "" {
				if _, ok := metadataMap.Entity(opts.entity); !ok {
					return unknownEntityError(opts.entity, metadataMap)
				}
			}

			table := ui.NewTable(cmd.OutOrStdout(), color.NoColor, "Operation", "Root", "Entity", "Arguments")
			for _, category := range []operations.Category{operations.CategoryQuery, operations.CategoryMutation} {
				for _, entry := range registry.Operations(category) {
					if opts.entity != "" && entry.Data.Entity.Name != opts.entity {
						continue
					}
					table.AddRow(entry.Key, category.String(), entry.Data.Entity.Name, describeArguments(registry, entry.Key))
				}
			}
			table.Render()

			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.metadata, "metadata", "m", "", "Metadata map (overrides metadata.path)")
	cmd.Flags().StringVarP(&opts.entity, "entity", "e", "", "Only list operations of this entity")

	return cmd
}

// describeArguments renders "name: Type" pairs sorted by name
func describeArguments(registry *operations.Registry, key string) string {
	field, ok := registry.Field(key)
	if !ok {
		return ""
	}

	names := make([]string, 0, len(field.Args))
	for name := range field.Args {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, field.Args[name].Type.String())
	}
	return strings.Join(parts, ", ")
}

func unknownEntityError(name string, m *metadata.Map) error {
	var candidates []string
	for _, e := range m.Entities() {
		candidates = append(candidates, e.Name)
	}

	if suggestions := ui.Suggest(name, candidates, 3); len(suggestions) > 0 {
		return fmt.Errorf("unknown entity %q (did you mean: %s?)", name, strings.Join(suggestions, ", "))
	}
	return fmt.Errorf("unknown entity %q", name)
}
