package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lacquerai/casegen/internal/profile"
)

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Output the generation profile JSON schema",
	Long: `Output the JSON Schema describing generation profile files, for editor
completion and CI validation.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaBytes, err := profile.Schema()
		if err != nil {
			return fmt.Errorf("error generating schema: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(schemaBytes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
