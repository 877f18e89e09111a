package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lacquerai/casegen/internal/execcontext"
	"github.com/lacquerai/casegen/internal/profile"
	"github.com/lacquerai/casegen/internal/style"
)

const defaultProfilePath = "profile.yaml"

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter generation profile",
	Long: `Write a generation profile YAML that can be edited and passed to
'casegen generate --profile'.

Templates available:
- default: the built-in profile (3000 rows over 2010-2024)
- small:   the built-in weights with a single year of 100 rows`,
	Example: `
  casegen init                         # writes profile.yaml
  casegen init --template small demo.yaml
  casegen init --force profile.yaml    # overwrite an existing file`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rc := execcontext.New(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		path := defaultProfilePath
		if len(args) > 0 {
			path = args[0]
		}
		template, _ := cmd.Flags().GetString("template")
		force, _ := cmd.Flags().GetBool("force")
		return initializeProfile(rc, path, template, force)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringP("template", "t", "default", "profile template (default, small)")
	initCmd.Flags().Bool("force", false, "overwrite an existing file")
}

// ProfileTemplate is a named starting point for a profile.
type ProfileTemplate struct {
	Description string
	Build       func() *profile.Profile
}

var templates = map[string]ProfileTemplate{
	"default": {
		Description: "the built-in profile (3000 rows over 2010-2024)",
		Build:       profile.Default,
	},
	"small": {
		Description: "the built-in weights with a single year of 100 rows",
		Build: func() *profile.Profile {
			p := profile.Default()
			p.Name = "small"
			p.Years = []profile.YearCount{{Year: 2024, Count: 100}}
			return p
		},
	},
}

func templateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func initializeProfile(rc execcontext.RunContext, path, templateName string, force bool) error {
	template, exists := templates[templateName]
	if !exists {
		return fmt.Errorf("unknown template %q (available: %s)", templateName, strings.Join(templateNames(), ", "))
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	data, err := profile.Marshal(template.Build())
	if err != nil {
		return err
	}
	header := fmt.Sprintf("# yaml-language-server: $schema=%s\n# casegen generation profile (%s).\n", profile.SchemaID, templateName)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if !viper.GetBool("quiet") {
		style.Success(rc.StdOut, fmt.Sprintf("Created %s from the %s template", path, templateName))
		fmt.Fprintf(rc.StdOut, "\nNext: casegen generate --profile %s\n", path)
	}
	return nil
}
