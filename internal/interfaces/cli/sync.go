package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSyncCmd creates the sync command: copy calculation outputs between
// reaction directories that share molecules.
func NewSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Copy calculation outputs across reaction directories",
		Long: `Copy calculation outputs between reaction directories so that every
directory holding a molecule also holds that molecule's outputs.  Shared
reactants are matched by molecule id and elemental composition; copied
files get a "_copy" suffix.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFromCommand(cmd)
			defer app.Close()

			copied, err := app.associator().SyncOutputs()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Number of files copied: %d\n", copied)
			return nil
		},
	}
}
