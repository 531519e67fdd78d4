package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	checkShowMap  bool
	checkReactant string
)

// NewCheckCmd creates the check command: the atom-conservation screen over
// reaction directories, plus the cross-directory reactant views.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [directories...]",
		Short: "Screen reaction directories for atom conservation",
		Long: `Screen reaction directories with the quick atom-conservation check and
print the directories that pass.  With no arguments, all reaction
subdirectories of the base directory are screened.

With --map, print the reactant-to-reactions map of the passing
directories instead.  With --reactant, print the directories that
reference the given reactant id.`,
		RunE: runCheck,
	}

	cmd.Flags().BoolVar(&checkShowMap, "map", false, "print the reactant id → directories map")
	cmd.Flags().StringVar(&checkReactant, "reactant", "", "print directories referencing this reactant id")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	app := appFromCommand(cmd)
	defer app.Close()
	assoc := app.associator()

	if checkReactant != "" {
		dirs, err := assoc.FindCommonReactants(checkReactant)
		if err != nil {
			return err
		}
		for _, d := range dirs {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return nil
	}

	if checkShowMap {
		mapping, err := assoc.MapReactantsToReactions()
		if err != nil {
			return err
		}
		for id, dirs := range mapping {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", id, dirs)
		}
		return nil
	}

	dirs := args
	if len(dirs) == 0 {
		var err error
		if dirs, err = assoc.ReactionDirs(); err != nil {
			return err
		}
	}

	for _, d := range assoc.QuickCheck(dirs) {
		fmt.Fprintln(cmd.OutOrStdout(), d)
	}
	return nil
}
