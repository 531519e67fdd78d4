package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moltherm/moltherm/internal/analysis"
)

var regressData string

// NewRegressCmd creates the regress command: fit reaction quantities against
// descriptor columns from a CSV dataset.
func NewRegressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regress",
		Short: "Fit a linear model over a thermochemistry dataset",
		Long: `Fit an ordinary least-squares model to a CSV dataset.  The first row
names the columns; the last column is the target, every other column a
descriptor.  Prints the fitted coefficients and the fit quality.`,
		Args: cobra.NoArgs,
		RunE: runRegress,
	}

	cmd.Flags().StringVar(&regressData, "data", "", "CSV dataset path (required)")
	cmd.MarkFlagRequired("data")
	return cmd
}

func runRegress(cmd *cobra.Command, args []string) error {
	app := appFromCommand(cmd)
	defer app.Close()

	ds, err := analysis.LoadCSV(regressData)
	if err != nil {
		return err
	}
	fit, err := analysis.Fit(ds.X, ds.Y)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "intercept: %g\n", fit.Coefficients[0])
	for i, name := range ds.Names {
		fmt.Fprintf(out, "%s: %g\n", name, fit.Coefficients[i+1])
	}
	fmt.Fprintf(out, "r_squared: %.6f\n", fit.RSquared)
	fmt.Fprintf(out, "rmsd: %.6f\n", fit.RMSD)
	return nil
}
