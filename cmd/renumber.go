package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshtools/go2dm/meshutil"
	"github.com/meshtools/go2dm/writers"
)

var renumberOut string

var renumberCmd = &cobra.Command{
	Use:   "renumber <in.2dm>",
	Short: "Rewrite a mesh with contiguous node and element IDs",
	Long: `Renumber rewrites a 2DM file whose IDs contain holes into one the
strict reader accepts: IDs become contiguous starting at the base,
with element and node string references following along.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if renumberOut == "" {
			return fmt.Errorf("renumber requires --out")
		}
		opts := writers.DefaultOptions()
		opts.ZeroIndex = zeroIndex()
		return meshutil.RenumberContiguous(args[0], renumberOut, opts)
	},
}

func init() {
	renumberCmd.Flags().StringVarP(&renumberOut, "out", "o", "", "output mesh file")
	rootCmd.AddCommand(renumberCmd)
}
