package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshtools/go2dm/mesh"
	"github.com/meshtools/go2dm/readers"
)

var infoCmd = &cobra.Command{
	Use:   "info <mesh.2dm>",
	Short: "Print summary information about a 2DM mesh",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := readers.DefaultOptions()
		opts.ZeroIndex = zeroIndex()
		opts.OnWarning = printWarning

		r, err := readers.Open(args[0], opts)
		if err != nil {
			return err
		}
		defer r.Close()

		fmt.Printf("%s\n", r.Name())
		fmt.Printf("  %d nodes\n", r.NumNodes())
		fmt.Printf("  %d elements (%d materials per element)\n",
			r.NumElements(), r.MaterialsPerElement())
		fmt.Printf("  %d node strings\n", r.NumNodeStrings())
		ext, err := r.Extent()
		if err != nil {
			return err
		}
		if !ext.IsEmpty() {
			fmt.Printf("  extent x [%g, %g] y [%g, %g]\n",
				ext.MinX, ext.MaxX, ext.MinY, ext.MaxY)
		}
		for _, ns := range r.NodeStrings() {
			if ns.Name != "" {
				fmt.Printf("  node string %q: %d nodes\n", ns.Name, ns.NumNodes())
			}
		}
		return nil
	},
}

func printWarning(w mesh.Warning) {
	fmt.Fprintf(os.Stderr, "warning: %s\n", w)
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
