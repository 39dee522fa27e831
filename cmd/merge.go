package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshtools/go2dm/meshutil"
)

var (
	mergeJobFile string
	mergeOut     string
	mergeWeld    bool
	mergeTol     float64
)

var mergeCmd = &cobra.Command{
	Use:   "merge [<in_1.2dm> <in_2.2dm> ...]",
	Short: "Merge two or more 2DM meshes into one",
	Long: `Merge concatenates meshes, offsetting node and element IDs of later
inputs. With --weld, coincident nodes are folded onto their first
occurrence. A repeatable run can be described in a YAML job file instead
of flags:

  go2dm merge --job stitch.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if mergeJobFile != "" {
			if len(args) > 0 || mergeOut != "" {
				return fmt.Errorf("--job replaces both the input arguments and --out")
			}
			job, err := meshutil.LoadMergeJob(mergeJobFile)
			if err != nil {
				return err
			}
			return job.Run()
		}
		if len(args) < 2 {
			return fmt.Errorf("merge requires at least two input meshes")
		}
		if mergeOut == "" {
			return fmt.Errorf("merge requires --out")
		}
		opts := meshutil.DefaultMergeOptions()
		opts.Weld = mergeWeld
		opts.Tolerance = mergeTol
		opts.Reader.ZeroIndex = zeroIndex()
		opts.Writer.ZeroIndex = zeroIndex()
		return meshutil.Merge(mergeOut, args, opts)
	},
}

func init() {
	mergeCmd.Flags().StringVar(&mergeJobFile, "job", "", "YAML merge job file")
	mergeCmd.Flags().StringVarP(&mergeOut, "out", "o", "", "output mesh file")
	mergeCmd.Flags().BoolVar(&mergeWeld, "weld", false, "fold coincident nodes together")
	mergeCmd.Flags().Float64Var(&mergeTol, "tolerance", 0, "per-axis weld tolerance")
	rootCmd.AddCommand(mergeCmd)
}
