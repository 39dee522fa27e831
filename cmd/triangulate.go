package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meshtools/go2dm/meshutil"
	"github.com/meshtools/go2dm/writers"
)

var triangulateOut string

var triangulateCmd = &cobra.Command{
	Use:   "triangulate <points.txt>",
	Short: "Build an E3T mesh from a file of scattered 2D points",
	Long: `Triangulate reads one "x y" pair per line (blank lines and # comments
ignored), computes the Delaunay triangulation and writes the result as
an E3T mesh.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if triangulateOut == "" {
			return fmt.Errorf("triangulate requires --out")
		}
		points, err := readPoints(args[0])
		if err != nil {
			return err
		}
		opts := writers.DefaultOptions()
		opts.ZeroIndex = zeroIndex()
		return meshutil.Triangulate(points, triangulateOut, opts)
	},
}

func readPoints(path string) ([][2]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var points [][2]float64
	scanner := bufio.NewScanner(file)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("%s:%d: expected \"x y\", got %q", path, lineNo, line)
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid x %q", path, lineNo, fields[0])
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid y %q", path, lineNo, fields[1])
		}
		points = append(points, [2]float64{x, y})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

func init() {
	triangulateCmd.Flags().StringVarP(&triangulateOut, "out", "o", "", "output mesh file")
	rootCmd.AddCommand(triangulateCmd)
}
