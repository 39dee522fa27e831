package meshutil

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
)

// MergeJob is the YAML description of a merge run, so repeated stitching
// jobs can be driven from a file instead of flags.
//
// Example:
//
//	inputs:
//	  - upstream.2dm
//	  - downstream.2dm
//	output: river.2dm
//	weld: true
//	tolerance: 1.0e-9
//	name: "river reach"
type MergeJob struct {
	Inputs    []string `json:"inputs"`
	Output    string   `json:"output"`
	Weld      bool     `json:"weld"`
	Tolerance float64  `json:"tolerance"`
	ZeroIndex bool     `json:"zero_index"`
	Name      string   `json:"name"`
	Precision int      `json:"precision"`
}

// LoadMergeJob reads and validates a merge job file.
func LoadMergeJob(path string) (*MergeJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	job := &MergeJob{}
	if err := yaml.Unmarshal(data, job); err != nil {
		return nil, fmt.Errorf("parsing job file %s: %v", path, err)
	}
	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("job file %s: %v", path, err)
	}
	return job, nil
}

// Validate checks the job for missing fields.
func (j *MergeJob) Validate() error {
	if len(j.Inputs) == 0 {
		return fmt.Errorf("job defines no input meshes")
	}
	if j.Output == "" {
		return fmt.Errorf("job defines no output mesh")
	}
	if j.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative")
	}
	return nil
}

// Options translates the job into merge options.
func (j *MergeJob) Options() MergeOptions {
	opts := DefaultMergeOptions()
	opts.Weld = j.Weld
	opts.Tolerance = j.Tolerance
	opts.Reader.ZeroIndex = j.ZeroIndex
	opts.Writer.ZeroIndex = j.ZeroIndex
	opts.Writer.Name = j.Name
	if j.Precision > 0 {
		opts.Writer.Precision = j.Precision
	}
	return opts
}

// Run executes the merge described by the job.
func (j *MergeJob) Run() error {
	if err := j.Validate(); err != nil {
		return err
	}
	return Merge(j.Output, j.Inputs, j.Options())
}
