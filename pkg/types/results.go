package types

import "time"

// OutputStatus tells what happened to one output file
type OutputStatus string

const (
	// OutputWritten is a newly written file
	OutputWritten OutputStatus = "written"
	// OutputReplaced is a stale file that was removed and written again
	OutputReplaced OutputStatus = "replaced"
	// OutputUpToDate is an existing file newer than its input, left alone
	OutputUpToDate OutputStatus = "up-to-date"
)

// ConversionResult is returned by the conversion commands and rendered by
// the CLI in text or JSON form.
type ConversionResult struct {
	Command   string       `json:"command"`
	Inputs    []string     `json:"inputs"`
	Outputs   []OutputFile `json:"outputs"`
	RunModes  []string     `json:"runModes,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// OutputFile is one file produced, or skipped, by a conversion
type OutputFile struct {
	Path   string       `json:"path"`
	Source string       `json:"source"`
	ID     string       `json:"id,omitempty"`
	Status OutputStatus `json:"status"`
}

// Add records an output
func (r *ConversionResult) Add(path, source, id string, status OutputStatus) {
	r.Outputs = append(r.Outputs, OutputFile{Path: path, Source: source, ID: id, Status: status})
}

// Count returns how many outputs have the given status
func (r *ConversionResult) Count(status OutputStatus) int {
	n := 0
	for _, o := range r.Outputs {
		if o.Status == status {
			n++
		}
	}
	return n
}

// GenConfigResult holds the rendered configuration and the files written
type GenConfigResult struct {
	ConfigContent string   `json:"configContent"`
	FilesWritten  []string `json:"filesWritten"`
}
