// Package updatemgr provides a client for the patch baseline and
// compliance service.
package updatemgr

// Baseline is a named set of patches used to evaluate compliance.
type Baseline struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ScanTask is the handle for an asynchronous compliance scan.
type ScanTask struct {
	TaskID string `json:"task_id"`
	Entity string `json:"entity"`
}

// TaskProgress reports how far a scan task has come.
type TaskProgress struct {
	TaskID          string `json:"task_id"`
	State           string `json:"state"` // running, success, error
	PercentComplete int    `json:"percent_complete"`
}

// Done reports whether the task reached completion.
func (p *TaskProgress) Done() bool {
	return p.PercentComplete >= 100 || p.State == "success"
}

// Patch identifies one patch within a baseline.
type Patch struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ComplianceResult is a host's compliance standing against a baseline.
type ComplianceResult struct {
	Host         string  `json:"host"`
	Baseline     string  `json:"baseline"`
	Status       string  `json:"status"` // compliant, non-compliant, unknown
	Compliant    []Patch `json:"compliant"`
	NonCompliant []Patch `json:"non_compliant"`
}
