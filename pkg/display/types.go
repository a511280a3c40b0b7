// Package display turns the results of a deploy or clean pass into
// something a person or a script can read.
package display

// Status is the outcome shown for one package
type Status string

const (
	StatusDeployed Status = "deployed"
	StatusCleaned  Status = "cleaned"
	StatusFailed   Status = "failed"
)

// PackageResult is the display form of one entry of a pass
type PackageResult struct {
	Package  string `json:"package"`
	Strategy string `json:"strategy"`
	Priority int    `json:"priority"`
	Status   Status `json:"status"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Report is the display form of a whole pass, in execution order
type Report struct {
	Operation string          `json:"operation"`
	Packages  []PackageResult `json:"packages"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
}

// HasFailures reports whether any package failed
func (r Report) HasFailures() bool {
	return r.Failed > 0
}
