package display

import (
	"github.com/andparsons/composer-project-files-installer/pkg/deploy"
	"github.com/andparsons/composer-project-files-installer/pkg/errors"
)

// Operations understood by NewReport
const (
	OperationDeploy = "deploy"
	OperationClean  = "clean"
)

// NewReport converts the results of a pass into a report
func NewReport(operation string, results []deploy.Result) Report {
	report := Report{
		Operation: operation,
		Packages:  make([]PackageResult, 0, len(results)),
	}

	ok := StatusDeployed
	if operation == OperationClean {
		ok = StatusCleaned
	}

	for _, res := range results {
		pr := PackageResult{
			Package:  res.PackageName,
			Strategy: string(res.Strategy),
			Priority: res.Priority,
			Status:   ok,
		}
		if res.Failed() {
			pr.Status = StatusFailed
			pr.Code = string(errors.GetErrorCode(res.Err))
			pr.Message = res.Err.Error()
			report.Failed++
		} else {
			report.Succeeded++
		}
		report.Packages = append(report.Packages, pr)
	}
	return report
}
