package types

// Severity classifies how a failed prerequisite check affects a deployment.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ActionCheckPrerequisites is the only action accepted by POST /deployment/status.
const ActionCheckPrerequisites = "check-prerequisites"

// PrerequisiteCheck is the outcome of one checklist entry.
type PrerequisiteCheck struct {
	Name     string   `json:"name"`
	Passed   bool     `json:"passed"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// ReportSummary counts the checks of a report. Errors and Warnings count distinct messages.
type ReportSummary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// PrerequisiteReport is the folded result of a checklist run.
type PrerequisiteReport struct {
	Passed   bool                `json:"passed"`
	Errors   []string            `json:"errors"`
	Warnings []string            `json:"warnings"`
	Summary  ReportSummary       `json:"summary"`
	Checks   []PrerequisiteCheck `json:"checks,omitempty"`
}

// DeploymentStatusResponse is returned by the /deployment/status endpoints.
type DeploymentStatusResponse struct {
	PrerequisiteReport
	CanDeploy bool `json:"canDeploy"`
}

// DeploymentActionRequest is the body of POST /deployment/status.
type DeploymentActionRequest struct {
	Action string `json:"action" binding:"required"`
}
