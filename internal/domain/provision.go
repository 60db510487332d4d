package domain

import (
	"fmt"
	"net/mail"
	"time"
)

// Run status
type RunStatus string

const (
	StatusRunning        RunStatus = "running"
	StatusSuccess        RunStatus = "success"
	StatusPartialFailure RunStatus = "partial_failure"
	StatusFailure        RunStatus = "failure"
)

// ExitCode maps a terminal status to a process exit code: 0 for success,
// 2 for partial failure, 1 otherwise
func (s RunStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartialFailure:
		return 2
	default:
		return 1
	}
}

// Workflow steps, in execution order
type Step string

const (
	StepPreconditions     Step = "verify_preconditions"
	StepWorkspace         Step = "logging_workspace"
	StepTelemetry         Step = "telemetry_component"
	StepAppConfig         Step = "application_config"
	StepNotificationGroup Step = "notification_group"
	StepAlertRules        Step = "alert_rules"
	StepDiagnostics       Step = "diagnostic_forwarding"
)

// Alert rule scope kinds. Host-level metrics (CPU, memory) are only
// meaningful at the compute-plan level because multiple applications may
// share a plan; error rate and latency belong to the single application.
type AlertScope string

const (
	ScopePlan        AlertScope = "plan"
	ScopeApplication AlertScope = "application"
)

// Metric aggregation
type Aggregation string

const (
	AggregationAverage Aggregation = "avg"
	AggregationTotal   Aggregation = "total"
)

// DefaultRegion is substituted when the request carries no region
const DefaultRegion = "us-east-1"

// DefaultRetentionDays is the workspace log retention applied unless overridden
const DefaultRetentionDays = 30

// supportedRegions is the fixed allowlist of region codes
var supportedRegions = map[string]bool{
	"us-east-1":      true,
	"us-east-2":      true,
	"us-west-1":      true,
	"us-west-2":      true,
	"eu-west-1":      true,
	"eu-west-2":      true,
	"eu-central-1":   true,
	"ap-northeast-1": true,
	"ap-northeast-2": true,
	"ap-southeast-1": true,
	"ap-southeast-2": true,
	"ap-south-1":     true,
	"ca-central-1":   true,
	"sa-east-1":      true,
}

// SupportedRegion reports whether code is a known region
func SupportedRegion(code string) bool {
	return supportedRegions[code]
}

// ProvisioningRequest is the immutable workflow input
type ProvisioningRequest struct {
	ResourceGroup     string `json:"resource_group" binding:"required"`
	Application       string `json:"application" binding:"required"`
	Region            string `json:"region,omitempty"`
	NotificationEmail string `json:"notification_email" binding:"required,email"`
	RetentionDays     int    `json:"retention_days,omitempty"`
	HealthCheckURL    string `json:"health_check_url,omitempty"`
}

// Validate checks the request before any remote call is made
func (r *ProvisioningRequest) Validate() error {
	if r.ResourceGroup == "" {
		return fmt.Errorf("%w: resource_group is required", ErrInvalidRequest)
	}
	if r.Application == "" {
		return fmt.Errorf("%w: application is required", ErrInvalidRequest)
	}
	if _, err := mail.ParseAddress(r.NotificationEmail); err != nil {
		return fmt.Errorf("%w: notification_email %q is not a valid address", ErrInvalidRequest, r.NotificationEmail)
	}
	if r.Region != "" && !SupportedRegion(r.Region) {
		return fmt.Errorf("%w: %q", ErrUnsupportedRegion, r.Region)
	}
	if r.RetentionDays < 0 {
		return fmt.Errorf("%w: retention_days must not be negative", ErrInvalidRequest)
	}
	return nil
}

// Normalize fills defaulted fields; Validate must have passed
func (r *ProvisioningRequest) Normalize() {
	if r.Region == "" {
		r.Region = DefaultRegion
	}
	if r.RetentionDays == 0 {
		r.RetentionDays = DefaultRetentionDays
	}
}

// AlertRuleSpec describes one metric alert rule
type AlertRuleSpec struct {
	Name                string        `json:"name"`
	ScopeKind           AlertScope    `json:"scope_kind"`
	ScopeResourceID     string        `json:"scope_resource_id"`
	Metric              string        `json:"metric"`
	Aggregation         Aggregation   `json:"aggregation"`
	Operator            string        `json:"operator"`
	Threshold           float64       `json:"threshold"`
	Window              time.Duration `json:"window"`
	Frequency           time.Duration `json:"frequency"`
	Severity            int           `json:"severity"`
	Description         string        `json:"description"`
	NotificationGroupID string        `json:"notification_group_id"`
}

// Validate enforces rule invariants. A window shorter than the sampling
// frequency is meaningless.
func (s *AlertRuleSpec) Validate() error {
	if s.Name == "" || s.ScopeResourceID == "" || s.Metric == "" {
		return fmt.Errorf("%w: alert rule needs name, scope and metric", ErrInvalidRequest)
	}
	if s.Window < s.Frequency {
		return fmt.Errorf("%w: window %v is shorter than frequency %v", ErrInvalidRequest, s.Window, s.Frequency)
	}
	if s.Severity < 0 || s.Severity > 4 {
		return fmt.Errorf("%w: severity %d out of range 0-4", ErrInvalidRequest, s.Severity)
	}
	return nil
}

// HealthCheckOutcome records the optional post-provision probe result
type HealthCheckOutcome struct {
	URL        string `json:"url"`
	Passed     bool   `json:"passed"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ProvisioningResult accumulates identifiers as steps complete.
// It is never mutated after the workflow returns.
type ProvisioningResult struct {
	RunID               string              `json:"run_id"`
	Request             ProvisioningRequest `json:"request"`
	Status              RunStatus           `json:"status"`
	FailedStep          *Step               `json:"failed_step,omitempty"`
	Error               *string             `json:"error,omitempty"`
	WorkspaceID         *string             `json:"workspace_id,omitempty"`
	TelemetryID         *string             `json:"telemetry_id,omitempty"`
	ConnectionString    *string             `json:"connection_string,omitempty"`
	NotificationGroupID *string             `json:"notification_group_id,omitempty"`
	ComputePlanID       *string             `json:"compute_plan_id,omitempty"`
	AlertRuleIDs        []string            `json:"alert_rule_ids,omitempty"`
	DiagnosticsEnabled  bool                `json:"diagnostics_enabled"`
	LogCategories       []string            `json:"log_categories,omitempty"`
	HealthCheck         *HealthCheckOutcome `json:"health_check,omitempty"`
	StartedAt           *time.Time          `json:"started_at,omitempty"`
	CompletedAt         *time.Time          `json:"completed_at,omitempty"`
}

// DiagnosticLogCategories are the log streams forwarded to the workspace
var DiagnosticLogCategories = []string{"http-access", "console", "application"}

// TelemetryConfigKeys returns the configuration entries applied to the
// monitored application. This mutates the monitored system, not just the
// monitoring stack.
func TelemetryConfigKeys(connectionString string) map[string]string {
	return map[string]string{
		"MONITORING_CONNECTION_STRING": connectionString,
		"MONITORING_AGENT_VERSION":     "~3",
		"MONITORING_MODE":              "recommended",
	}
}
