package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/paweldywan/devops-test/internal/cloud"
	"github.com/paweldywan/devops-test/internal/db"
	"github.com/paweldywan/devops-test/internal/domain"
	"github.com/paweldywan/devops-test/internal/naming"
	"github.com/paweldywan/devops-test/internal/teardown"
	"github.com/paweldywan/devops-test/internal/verify"
)

// Provisioner orchestrates the monitoring setup workflow:
// preconditions -> workspace -> telemetry -> app config -> notifications
// -> alert rules -> diagnostics. Every step is find-or-create, so re-runs
// converge without duplicating resources. No automatic rollback: a failing
// step leaves earlier resources in place and the result reports what exists.
type Provisioner struct {
	api      cloud.API
	queries  *db.Queries
	teardown *teardown.Manager
	checker  *verify.Checker
}

// NewProvisioner creates a workflow runner. queries and checker may be nil.
func NewProvisioner(api cloud.API, queries *db.Queries, td *teardown.Manager, checker *verify.Checker) *Provisioner {
	if td == nil {
		td = teardown.NewManager()
	}
	return &Provisioner{
		api:      api,
		queries:  queries,
		teardown: td,
		checker:  checker,
	}
}

// Teardown exposes the compensating-delete stack for explicit operator use
func (p *Provisioner) Teardown() *teardown.Manager {
	return p.teardown
}

// Run executes the full workflow for one application
func (p *Provisioner) Run(ctx context.Context, runID string, req domain.ProvisioningRequest) (*domain.ProvisioningResult, error) {
	now := time.Now().UTC()
	result := &domain.ProvisioningResult{
		RunID:     runID,
		Request:   req,
		Status:    domain.StatusRunning,
		StartedAt: &now,
	}

	// Input validation happens before any remote call
	if err := req.Validate(); err != nil {
		return p.fail(ctx, result, domain.StatusFailure, domain.StepPreconditions, err)
	}
	req.Normalize()
	result.Request = req
	names := naming.Derive(req.Application)

	// Step 1: preconditions. A failure here means no resources were touched.
	account, err := p.api.CurrentAccount(ctx)
	if err != nil {
		return p.fail(ctx, result, domain.StatusFailure, domain.StepPreconditions,
			fmt.Errorf("%w: %v", domain.ErrNotAuthenticated, err))
	}
	if account == nil {
		return p.fail(ctx, result, domain.StatusFailure, domain.StepPreconditions, domain.ErrNotAuthenticated)
	}

	app, err := p.api.GetApplication(ctx, req.ResourceGroup, req.Application)
	if err != nil {
		return p.fail(ctx, result, domain.StatusFailure, domain.StepPreconditions, err)
	}
	if app == nil {
		return p.fail(ctx, result, domain.StatusFailure, domain.StepPreconditions,
			fmt.Errorf("%w: %s/%s", domain.ErrApplicationNotFound, req.ResourceGroup, req.Application))
	}
	log.Printf("Run %s: provisioning monitoring for %s (account %s)", runID, app.ID, account.ID)

	// Step 2: logging workspace
	ws, err := p.api.EnsureWorkspace(ctx, req.ResourceGroup, names.Workspace, req.Region, req.RetentionDays)
	if err != nil {
		return p.fail(ctx, result, domain.StatusPartialFailure, domain.StepWorkspace, err)
	}
	result.WorkspaceID = &ws.ID
	if ws.Created {
		p.pushUndo(runID, "workspace "+ws.ID, p.api.DeleteWorkspace, ws.ID)
	}

	// Step 3: telemetry component, bound to the workspace
	tel, err := p.api.EnsureTelemetry(ctx, req.ResourceGroup, names.Telemetry, req.Region, ws.ID)
	if err != nil {
		return p.fail(ctx, result, domain.StatusPartialFailure, domain.StepTelemetry, err)
	}
	result.TelemetryID = &tel.ID
	result.ConnectionString = &tel.ConnectionString
	if tel.Created {
		p.pushUndo(runID, "telemetry "+tel.ID, p.api.DeleteTelemetry, tel.ID)
	}

	// Step 4: apply telemetry configuration to the target application.
	// This alters the monitored system itself, not just the monitoring stack.
	log.Printf("Run %s: applying telemetry configuration to application %s", runID, app.ID)
	if err := p.api.SetApplicationConfig(ctx, app.ID, domain.TelemetryConfigKeys(tel.ConnectionString)); err != nil {
		return p.fail(ctx, result, domain.StatusPartialFailure, domain.StepAppConfig, err)
	}

	// Step 5: notification group
	group, err := p.api.EnsureNotificationGroup(ctx, req.ResourceGroup, names.NotificationGroup, names.ShortName, req.NotificationEmail)
	if err != nil {
		return p.fail(ctx, result, domain.StatusPartialFailure, domain.StepNotificationGroup, err)
	}
	if group.ID == "" {
		return p.fail(ctx, result, domain.StatusPartialFailure, domain.StepNotificationGroup, domain.ErrEmptyIdentifier)
	}
	result.NotificationGroupID = &group.ID
	if group.Created {
		p.pushUndo(runID, "notification group "+group.ID, p.api.DeleteNotificationGroup, group.ID)
	}

	// Step 6: the compute plan comes from the application descriptor
	result.ComputePlanID = &app.PlanID

	// Step 7: alert rules. Mutually independent; created in fixed order so a
	// partial failure is deterministic.
	for _, spec := range BuildAlertRules(req.Application, app.PlanID, app.ID, group.ID) {
		rule, err := p.api.EnsureAlertRule(ctx, spec)
		if err != nil {
			return p.fail(ctx, result, domain.StatusPartialFailure, domain.StepAlertRules,
				fmt.Errorf("rule %s: %w", spec.Name, err))
		}
		result.AlertRuleIDs = append(result.AlertRuleIDs, rule.ID)
		if rule.Created {
			p.pushUndo(runID, "alert rule "+rule.ID, p.api.DeleteAlertRule, rule.ID)
		}
	}

	// Step 8: diagnostic forwarding, single create-or-replace call
	if err := p.api.EnableDiagnostics(ctx, app.ID, ws.ID, domain.DiagnosticLogCategories, true); err != nil {
		return p.fail(ctx, result, domain.StatusPartialFailure, domain.StepDiagnostics, err)
	}
	result.DiagnosticsEnabled = true
	result.LogCategories = domain.DiagnosticLogCategories

	// Optional post-provision health probe; informational only
	if req.HealthCheckURL != "" && p.checker != nil {
		hr := p.checker.Check(ctx, req.HealthCheckURL)
		result.HealthCheck = &domain.HealthCheckOutcome{
			URL:        hr.URL,
			Passed:     hr.Passed,
			StatusCode: hr.StatusCode,
			Error:      hr.Error,
		}
	}

	result.Status = domain.StatusSuccess
	completed := time.Now().UTC()
	result.CompletedAt = &completed
	p.persist(ctx, result)
	log.Printf("Run %s: success (%d alert rules)", runID, len(result.AlertRuleIDs))
	return result, nil
}

func (p *Provisioner) pushUndo(runID, description string, del func(context.Context, string) error, id string) {
	p.teardown.Push(runID, description, func(ctx context.Context) error {
		return del(ctx, id)
	})
}

func (p *Provisioner) fail(ctx context.Context, result *domain.ProvisioningResult, status domain.RunStatus, step domain.Step, err error) (*domain.ProvisioningResult, error) {
	stepErr := domain.NewStepError(step, err)

	s := step
	msg := stepErr.Error()
	completed := time.Now().UTC()
	result.Status = status
	result.FailedStep = &s
	result.Error = &msg
	result.CompletedAt = &completed

	p.persist(ctx, result)
	log.Printf("Run %s: %s at %s: %v", result.RunID, status, step, err)
	return result, stepErr
}

func (p *Provisioner) persist(ctx context.Context, result *domain.ProvisioningResult) {
	if p.queries == nil {
		return
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		log.Printf("Failed to marshal result for run %s: %v", result.RunID, err)
		resultJSON = []byte("{}")
	}

	var failedStep pgtype.Text
	if result.FailedStep != nil {
		failedStep = pgtype.Text{String: string(*result.FailedStep), Valid: true}
	}
	var errText pgtype.Text
	if result.Error != nil {
		errText = pgtype.Text{String: *result.Error, Valid: true}
	}
	var completedAt pgtype.Timestamptz
	if result.CompletedAt != nil {
		completedAt = pgtype.Timestamptz{Time: *result.CompletedAt, Valid: true}
	}

	rows, err := p.queries.FinishRun(ctx, db.FinishRunParams{
		ID:          result.RunID,
		Status:      string(result.Status),
		FailedStep:  failedStep,
		Result:      resultJSON,
		Error:       errText,
		CompletedAt: completedAt,
	})
	if err != nil {
		log.Printf("Failed to persist run %s: %v", result.RunID, err)
		return
	}

	// The run may not have an initial record when invoked outside the API
	if rows == 0 {
		requestJSON, _ := json.Marshal(result.Request)
		var startedAt pgtype.Timestamptz
		if result.StartedAt != nil {
			startedAt = pgtype.Timestamptz{Time: *result.StartedAt, Valid: true}
		}
		if err := p.queries.CreateRun(ctx, db.CreateRunParams{
			ID:        result.RunID,
			Request:   requestJSON,
			Status:    string(result.Status),
			StartedAt: startedAt,
		}); err != nil {
			log.Printf("Failed to record run %s: %v", result.RunID, err)
			return
		}
		if _, err := p.queries.FinishRun(ctx, db.FinishRunParams{
			ID:          result.RunID,
			Status:      string(result.Status),
			FailedStep:  failedStep,
			Result:      resultJSON,
			Error:       errText,
			CompletedAt: completedAt,
		}); err != nil {
			log.Printf("Failed to persist run %s: %v", result.RunID, err)
		}
	}
}
