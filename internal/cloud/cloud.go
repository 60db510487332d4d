// Package cloud defines the provider contract the provisioning workflow
// runs against, plus the AWS implementation. Tests substitute an in-memory
// fake for the API interface.
package cloud

import (
	"context"

	"github.com/paweldywan/devops-test/internal/domain"
)

// Account identifies the signed-in cloud account
type Account struct {
	ID  string
	ARN string
}

// Application describes an existing deployable resource. PlanID is the
// parent compute plan the application runs on.
type Application struct {
	ID     string
	Name   string
	PlanID string
	URL    string
}

// Workspace is a logging workspace
type Workspace struct {
	ID      string
	Name    string
	Created bool
}

// Telemetry is a telemetry component bound to a workspace
type Telemetry struct {
	ID               string
	Name             string
	ConnectionString string
	Created          bool
}

// NotificationGroup is an email-based notification target
type NotificationGroup struct {
	ID      string
	Name    string
	Created bool
}

// AlertRule is a created-or-found alert rule
type AlertRule struct {
	ID      string
	Name    string
	Created bool
}

// API is the cloud resource contract. All EnsureX operations are
// find-or-create and report whether this call created the resource.
type API interface {
	// CurrentAccount returns the signed-in account, or nil when unauthenticated
	CurrentAccount(ctx context.Context) (*Account, error)

	// GetApplication returns the application descriptor, or nil when absent
	GetApplication(ctx context.Context, resourceGroup, name string) (*Application, error)

	EnsureWorkspace(ctx context.Context, resourceGroup, name, region string, retentionDays int) (*Workspace, error)

	EnsureTelemetry(ctx context.Context, resourceGroup, name, region, workspaceID string) (*Telemetry, error)

	// SetApplicationConfig applies configuration entries to the target
	// application itself; this alters the monitored system.
	SetApplicationConfig(ctx context.Context, appID string, settings map[string]string) error

	EnsureNotificationGroup(ctx context.Context, resourceGroup, name, shortName, email string) (*NotificationGroup, error)

	EnsureAlertRule(ctx context.Context, spec domain.AlertRuleSpec) (*AlertRule, error)

	// EnableDiagnostics is a single create-or-replace call; re-running it
	// must not produce duplicate settings.
	EnableDiagnostics(ctx context.Context, appID, workspaceID string, logCategories []string, allMetrics bool) error

	// Deletes back the explicit teardown stack. Only resources created by
	// this workflow are ever passed in.
	DeleteWorkspace(ctx context.Context, id string) error
	DeleteTelemetry(ctx context.Context, id string) error
	DeleteNotificationGroup(ctx context.Context, id string) error
	DeleteAlertRule(ctx context.Context, id string) error
}
