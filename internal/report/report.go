// Package report renders a ProvisioningResult for a human operator.
// Pure presentation; no side effects.
package report

import (
	"fmt"
	"strings"

	"github.com/paweldywan/devops-test/internal/domain"
)

// Format renders the result and the alert rules that were applied as a
// plaintext summary
func Format(result *domain.ProvisioningResult, rules []domain.AlertRuleSpec) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Monitoring provisioning %s for %s/%s (run %s)\n",
		result.Status, result.Request.ResourceGroup, result.Request.Application, result.RunID)
	fmt.Fprintf(&b, "Region: %s, log retention: %d days\n", result.Request.Region, result.Request.RetentionDays)

	if result.WorkspaceID != nil {
		fmt.Fprintf(&b, "Logging workspace:   %s\n", *result.WorkspaceID)
	}
	if result.TelemetryID != nil {
		fmt.Fprintf(&b, "Telemetry component: %s\n", *result.TelemetryID)
	}
	if result.ConnectionString != nil {
		fmt.Fprintf(&b, "Connection string:   %s\n", *result.ConnectionString)
	}
	if result.NotificationGroupID != nil {
		fmt.Fprintf(&b, "Notifications:       %s -> %s\n", *result.NotificationGroupID, result.Request.NotificationEmail)
	}
	if result.ComputePlanID != nil {
		fmt.Fprintf(&b, "Compute plan:        %s\n", *result.ComputePlanID)
	}

	if len(result.AlertRuleIDs) > 0 {
		fmt.Fprintf(&b, "Alert rules (%d):\n", len(result.AlertRuleIDs))
		for _, r := range rules {
			fmt.Fprintf(&b, "  %-28s %s %s %s %g (window %s, every %s, P%d)\n",
				r.Name, r.Metric, string(r.Aggregation), r.Operator, r.Threshold,
				r.Window, r.Frequency, r.Severity)
		}
	}

	if result.DiagnosticsEnabled {
		fmt.Fprintf(&b, "Diagnostics: forwarding %s and all metrics to the workspace\n",
			strings.Join(result.LogCategories, ", "))
	}
	if result.HealthCheck != nil {
		status := "FAILED"
		if result.HealthCheck.Passed {
			status = "ok"
		}
		fmt.Fprintf(&b, "Health check %s: %s (status %d)\n",
			result.HealthCheck.URL, status, result.HealthCheck.StatusCode)
	}

	if result.FailedStep != nil {
		fmt.Fprintf(&b, "Failed step: %s\n", *result.FailedStep)
	}
	if result.Error != nil {
		fmt.Fprintf(&b, "Error: %s\n", *result.Error)
	}

	fmt.Fprintf(&b, "Monitoring view: %s\n", MonitoringURL(result.Request.Region, result.Request.Application))
	return b.String()
}

// MonitoringURL is a deep link to the application's alarm view
func MonitoringURL(region, application string) string {
	return fmt.Sprintf("https://%s.console.aws.amazon.com/cloudwatch/home?region=%s#alarmsV2:?~(search~'%s)",
		region, region, application)
}
