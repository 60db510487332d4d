package engine

import (
	"time"

	"github.com/paweldywan/devops-test/internal/domain"
	"github.com/paweldywan/devops-test/internal/naming"
)

const (
	ruleWindow    = 5 * time.Minute
	ruleFrequency = 1 * time.Minute
)

// BuildAlertRules returns the four built-in alert rules. CPU and memory are
// scoped to the compute plan (shared by every application on it); HTTP 5xx
// and response time are scoped to the single application. Scoping all four
// to the application would silently break CPU/memory on shared plans.
func BuildAlertRules(application, planID, appID, notificationGroupID string) []domain.AlertRuleSpec {
	base := domain.AlertRuleSpec{
		Window:              ruleWindow,
		Frequency:           ruleFrequency,
		NotificationGroupID: notificationGroupID,
	}

	cpu := base
	cpu.Name = naming.AlertRuleName(application, "cpu-high")
	cpu.ScopeKind = domain.ScopePlan
	cpu.ScopeResourceID = planID
	cpu.Metric = "CpuPercentage"
	cpu.Aggregation = domain.AggregationAverage
	cpu.Operator = ">"
	cpu.Threshold = 80
	cpu.Severity = 2
	cpu.Description = "Average CPU above 80% on the compute plan"

	mem := base
	mem.Name = naming.AlertRuleName(application, "memory-high")
	mem.ScopeKind = domain.ScopePlan
	mem.ScopeResourceID = planID
	mem.Metric = "MemoryPercentage"
	mem.Aggregation = domain.AggregationAverage
	mem.Operator = ">"
	mem.Threshold = 85
	mem.Severity = 2
	mem.Description = "Average memory above 85% on the compute plan"

	http5xx := base
	http5xx.Name = naming.AlertRuleName(application, "http-5xx")
	http5xx.ScopeKind = domain.ScopeApplication
	http5xx.ScopeResourceID = appID
	http5xx.Metric = "Http5xx"
	http5xx.Aggregation = domain.AggregationTotal
	http5xx.Operator = ">"
	http5xx.Threshold = 10
	http5xx.Severity = 1
	http5xx.Description = "More than 10 server errors in 5 minutes"

	latency := base
	latency.Name = naming.AlertRuleName(application, "response-time")
	latency.ScopeKind = domain.ScopeApplication
	latency.ScopeResourceID = appID
	latency.Metric = "HttpResponseTime"
	latency.Aggregation = domain.AggregationAverage
	latency.Operator = ">"
	latency.Threshold = 5
	latency.Severity = 3
	latency.Description = "Average response time above 5 seconds"

	return []domain.AlertRuleSpec{cpu, mem, http5xx, latency}
}
