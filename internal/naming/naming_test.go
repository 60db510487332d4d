package naming

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDeriveDeterministic(t *testing.T) {
	a := Derive("app-y")
	b := Derive("app-y")
	assert.Equal(t, a, b)
}

func TestDeriveValues(t *testing.T) {
	n := Derive("app-y")
	assert.Equal(t, "app-y-logs", n.Workspace)
	assert.Equal(t, "app-y-insights", n.Telemetry)
	assert.Equal(t, "app-y-alerts", n.NotificationGroup)
	assert.Equal(t, "app-y", n.ShortName)
}

func TestDeriveDistinctRoles(t *testing.T) {
	n := Derive("app-y")
	assert.NotEqual(t, n.Workspace, n.Telemetry)
	assert.NotEqual(t, n.Workspace, n.NotificationGroup)
	assert.NotEqual(t, n.Telemetry, n.NotificationGroup)
}

func TestDeriveDistinctApplications(t *testing.T) {
	a := Derive("app-a")
	b := Derive("app-b")
	assert.NotEqual(t, a.Workspace, b.Workspace)
	assert.NotEqual(t, a.Telemetry, b.Telemetry)
	assert.NotEqual(t, a.NotificationGroup, b.NotificationGroup)
}

func TestDeriveNormalizesCase(t *testing.T) {
	assert.Equal(t, Derive("App-Y"), Derive("app-y"))
	assert.Equal(t, Derive(" app-y "), Derive("app-y"))
}

func TestDeriveShortNameTruncated(t *testing.T) {
	n := Derive("a-very-long-application-name")
	assert.Len(t, n.ShortName, 12)
	assert.Equal(t, "a-very-long-", n.ShortName)
}

func TestDeriveShortNameMultiByte(t *testing.T) {
	n := Derive("éclair-service-backend")
	assert.True(t, utf8.ValidString(n.ShortName))
	assert.Equal(t, 12, utf8.RuneCountInString(n.ShortName))
	assert.Equal(t, "éclair-servi", n.ShortName)
}

func TestAlertRuleName(t *testing.T) {
	assert.Equal(t, "app-y-cpu-high", AlertRuleName("app-y", "cpu-high"))
	assert.Equal(t, AlertRuleName("app-y", "cpu-high"), AlertRuleName("APP-Y", "cpu-high"))
	assert.NotEqual(t, AlertRuleName("app-y", "cpu-high"), AlertRuleName("app-y", "memory-high"))
}
