// Package naming derives resource names from the application name.
// Derivation is deterministic so that re-runs find existing resources
// instead of duplicating them.
package naming

import "strings"

// Names holds the derived resource names for one application
type Names struct {
	Workspace         string
	Telemetry         string
	NotificationGroup string
	// ShortName is the compact notification-group label (12 chars max)
	ShortName string
}

// Derive computes resource names for an application. Pure and total for a
// non-empty application name: same input, same output.
func Derive(application string) Names {
	app := strings.ToLower(strings.TrimSpace(application))
	return Names{
		Workspace:         app + "-logs",
		Telemetry:         app + "-insights",
		NotificationGroup: app + "-alerts",
		ShortName:         shorten(app, 12),
	}
}

// AlertRuleName names one alert rule for an application
func AlertRuleName(application, ruleKey string) string {
	return strings.ToLower(strings.TrimSpace(application)) + "-" + ruleKey
}

func shorten(s string, max int) string {
	// Truncate on runes so multi-byte names are never cut mid-character
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
