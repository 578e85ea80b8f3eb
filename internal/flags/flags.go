package flags

import (
	"os"
	"strings"
)

// Feature flag names as served to clients.
const (
	Billing         = "billing"
	Notifications   = "notifications"
	LineIntegration = "line_integration"
	Community       = "community"
	ProfileDetails  = "profile_details"
	Completions     = "completions"
)

// Service reads flag values from the environment on every call so a
// redeploy-free toggle is a matter of changing the process env. A real
// rollout system would sit behind the same method.
type Service struct{}

func (s *Service) Flags(_ string) map[string]bool {
	return map[string]bool{
		Billing:         readFlag("FEATURE_FLAG_BILLING", false),
		Notifications:   readFlag("FEATURE_FLAG_NOTIFICATIONS", false),
		LineIntegration: readFlag("FEATURE_FLAG_LINE_INTEGRATION", false),
		Community:       readFlag("FEATURE_FLAG_COMMUNITY", false),
		ProfileDetails:  readFlag("FEATURE_FLAG_PROFILE_DETAILS", true),
		Completions:     readFlag("FEATURE_FLAG_COMPLETIONS", false),
	}
}

func readFlag(env string, fallback bool) bool {
	raw, ok := os.LookupEnv(env)
	if !ok {
		return fallback
	}
	return strings.ToLower(strings.TrimSpace(raw)) == "true"
}
