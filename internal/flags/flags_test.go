package flags

import "testing"

func TestDefaults(t *testing.T) {
	svc := &Service{}
	got := svc.Flags("u1")

	want := map[string]bool{
		Billing:         false,
		Notifications:   false,
		LineIntegration: false,
		Community:       false,
		ProfileDetails:  true,
		Completions:     false,
	}
	for name, v := range want {
		if got[name] != v {
			t.Errorf("%s = %v, want %v", name, got[name], v)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FEATURE_FLAG_COMMUNITY", "true")
	t.Setenv("FEATURE_FLAG_NOTIFICATIONS", " TRUE ")
	t.Setenv("FEATURE_FLAG_PROFILE_DETAILS", "false")
	t.Setenv("FEATURE_FLAG_BILLING", "yes")

	got := (&Service{}).Flags("u1")

	if !got[Community] {
		t.Error("community should be on")
	}
	if !got[Notifications] {
		t.Error("notifications should tolerate whitespace and case")
	}
	if got[ProfileDetails] {
		t.Error("profile_details explicit false should win over the default")
	}
	if got[Billing] {
		t.Error(`only "true" enables a flag`)
	}
}
