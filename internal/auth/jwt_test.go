package auth

import "testing"

func TestSignVerifyRoundTrip(t *testing.T) {
	j := NewJWT("test-secret")

	token, err := j.Sign("user-123")
	if err != nil {
		t.Fatal(err)
	}
	got, err := j.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if got != "user-123" {
		t.Errorf("subject = %q, want user-123", got)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewJWT("secret-a").Sign("user-123")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewJWT("secret-b").Verify(token); err == nil {
		t.Error("token signed with a different secret verified")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	j := NewJWT("test-secret")
	for _, tok := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		if _, err := j.Verify(tok); err == nil {
			t.Errorf("garbage token %q verified", tok)
		}
	}
}
