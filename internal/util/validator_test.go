package util

import "testing"

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Reader@Example.COM "); got != "reader@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestValidateEmail_Valid(t *testing.T) {
	testCases := []string{
		"a@x.com",
		"reader@example.com",
		"first.last@sub.example.org",
	}

	for _, email := range testCases {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q) error = %v, want nil", email, err)
		}
	}
}

func TestValidateEmail_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"not-an-email",
		"@example.com",
		"user@",
		"user @example.com",
	}

	for _, email := range testCases {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("ValidateEmail(%q) error = nil, want error", email)
		}
	}
}

func TestValidatePassword_Valid(t *testing.T) {
	testCases := []string{
		"Abc123$x",
		"Str0ng&Password",
		"xY9_aaaa",
	}

	for _, pwd := range testCases {
		if err := ValidatePassword(pwd); err != nil {
			t.Errorf("ValidatePassword(%q) error = %v, want nil", pwd, err)
		}
	}
}

func TestValidatePassword_Invalid(t *testing.T) {
	testCases := map[string]string{
		"too short":      "Ab1$x",
		"missing upper":  "abc123$xyz",
		"missing lower":  "ABC123$XYZ",
		"missing digit":  "Abcdef$xyz",
		"missing symbol": "Abc123xyz",
		"symbol not in fixed set": "Abc123xy~",
	}

	for name, pwd := range testCases {
		if err := ValidatePassword(pwd); err == nil {
			t.Errorf("%s: ValidatePassword(%q) error = nil, want error", name, pwd)
		}
	}
}

func TestValidateDate(t *testing.T) {
	if _, err := ValidateDate("2024-06-15"); err != nil {
		t.Errorf("valid date rejected: %v", err)
	}
	for _, bad := range []string{"", "15-06-2024", "2024/06/15", "not-a-date"} {
		if _, err := ValidateDate(bad); err == nil {
			t.Errorf("ValidateDate(%q) error = nil, want error", bad)
		}
	}
}
