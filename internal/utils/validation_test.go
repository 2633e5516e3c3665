package utils

import (
	"strings"
	"testing"
)

func TestFormatValidationError(t *testing.T) {
	type form struct {
		Email  string `validate:"required,email"`
		Status string `validate:"omitempty,oneof=collected processing ready"`
	}

	cases := []struct {
		name  string
		input form
		wants []string
	}{
		{"missing required field", form{}, []string{"Email is required"}},
		{"malformed email", form{Email: "not-an-email"}, []string{"must be a valid email address"}},
		{"value outside enum", form{Email: "a@b.c", Status: "done"}, []string{"must be one of: collected processing ready"}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			msg := FormatValidationError(err)
			for _, want := range tt.wants {
				if !strings.Contains(msg, want) {
					t.Fatalf("message %q missing %q", msg, want)
				}
			}
		})
	}

	if err := Validate(form{Email: "a@b.c", Status: "ready"}); err != nil {
		t.Fatalf("valid struct rejected: %v", err)
	}
}
