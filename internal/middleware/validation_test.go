package middleware

import (
	"strings"
	"testing"
)

func TestValidateMessageText(t *testing.T) {
	if err := ValidateMessageText("quero um X-Python"); err != nil {
		t.Fatalf("valid text rejected: %v", err)
	}

	cases := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace only", "   \t"},
		{"too long", strings.Repeat("a", 4097)},
		{"invalid utf8", string([]byte{0xff, 0xfe})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateMessageText(tc.text); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidateCustomerID(t *testing.T) {
	if err := ValidateCustomerID("+5511999998888"); err != nil {
		t.Fatalf("valid ID rejected: %v", err)
	}

	cases := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"whitespace only", " "},
		{"too long", strings.Repeat("9", 65)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateCustomerID(tc.id); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
