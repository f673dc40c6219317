package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ValidateMessageText validates an inbound customer message.
func ValidateMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("message text cannot be empty")
	}
	if len(text) > 4096 {
		return errors.New("message text exceeds maximum length")
	}
	if !utf8.ValidString(text) {
		return errors.New("message text must be valid UTF-8")
	}
	return nil
}

// ValidateCustomerID validates a customer identifier (a phone number or
// any stable opaque ID supplied by the channel).
func ValidateCustomerID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("customer ID cannot be empty")
	}
	if len(id) > 64 {
		return errors.New("customer ID exceeds maximum length")
	}
	if !utf8.ValidString(id) {
		return errors.New("customer ID must be valid UTF-8")
	}
	return nil
}
