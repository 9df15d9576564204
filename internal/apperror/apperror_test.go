package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstructorsClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		sentinel error
		code     string
	}{
		{name: "validation", err: Validation("missing_language", "language is required"), sentinel: ErrValidation, code: "missing_language"},
		{name: "not found", err: NotFound("paper_not_found", "no such paper"), sentinel: ErrNotFound, code: "paper_not_found"},
		{name: "too large", err: TooLarge("payload_too_large", "file too large"), sentinel: ErrPayloadTooLarge, code: "payload_too_large"},
		{name: "unavailable", err: Unavailable("oauth_unavailable", "oauth not configured"), sentinel: ErrUnavailable, code: "oauth_unavailable"},
		{name: "upgrade required", err: UpgradeRequired("upgrade_required", "websocket upgrade required"), sentinel: ErrUpgradeRequired, code: "upgrade_required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false", tt.err)
			}
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Error() != tt.err.Message {
				t.Errorf("Error() = %q, want Message %q", tt.err.Error(), tt.err.Message)
			}
		})
	}
}

func TestWrappedAppErrorSurvivesChain(t *testing.T) {
	inner := Validation("invalid_file_type", "submission must be a .zip archive")
	wrapped := fmt.Errorf("handling upload: %w", inner)

	if !errors.Is(wrapped, ErrValidation) {
		t.Error("errors.Is lost the sentinel through wrapping")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As failed to extract *AppError")
	}
	if appErr.Code != "invalid_file_type" {
		t.Errorf("Code = %q, want %q", appErr.Code, "invalid_file_type")
	}
}
