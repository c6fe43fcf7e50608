package sender

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"deadline", fmt.Errorf("send: %w", context.DeadlineExceeded), "timeout"},
		{"dns", &net.DNSError{Err: "no such host", Name: "api.telegram.org"}, "dns"},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, "dial"},
		{"net timeout", timeoutErr{}, "timeout"},
		{"server error in message", errors.New("telegram: internal error (502)"), "http_5xx"},
		{"client error in message", errors.New("telegram: Bad Request: chat not found (400)"), "http_4xx"},
		{"opaque", errors.New("boom"), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, classifyError(tt.err))
		})
	}
}

func TestSanitizeErrorMessageRedactsToken(t *testing.T) {
	t.Parallel()
	err := errors.New(`Post "https://api.telegram.org/bot123456:AAbb-cc_DD/sendMessage": dial tcp: timeout`)
	got := sanitizeErrorMessage(err)
	assert.NotContains(t, got, "123456:AAbb")
	assert.Contains(t, got, "bot<redacted>")
	assert.Empty(t, sanitizeErrorMessage(nil))
}

func TestIsNotModified(t *testing.T) {
	t.Parallel()
	assert.True(t, isNotModified(errors.New("telegram: Bad Request: message is not modified: specified new message content and reply markup are exactly the same (400)")))
	assert.False(t, isNotModified(errors.New("telegram: Bad Request: message to edit not found (400)")))
	assert.False(t, isNotModified(nil))
}
