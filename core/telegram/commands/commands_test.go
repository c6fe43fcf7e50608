package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"/start", "/start", true},
		{"  /menu  ", "/menu", true},
		{"/start@pagerbot", "/start", true},
		{"/START payload", "/start", true},
		{"/", "", false},
		{"/@pagerbot", "", false},
		{"start", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.text)
		assert.Equal(t, tt.wantOK, ok, "text %q", tt.text)
		assert.Equal(t, tt.want, got, "text %q", tt.text)
	}
}
