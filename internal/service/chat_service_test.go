package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short message kept verbatim", "How do I set a reminder?", "How do I set a reminder?"},
		{"whitespace collapsed", "  what   time\nis it  ", "what time is it"},
		{"empty message", "   ", "New conversation"},
		{
			"long message truncated with ellipsis",
			strings.Repeat("blood pressure ", 10),
			"blood pressure blood pressure blood pressure blood...",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTitle(tt.content))
		})
	}
}

func TestDeriveTitleLength(t *testing.T) {
	title := DeriveTitle(strings.Repeat("a", 200))
	assert.LessOrEqual(t, len(title), conversationTitleLimit+len("..."))
	assert.True(t, strings.HasSuffix(title, "..."))
}
