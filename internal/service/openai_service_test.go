package service

import (
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVoice(t *testing.T) {
	tests := []struct {
		in   string
		want openai.SpeechVoice
	}{
		{"alloy", openai.VoiceAlloy},
		{"echo", openai.VoiceEcho},
		{"fable", openai.VoiceFable},
		{"onyx", openai.VoiceOnyx},
		{"nova", openai.VoiceNova},
		{"shimmer", openai.VoiceShimmer},
		{"robot", openai.VoiceAlloy},
		{"", openai.VoiceAlloy},
		{"Alloy", openai.VoiceAlloy},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeVoice(tt.in), "voice %q", tt.in)
	}
}

func TestNormalizeSpeed(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.0, 1.0},
		{0.25, 0.25},
		{4.0, 4.0},
		{0.24, 1.0},
		{4.01, 1.0},
		{0, 1.0},
		{-1, 1.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSpeed(tt.in), "speed %v", tt.in)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		open    byte
		closing byte
		want    string
		ok      bool
	}{
		{"bare object", `{"sentiment":"neutral"}`, '{', '}', `{"sentiment":"neutral"}`, true},
		{"fenced object", "```json\n{\"a\":1}\n```", '{', '}', `{"a":1}`, true},
		{"prose around array", `Here you go: [{"entity":"x"}] hope it helps`, '[', ']', `[{"entity":"x"}]`, true},
		{"no json", "sorry, I cannot do that", '{', '}', "", false},
		{"reversed delimiters", "} nothing {", '{', '}', "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSON(tt.content, tt.open, tt.closing)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
