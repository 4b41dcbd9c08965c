package service

import (
	"context"
	"errors"
	"testing"

	"eldertech/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeSpeechGateway struct {
	transcript    string
	transcribeErr error

	audio         []byte
	synthesizeErr error

	lastText  string
	lastVoice string
	lastSpeed float64
}

func (f *fakeSpeechGateway) Transcribe(ctx context.Context, audio []byte, language, prompt string) (string, error) {
	return f.transcript, f.transcribeErr
}

func (f *fakeSpeechGateway) SynthesizeSpeech(ctx context.Context, text, voice string, speed float64) ([]byte, error) {
	f.lastText = text
	f.lastVoice = voice
	f.lastSpeed = speed
	return f.audio, f.synthesizeErr
}

func TestValidateAudioFormat(t *testing.T) {
	tests := []struct {
		name  string
		audio []byte
		want  bool
	}{
		{"empty", nil, false},
		{"wav header", []byte("RIFF....WAVE"), true},
		{"mp3 id3 header", []byte("ID3\x04data"), true},
		{"mp3 frame sync", []byte{0xFF, 0xFB, 0x90, 0x00}, true},
		{"ogg header", []byte("OggS\x00data"), true},
		{"flac header", []byte("fLaCdata"), true},
		{"unknown header still accepted", []byte("\x00\x01\x02\x03"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateAudioFormat(tt.audio))
		})
	}
}

func TestValidateAudioFormatSizeLimit(t *testing.T) {
	atLimit := make([]byte, maxAudioBytes)
	copy(atLimit, "RIFF")
	assert.True(t, ValidateAudioFormat(atLimit))

	overLimit := make([]byte, maxAudioBytes+1)
	copy(overLimit, "RIFF")
	assert.False(t, ValidateAudioFormat(overLimit))
}

func TestOptimizeTextForSpeech(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"punctuation spaced", "Hello.How are you?Fine,thanks!", "Hello. How are you? Fine, thanks!"},
		{"whitespace collapsed", "  take   your medication.  now ", "take your medication. now"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OptimizeTextForSpeech(tt.in))
		})
	}
}

func TestSpeechToText(t *testing.T) {
	gateway := &fakeSpeechGateway{transcript: "hello there"}
	svc := NewSpeechService(gateway, zaptest.NewLogger(t))

	resp, err := svc.SpeechToText(context.Background(), []byte("RIFFdata"), "")
	require.NoError(t, err)
	assert.Equal(t, "hello there", resp.Text)
	assert.Equal(t, "en", resp.Language)

	resp, err = svc.SpeechToText(context.Background(), []byte("RIFFdata"), "es")
	require.NoError(t, err)
	assert.Equal(t, "es", resp.Language)
}

func TestSpeechToTextRejectsInvalidAudio(t *testing.T) {
	svc := NewSpeechService(&fakeSpeechGateway{}, zaptest.NewLogger(t))

	_, err := svc.SpeechToText(context.Background(), nil, "en")
	assert.ErrorIs(t, err, ErrInvalidAudio)
}

func TestTextToSpeech(t *testing.T) {
	gateway := &fakeSpeechGateway{audio: []byte("mp3data")}
	svc := NewSpeechService(gateway, zaptest.NewLogger(t))

	audio, err := svc.TextToSpeech(context.Background(), &dto.TTSRequest{
		Text:  "Take your medication.Now",
		Voice: "nova",
		Speed: 1.5,
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3data"), audio)
	assert.Equal(t, "Take your medication. Now", gateway.lastText)
	assert.Equal(t, "nova", gateway.lastVoice)
	assert.Equal(t, 1.5, gateway.lastSpeed)
}

func TestTextToSpeechDefaultsSpeed(t *testing.T) {
	gateway := &fakeSpeechGateway{audio: []byte("mp3data")}
	svc := NewSpeechService(gateway, zaptest.NewLogger(t))

	_, err := svc.TextToSpeech(context.Background(), &dto.TTSRequest{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, gateway.lastSpeed)
}

func TestTextToSpeechEmptyText(t *testing.T) {
	svc := NewSpeechService(&fakeSpeechGateway{}, zaptest.NewLogger(t))

	_, err := svc.TextToSpeech(context.Background(), &dto.TTSRequest{Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestTextToSpeechEmptySynthesis(t *testing.T) {
	svc := NewSpeechService(&fakeSpeechGateway{audio: nil}, zaptest.NewLogger(t))

	_, err := svc.TextToSpeech(context.Background(), &dto.TTSRequest{Text: "hello"})
	assert.ErrorIs(t, err, ErrEmptySynthesis)
}

func TestBatchTranscribe(t *testing.T) {
	gateway := &fakeSpeechGateway{transcript: "transcribed"}
	svc := NewSpeechService(gateway, zaptest.NewLogger(t))

	results := svc.BatchTranscribe(context.Background(), []BatchFile{
		{Name: "a.wav", Data: []byte("RIFFdata")},
		{Name: "empty.wav", Data: nil},
		{Name: "b.mp3", Data: []byte("ID3data")},
	})
	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.Equal(t, "transcribed", results[0].Text)
	assert.Equal(t, 0, results[0].FileIndex)

	assert.False(t, results[1].Success)
	assert.Equal(t, ErrInvalidAudio.Error(), results[1].Error)
	assert.Equal(t, 1, results[1].FileIndex)

	assert.True(t, results[2].Success)
	assert.Equal(t, "b.mp3", results[2].FileName)
}

func TestBatchTranscribeContinuesAfterFailure(t *testing.T) {
	gateway := &fakeSpeechGateway{transcribeErr: errors.New("whisper unavailable")}
	svc := NewSpeechService(gateway, zaptest.NewLogger(t))

	results := svc.BatchTranscribe(context.Background(), []BatchFile{
		{Name: "a.wav", Data: []byte("RIFFdata")},
		{Name: "b.wav", Data: []byte("RIFFdata")},
	})
	require.Len(t, results, 2)
	for _, result := range results {
		assert.False(t, result.Success)
		assert.Equal(t, "whisper unavailable", result.Error)
	}
}

func TestVoices(t *testing.T) {
	svc := NewSpeechService(&fakeSpeechGateway{}, zaptest.NewLogger(t))

	voices := svc.Voices()
	require.Len(t, voices, 6)

	ids := make([]string, 0, len(voices))
	for _, voice := range voices {
		ids = append(ids, voice.ID)
	}
	assert.Equal(t, []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}, ids)
}
