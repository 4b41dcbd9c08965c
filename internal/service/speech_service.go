package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"eldertech/internal/dto"

	"go.uber.org/zap"
)

var (
	ErrInvalidAudio   = errors.New("invalid or unsupported audio data")
	ErrEmptyText      = errors.New("text is required")
	ErrEmptySynthesis = errors.New("speech synthesis returned no audio")
)

// Whisper rejects uploads over 25 MB.
const maxAudioBytes = 25 * 1024 * 1024

// Magic prefixes of the formats we recognize up front. Anything else is still
// sent to Whisper: absence of a known header is not proof of a bad file.
var audioHeaders = [][]byte{
	[]byte("RIFF"), // WAV
	[]byte("ID3"),  // MP3
	{0xFF, 0xFB},   // MP3
	[]byte("OggS"), // OGG
	[]byte("fLaC"), // FLAC
}

// SpeechGateway is the slice of the AI gateway the speech service needs.
type SpeechGateway interface {
	Transcribe(ctx context.Context, audio []byte, language, prompt string) (string, error)
	SynthesizeSpeech(ctx context.Context, text, voice string, speed float64) ([]byte, error)
}

type SpeechService struct {
	ai         SpeechGateway
	httpClient *http.Client
	logger     *zap.Logger
}

func NewSpeechService(ai SpeechGateway, logger *zap.Logger) *SpeechService {
	return &SpeechService{
		ai:         ai,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

// SpeechToText transcribes one uploaded audio file.
func (s *SpeechService) SpeechToText(ctx context.Context, audio []byte, language string) (*dto.TranscriptionResponse, error) {
	if !ValidateAudioFormat(audio) {
		return nil, ErrInvalidAudio
	}

	text, err := s.ai.Transcribe(ctx, audio, language, "")
	if err != nil {
		return nil, err
	}

	if language == "" {
		language = "en"
	}
	return &dto.TranscriptionResponse{
		Text:     text,
		Language: language,
	}, nil
}

// TextToSpeech synthesizes MP3 audio for the given text. Voice and speed
// sanitization happens at the gateway.
func (s *SpeechService) TextToSpeech(ctx context.Context, req *dto.TTSRequest) ([]byte, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}

	speed := req.Speed
	if speed == 0 {
		speed = 1.0
	}

	audio, err := s.ai.SynthesizeSpeech(ctx, OptimizeTextForSpeech(req.Text), req.Voice, speed)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, ErrEmptySynthesis
	}
	return audio, nil
}

// Voices lists the supported TTS voices.
func (s *SpeechService) Voices() []dto.VoiceInfo {
	return []dto.VoiceInfo{
		{ID: "alloy", Name: "Alloy", Description: "Balanced and versatile voice", Gender: "neutral"},
		{ID: "echo", Name: "Echo", Description: "Clear and professional voice", Gender: "male"},
		{ID: "fable", Name: "Fable", Description: "Warm and friendly voice", Gender: "female"},
		{ID: "onyx", Name: "Onyx", Description: "Deep and authoritative voice", Gender: "male"},
		{ID: "nova", Name: "Nova", Description: "Bright and energetic voice", Gender: "female"},
		{ID: "shimmer", Name: "Shimmer", Description: "Soft and gentle voice", Gender: "female"},
	}
}

// TranscribeURL downloads audio from a URL and transcribes it. Downloads are
// capped at the Whisper size limit.
func (s *SpeechService) TranscribeURL(ctx context.Context, url, language string) (*dto.TranscriptionResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid audio URL: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch audio: status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}

	return s.SpeechToText(ctx, audio, language)
}

// BatchFile is one entry of a batch transcription request.
type BatchFile struct {
	Name string
	Data []byte
}

// BatchTranscribe transcribes files sequentially. A failing file yields an
// error entry; it does not fail the batch.
func (s *SpeechService) BatchTranscribe(ctx context.Context, files []BatchFile) []dto.BatchTranscriptionResult {
	results := make([]dto.BatchTranscriptionResult, 0, len(files))
	for i, file := range files {
		result := dto.BatchTranscriptionResult{
			FileIndex: i,
			FileName:  file.Name,
		}

		if !ValidateAudioFormat(file.Data) {
			result.Error = ErrInvalidAudio.Error()
			results = append(results, result)
			continue
		}

		text, err := s.ai.Transcribe(ctx, file.Data, "", "")
		if err != nil {
			s.logger.Warn("Batch transcription entry failed",
				zap.Int("file_index", i),
				zap.String("file_name", file.Name),
				zap.Error(err),
			)
			result.Error = err.Error()
		} else {
			result.Text = text
			result.Success = true
		}
		results = append(results, result)
	}
	return results
}

// ValidateAudioFormat is a pre-flight check before handing audio to Whisper:
// rejects empty buffers and buffers over the 25 MB limit, accepts anything
// with a recognized header, and accepts unknown headers too.
func ValidateAudioFormat(audio []byte) bool {
	if len(audio) == 0 {
		return false
	}
	if len(audio) > maxAudioBytes {
		return false
	}
	for _, header := range audioHeaders {
		if bytes.HasPrefix(audio, header) {
			return true
		}
	}
	return true
}

// OptimizeTextForSpeech spaces out punctuation so the synthesized speech
// pauses naturally, then collapses the extra whitespace.
func OptimizeTextForSpeech(text string) string {
	optimized := strings.TrimSpace(text)
	optimized = strings.ReplaceAll(optimized, ".", ". ")
	optimized = strings.ReplaceAll(optimized, "!", "! ")
	optimized = strings.ReplaceAll(optimized, "?", "? ")
	optimized = strings.ReplaceAll(optimized, ",", ", ")
	return strings.Join(strings.Fields(optimized), " ")
}
