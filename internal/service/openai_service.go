package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"eldertech/internal/models"
	"eldertech/pkg/config"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	maxRetries     = 3
	initialBackoff = 500 * time.Millisecond
)

var validVoices = map[string]openai.SpeechVoice{
	"alloy":   openai.VoiceAlloy,
	"echo":    openai.VoiceEcho,
	"fable":   openai.VoiceFable,
	"onyx":    openai.VoiceOnyx,
	"nova":    openai.VoiceNova,
	"shimmer": openai.VoiceShimmer,
}

// OpenAIService wraps the chat completion, transcription and speech synthesis
// calls. Every operation returns an explicit error so callers can tell an
// empty result from a failed one; transient failures are retried up to
// maxRetries with doubling backoff.
type OpenAIService struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIService(cfg *config.OpenAIConfig, logger *zap.Logger) *OpenAIService {
	return &OpenAIService{
		client: openai.NewClient(cfg.APIKey),
		model:  cfg.Model,
		logger: logger,
	}
}

// ChatComplete runs a single completion over the full message history supplied
// by the caller (system prompt, trailing window, user turn).
func (s *OpenAIService) ChatComplete(ctx context.Context, messages []openai.ChatCompletionMessage, maxTokens int, temperature float32) (string, error) {
	var content string
	err := s.withRetry(ctx, "chat completion", func() error {
		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       s.model,
			Messages:    messages,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no choices in completion response")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	return content, nil
}

// AnalyzeSentiment classifies text as positive, negative or neutral with a
// confidence in [0,1]. Labels outside the three are normalized to neutral.
func (s *OpenAIService) AnalyzeSentiment(ctx context.Context, text string) (models.Sentiment, error) {
	var sentiment models.Sentiment
	err := s.withRetry(ctx, "sentiment analysis", func() error {
		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "Analyze the sentiment of the following text. Return only a JSON object with 'sentiment' (positive/negative/neutral) and 'confidence' (0-1).",
				},
				{Role: openai.ChatMessageRoleUser, Content: text},
			},
			MaxTokens:   100,
			Temperature: 0.1,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no choices in completion response")
		}

		payload, ok := extractJSON(resp.Choices[0].Message.Content, '{', '}')
		if !ok {
			return fmt.Errorf("no JSON object in sentiment response")
		}
		return json.Unmarshal([]byte(payload), &sentiment)
	})
	if err != nil {
		return models.Sentiment{}, fmt.Errorf("failed to analyze sentiment: %w", err)
	}

	switch sentiment.Sentiment {
	case "positive", "negative", "neutral":
	default:
		sentiment.Sentiment = "neutral"
	}
	return sentiment, nil
}

// ExtractEntities pulls named entities (people, places, dates, medical terms)
// out of text.
func (s *OpenAIService) ExtractEntities(ctx context.Context, text string) ([]models.Entity, error) {
	var entities []models.Entity
	err := s.withRetry(ctx, "entity extraction", func() error {
		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "Extract named entities (people, places, dates, medical terms) from the text. Return as JSON array of objects with 'entity', 'type', and 'confidence'.",
				},
				{Role: openai.ChatMessageRoleUser, Content: text},
			},
			MaxTokens:   200,
			Temperature: 0.1,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no choices in completion response")
		}

		payload, ok := extractJSON(resp.Choices[0].Message.Content, '[', ']')
		if !ok {
			return fmt.Errorf("no JSON array in entity response")
		}
		entities = nil
		return json.Unmarshal([]byte(payload), &entities)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract entities: %w", err)
	}
	return entities, nil
}

// SynthesizeSpeech renders text as MP3 audio. An unknown voice falls back to
// alloy and an out-of-range speed resets to 1.0, silently.
func (s *OpenAIService) SynthesizeSpeech(ctx context.Context, text, voice string, speed float64) ([]byte, error) {
	var audio []byte
	err := s.withRetry(ctx, "speech synthesis", func() error {
		resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
			Model: openai.TTSModel1,
			Input: text,
			Voice: NormalizeVoice(voice),
			Speed: NormalizeSpeed(speed),
		})
		if err != nil {
			return err
		}
		defer resp.Close()

		audio, err = io.ReadAll(resp)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	return audio, nil
}

// Transcribe converts audio to text with Whisper. Language is an optional
// hint; prompt biases the transcription toward expected vocabulary.
func (s *OpenAIService) Transcribe(ctx context.Context, audio []byte, language, prompt string) (string, error) {
	var text string
	err := s.withRetry(ctx, "transcription", func() error {
		resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    openai.Whisper1,
			FilePath: "audio.wav",
			Reader:   bytes.NewReader(audio),
			Language: language,
			Prompt:   prompt,
		})
		if err != nil {
			return err
		}
		text = resp.Text
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}
	return text, nil
}

func (s *OpenAIService) withRetry(ctx context.Context, op string, fn func() error) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}
		s.logger.Warn("OpenAI call failed, retrying",
			zap.String("operation", op),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
	return err
}

// NormalizeVoice maps a requested voice onto the supported set, substituting
// alloy for anything unrecognized.
func NormalizeVoice(voice string) openai.SpeechVoice {
	if v, ok := validVoices[voice]; ok {
		return v
	}
	return openai.VoiceAlloy
}

// NormalizeSpeed clamps nothing: any speed outside [0.25, 4.0] resets to 1.0.
func NormalizeSpeed(speed float64) float64 {
	if speed < 0.25 || speed > 4.0 {
		return 1.0
	}
	return speed
}

// extractJSON finds the outermost open..close span in a completion that may be
// wrapped in markdown fences or prose.
func extractJSON(content string, open, closing byte) (string, bool) {
	content = strings.TrimSpace(content)
	start := strings.IndexByte(content, open)
	end := strings.LastIndexByte(content, closing)
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return content[start : end+1], true
}
