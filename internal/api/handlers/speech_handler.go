package handlers

import (
	"errors"
	"io"
	"mime/multipart"

	"eldertech/internal/dto"
	"eldertech/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SpeechHandler struct {
	speechService *service.SpeechService
	logger        *zap.Logger
}

func NewSpeechHandler(speechService *service.SpeechService, logger *zap.Logger) *SpeechHandler {
	return &SpeechHandler{
		speechService: speechService,
		logger:        logger,
	}
}

// SpeechToText godoc
// @Summary Convert an uploaded audio file to text
// @Tags whisper
// @Accept mpfd
// @Produce json
// @Security Bearer
// @Param audio_file formData file true "Audio file"
// @Success 200 {object} dto.TranscriptionResponse
// @Failure 400 {object} map[string]string
// @Router /api/whisper/speech-to-text [post]
func (h *SpeechHandler) SpeechToText(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("audio_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "audio_file is required",
		})
	}

	audio, err := readUpload(fileHeader)
	if err != nil {
		h.logger.Error("Failed to read upload", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read audio file",
		})
	}

	resp, err := h.speechService.SpeechToText(c.Context(), audio, c.FormValue("language"))
	if err != nil {
		return h.speechError(c, err, "Error processing audio")
	}

	return c.JSON(resp)
}

// TextToSpeech godoc
// @Summary Convert text to speech
// @Tags whisper
// @Accept json
// @Produce octet-stream
// @Security Bearer
// @Param request body dto.TTSRequest true "TTS request"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/whisper/text-to-speech [post]
func (h *SpeechHandler) TextToSpeech(c *fiber.Ctx) error {
	var req dto.TTSRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	audio, err := h.speechService.TextToSpeech(c.Context(), &req)
	if err != nil {
		return h.speechError(c, err, "Error generating speech")
	}

	c.Set(fiber.HeaderContentType, "audio/mpeg")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="speech.mp3"`)
	return c.Send(audio)
}

// Voices godoc
// @Summary List available TTS voices
// @Tags whisper
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string][]dto.VoiceInfo
// @Router /api/whisper/voices [get]
func (h *SpeechHandler) Voices(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"voices": h.speechService.Voices(),
	})
}

// TranscribeURL godoc
// @Summary Transcribe audio fetched from a URL
// @Tags whisper
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.TranscribeURLRequest true "URL request"
// @Success 200 {object} dto.TranscriptionResponse
// @Failure 400 {object} map[string]string
// @Router /api/whisper/transcribe-url [post]
func (h *SpeechHandler) TranscribeURL(c *fiber.Ctx) error {
	var req dto.TranscribeURLRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "url is required",
		})
	}

	resp, err := h.speechService.TranscribeURL(c.Context(), req.URL, req.Language)
	if err != nil {
		return h.speechError(c, err, "Error transcribing from URL")
	}

	return c.JSON(resp)
}

// BatchTranscribe godoc
// @Summary Transcribe multiple audio files
// @Tags whisper
// @Accept mpfd
// @Produce json
// @Security Bearer
// @Param audio_files formData file true "Audio files"
// @Success 200 {object} map[string][]dto.BatchTranscriptionResult
// @Failure 400 {object} map[string]string
// @Router /api/whisper/batch-transcribe [post]
func (h *SpeechHandler) BatchTranscribe(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid multipart form",
		})
	}

	fileHeaders := form.File["audio_files"]
	if len(fileHeaders) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "audio_files is required",
		})
	}

	files := make([]service.BatchFile, 0, len(fileHeaders))
	for _, fileHeader := range fileHeaders {
		data, err := readUpload(fileHeader)
		if err != nil {
			h.logger.Error("Failed to read upload",
				zap.String("file_name", fileHeader.Filename),
				zap.Error(err),
			)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Failed to read audio file " + fileHeader.Filename,
			})
		}
		files = append(files, service.BatchFile{
			Name: fileHeader.Filename,
			Data: data,
		})
	}

	return c.JSON(fiber.Map{
		"results": h.speechService.BatchTranscribe(c.Context(), files),
	})
}

func (h *SpeechHandler) speechError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrInvalidAudio),
		errors.Is(err, service.ErrEmptyText):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrEmptySynthesis):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		h.logger.Error(fallback, zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fallback,
		})
	}
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
