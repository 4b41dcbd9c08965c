package dto

type TTSRequest struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice,omitempty"`
	Speed float64 `json:"speed,omitempty"`
}

type TranscriptionResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type TranscribeURLRequest struct {
	URL      string `json:"url"`
	Language string `json:"language,omitempty"`
}

type VoiceInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Gender      string `json:"gender"`
}

type BatchTranscriptionResult struct {
	FileIndex int    `json:"file_index"`
	FileName  string `json:"file_name"`
	Text      string `json:"text"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}
