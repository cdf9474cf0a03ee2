package dto

// ChatReply is the assistant's answer to one chat turn.
type ChatReply struct {
	SessionID   uint   `json:"session_id"`
	Message     string `json:"message"`
	MessageHTML string `json:"message_html"`
}

// JobAnalysis is the structured extraction of a job posting.
type JobAnalysis struct {
	Fields map[string]any `json:"fields"`
}

// CoverLetterDraft is a generated cover letter in both raw and rendered
// form.
type CoverLetterDraft struct {
	Content     string `json:"content"`
	ContentHTML string `json:"content_html"`
}
