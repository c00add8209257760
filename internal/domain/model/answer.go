package model

import "time"

// Attachment records one uploaded evidence file as persisted with an answer.
type Attachment struct {
	Filename   string    `json:"filename"`
	GCSPath    string    `json:"gcs_path"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Answer is a founder's reply to one investor question.
type Answer struct {
	QuestionID  string       `json:"question_id"`
	AnswerText  string       `json:"answer_text"`
	Attachments []Attachment `json:"attachments"`
}

// BulkAnswerResult is the backend's per-question outcome.
type BulkAnswerResult struct {
	QuestionID string `json:"question_id"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// BulkAnswerReceipt summarizes a bulk submission. Failed counts questions the
// backend rejected; partial success is a normal outcome, not an error.
type BulkAnswerReceipt struct {
	Failed              int                `json:"failed"`
	Message             string             `json:"message"`
	ReanalysisTriggered bool               `json:"reanalysis_triggered,omitempty"`
	Results             []BulkAnswerResult `json:"results"`
}
