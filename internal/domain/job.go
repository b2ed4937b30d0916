package domain

import (
	"encoding/json"
	"fmt"
)

// ActionGenerateDocument is the only action the pipeline handles
const ActionGenerateDocument = "generate_document"

// JobMessageContentType is the content type of published job messages
const JobMessageContentType = "application/json"

// JobMessage is the payload carried through the queue
type JobMessage struct {
	ID     int64  `json:"id"`
	Action string `json:"action"`
	Title  string `json:"title"`
}

// NewDocumentJob builds the generation job for a persisted record
func NewDocumentJob(rec *Record) JobMessage {
	return JobMessage{
		ID:     rec.ID,
		Action: ActionGenerateDocument,
		Title:  rec.Title,
	}
}

// Encode serializes the message body
func (m JobMessage) Encode() ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job message: %w", err)
	}
	return body, nil
}

// DecodeJobMessage parses a message body and checks the record id
func DecodeJobMessage(body []byte) (JobMessage, error) {
	var msg JobMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return JobMessage{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if msg.ID <= 0 {
		return msg, fmt.Errorf("%w: missing or non-positive id", ErrInvalidMessage)
	}
	return msg, nil
}
