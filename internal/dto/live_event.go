package dto

// LiveEvent is pushed to websocket viewers after a submission is stored.
type LiveEvent struct {
	DocumentID string `json:"document_id"`
	CreateBy   string `json:"create_by"`
	Timestamp  string `json:"timestamp"`
}
