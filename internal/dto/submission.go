package dto

// SubmissionRequest is the JSON body of POST /classify.
type SubmissionRequest struct {
	ImagePaths []string `json:"image_paths"`
	CreateBy   string   `json:"create_by"`
	CreateDt   string   `json:"create_dt,omitempty"`
	UpdateDt   string   `json:"update_dt,omitempty"`
	UpdateBy   string   `json:"update_by,omitempty"`
	AffectedDt string   `json:"affected_dt,omitempty"`
}

// SubmissionResponse is returned once a document has been stored.
type SubmissionResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Status  string `json:"status"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
