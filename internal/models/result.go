package models

type UploadResponse struct {
	ID           string `json:"id"`
	DocumentID   string `json:"document_id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
}

type CandidateListResponse struct {
	Query      string      `json:"query,omitempty"`
	Count      int         `json:"count"`
	Candidates []Candidate `json:"candidates"`
}

type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}
