package dto

// ProcessDocumentMessage is the job payload published for each accepted
// submission. The document travels as the serialized working copy so the
// worker never re-validates client input.
type ProcessDocumentMessage struct {
	SessionId  string   `json:"session_id"`
	XmlContent string   `json:"xml_content"`
	Elements   string   `json:"elements"`
	Threshold  *float64 `json:"threshold,omitempty"`
}

// SubmitDocumentRequest carries the query parameters of a submission. The
// element-name syntax itself is checked by the service.
type SubmitDocumentRequest struct {
	Elements  string   `query:"elements" validate:"required"`
	Threshold *float64 `query:"threshold" validate:"omitempty,gt=0,lte=1"`
}

type SubmissionResponse struct {
	SessionId string `json:"session_id"`
}
