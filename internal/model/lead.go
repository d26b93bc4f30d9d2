package model

// Lead is a pre-purchase contact attempt. CreatedAt is epoch seconds.
type Lead struct {
	ID        string
	Name      string
	Email     string
	Phone     *string
	Message   *string
	Source    string
	CreatedAt int64
}

// SubmitLeadRequest is the DTO for POST /submit-lead.
type SubmitLeadRequest struct {
	Name    string `json:"name" validate:"required,notblank"`
	Email   string `json:"email" validate:"required,notblank"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Source  string `json:"source"`
}
