package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ChatRequest is the structured orchestrator entry point consumed by the
// transport layer.
type ChatRequest struct {
	ResumeVersionID *uuid.UUID `json:"resume_version_id,omitempty"`
	JobDescription  string     `json:"job_description,omitempty"`
	CompanyName     string     `json:"company_name,omitempty"`
	CompanyURL      string     `json:"company_url,omitempty" validate:"omitempty,url"`
	Role            string     `json:"role,omitempty"`
	UserMessage     string     `json:"user_message"`
}

// NaturalChatRequest is the natural-language entry point. ConversationID is
// accepted for transport compatibility but each call is stateless.
type NaturalChatRequest struct {
	ResumeVersionID uuid.UUID `json:"resume_version_id" validate:"required"`
	UserMessage     string    `json:"user_message" validate:"required,min=1"`
	ConversationID  string    `json:"conversation_id,omitempty"`
}

// ApplyEditsRequest asks the edit applicator to produce a new resume version.
type ApplyEditsRequest struct {
	ResumeID      uuid.UUID `json:"resume_id" validate:"required"`
	BaseVersionID uuid.UUID `json:"base_version_id" validate:"required"`
	Edits         []Edit    `json:"edits" validate:"required,min=1,dive"`
}

// UploadResumeRequest creates a resume with its initial version from plain
// text. File parsing into text happens upstream of this core.
type UploadResumeRequest struct {
	Name string `json:"name,omitempty"`
	Text string `json:"text" validate:"required,min=1"`
}

// Validate validates the ChatRequest using the validator.
func (r *ChatRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the NaturalChatRequest using the validator.
func (r *NaturalChatRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ApplyEditsRequest using the validator.
func (r *ApplyEditsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UploadResumeRequest using the validator.
func (r *UploadResumeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
