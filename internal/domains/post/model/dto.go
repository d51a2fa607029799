package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// PostRequest is the body of both create and update.
type PostRequest struct {
	Content         string  `json:"content" binding:"required"`
	LinkURL         *string `json:"link_url"`
	LinkTitle       *string `json:"link_title"`
	LinkDescription *string `json:"link_description"`
	LinkImageURL    *string `json:"link_image_url"`
}

func (r *PostRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	return validation.ValidateStruct(r,
		validation.Field(&r.Content, validation.Required, validation.RuneLength(1, MaxContentLength)),
		validation.Field(&r.LinkURL, validation.NilOrNotEmpty, is.URL),
		validation.Field(&r.LinkTitle, validation.NilOrNotEmpty, validation.RuneLength(0, 300)),
		validation.Field(&r.LinkDescription, validation.NilOrNotEmpty, validation.RuneLength(0, 1000)),
		validation.Field(&r.LinkImageURL, validation.NilOrNotEmpty, is.URL),
	)
}

// Apply copies the request onto p.
func (r PostRequest) Apply(p *Post) {
	p.Content = r.Content
	p.LinkURL = r.LinkURL
	p.LinkTitle = r.LinkTitle
	p.LinkDescription = r.LinkDescription
	p.LinkImageURL = r.LinkImageURL
}

type ReactRequest struct {
	ReactionType string `json:"reaction_type" binding:"required"`
}

func (r ReactRequest) Validate() error {
	types := make([]interface{}, len(ReactionTypes))
	for i, t := range ReactionTypes {
		types[i] = t
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.ReactionType, validation.Required, validation.In(types...)),
	)
}

// UploadInput is one multipart file handed from the handler.
type UploadInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

var allowedAttachmentTypes = map[string]string{
	"image/jpeg":         "jpg",
	"image/png":          "png",
	"application/pdf":    "pdf",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
}

// AttachmentExtension returns the stored extension for an allowed content type.
func AttachmentExtension(contentType string) (string, bool) {
	ext, ok := allowedAttachmentTypes[contentType]
	return ext, ok
}
