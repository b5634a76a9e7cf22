package mail

import "github.com/google/uuid"

type SendRequest struct {
	RecipientID uuid.UUID `json:"recipientId" validate:"required"`
	Subject     string    `json:"subject" validate:"required,min=1,max=200"`
	Body        string    `json:"body" validate:"required,min=1,max=10000"`
}

type ListResponse struct {
	Total    int        `json:"total"`
	Messages []*Message `json:"messages"`
}
