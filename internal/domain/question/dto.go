package question

// AskRequest creates a question. PictureURL is set by the handler after a
// successful upload, not by the client directly.
type AskRequest struct {
	Title      string `json:"title" validate:"required,min=3,max=200"`
	Content    string `json:"content" validate:"required,min=3,max=5000"`
	PictureURL string `json:"pictureUrl" validate:"omitempty,url"`
}

type AnswerRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=5000"`
	IsPublic bool   `json:"isPublic"`
}

type ListResponse struct {
	Total     int         `json:"total"`
	Questions []*Question `json:"questions"`
}
