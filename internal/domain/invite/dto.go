package invite

type SendRequest struct {
	FriendEmail string `json:"friendEmail" validate:"required,email"`
}

type ListResponse struct {
	Total   int       `json:"total"`
	Invites []*Invite `json:"invites"`
}
