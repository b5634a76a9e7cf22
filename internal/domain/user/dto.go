package user

type UpdateProfileRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=100"`
	AboutMe *string `json:"aboutMe" validate:"omitempty,max=1000"`
}

type BanRequest struct {
	Banned bool `json:"banned"`
}

type ListResponse struct {
	Total int     `json:"total"`
	Users []*User `json:"users"`
}
