package report

import "github.com/google/uuid"

type CreateRequest struct {
	TargetType TargetType `json:"targetType" validate:"required,target_type"`
	TargetID   uuid.UUID  `json:"targetId" validate:"required"`
	Reason     string     `json:"reason" validate:"required,min=3,max=2000"`
}

type ResolveRequest struct {
	Status     Status `json:"status" validate:"required,oneof=resolved dismissed"`
	Resolution string `json:"resolution" validate:"omitempty,max=2000"`
}

type ListResponse struct {
	Total   int       `json:"total"`
	Reports []*Report `json:"reports"`
}
