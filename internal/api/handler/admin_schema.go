package handler

import "github.com/linewatch/xray-monitor/internal/core/domain"

type updateUserRequest struct {
	Role   string `json:"role"   validate:"omitempty,oneof=user admin"`
	Status string `json:"status" validate:"omitempty,oneof=pending approved blocked"`
}

type userListResponse struct {
	Data []domain.Profile `json:"data"`
}

type sessionListResponse struct {
	Data []domain.ActiveSession `json:"data"`
}
