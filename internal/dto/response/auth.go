package response

import (
	"bookstore-api/internal/data/entity"
)

type LoginResponse struct {
	Token   string          `json:"token"`
	Role    entity.UserRole `json:"role"`
	Message string          `json:"message"`
}
