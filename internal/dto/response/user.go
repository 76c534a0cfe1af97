package response

import (
	"time"

	"bookstore-api/internal/data/entity"

	"github.com/google/uuid"
)

// UserResponse is the only user projection that leaves the service. It has no
// password field by construction.
type UserResponse struct {
	ID            string          `json:"_id"`
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	Email         string          `json:"email"`
	Role          entity.UserRole `json:"role"`
	Picture       string          `json:"picture"`
	FavoriteBooks []string        `json:"favoriteBooks"`
	ReportedBy    []string        `json:"reportedBy"`
	LikedComments []string        `json:"likedComments"`
	LikedReviews  []string        `json:"likedReviews"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

type UserEnvelope struct {
	User *UserResponse `json:"user"`
}

type RoleChangeResponse struct {
	Message string        `json:"message"`
	User    *UserResponse `json:"user"`
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:            user.ID.String(),
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Email:         user.Email,
		Role:          user.Role,
		Picture:       user.Picture,
		FavoriteBooks: idStrings(user.FavoriteBooks),
		ReportedBy:    idStrings(user.ReportedBy),
		LikedComments: idStrings(user.LikedComments),
		LikedReviews:  idStrings(user.LikedReviews),
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
