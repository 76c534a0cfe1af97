package entity

import "github.com/google/uuid"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	Base
	FirstName     string      `db:"first_name"`
	LastName      string      `db:"last_name"`
	Email         string      `db:"email"`
	PasswordHash  string      `db:"password"`
	Role          UserRole    `db:"role"`
	Picture       string      `db:"picture"`
	FavoriteBooks []uuid.UUID `db:"favorite_books"`
	ReportedBy    []uuid.UUID `db:"reported_by"`
	LikedComments []uuid.UUID `db:"liked_comments"`
	LikedReviews  []uuid.UUID `db:"liked_reviews"`
}
