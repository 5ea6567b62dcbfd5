package dto

import "taskhub/internal/domain"

// UserResponse is the public projection of a user row.
type UserResponse struct {
	UID           string `json:"uid"`
	Username      string `json:"username"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	MobileNumber  string `json:"mobile_number"`
	PhoneVerified bool   `json:"phone_verified"`
}

func UserFromDomain(u *domain.User) UserResponse {
	return UserResponse{
		UID:           u.ID.String(),
		Username:      u.Username,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		MobileNumber:  u.MobileNumber,
		PhoneVerified: u.PhoneVerified,
	}
}
