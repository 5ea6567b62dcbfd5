package dto

type RegisterRequest struct {
	Username     string `json:"username" validate:"required,min=3,alphanum"`
	FirstName    string `json:"first_name" validate:"required,alpha"`
	LastName     string `json:"last_name" validate:"required,alpha"`
	Email        string `json:"email" validate:"required,email"`
	MobileNumber string `json:"mobile_number" validate:"required"`
	Password     string `json:"password" validate:"required,min=6,password"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	UID     string `json:"uid"`
}
