package dto

type VerifyOtpRequest struct {
	UserUID string `json:"user_uid" validate:"required,uuid4"`
	OtpCode string `json:"otp_code" validate:"required,numeric"`
}

type VerifyOtpResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type ResendOtpRequest struct {
	UserUID string `json:"user_uid" validate:"required,uuid4"`
}

type ResendOtpResponse struct {
	Message string `json:"message"`
}
