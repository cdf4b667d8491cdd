package request

type OTP struct {
	Email string `json:"email" binding:"required,email"`
}

type Verify struct {
	Email string `json:"email" binding:"required,email"`
	Token string `json:"token" binding:"required"`
}
