package dto

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Username         *string `json:"username,omitempty"`
	Email            *string `json:"email,omitempty"`
	FullName         *string `json:"full_name,omitempty"`
	Age              *int    `json:"age,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
}

type UserResponse struct {
	ID               string  `json:"id"`
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	FullName         string  `json:"full_name"`
	Age              *int    `json:"age,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	IsAdmin          bool    `json:"is_admin"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        UserResponse `json:"user"`
}
