package requestresponse

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type UserInfo struct {
	UUID  string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type FindByEmailRequest struct {
	Email string `json:"email"`
}
