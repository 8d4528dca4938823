package res

type RegisterResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Slug  string `json:"slug"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
