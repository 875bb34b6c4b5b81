package transport

// SignupRequest is the body of POST /criar-conta.
type SignupRequest struct {
	Email string `json:"email"`
	Nome  string `json:"nome"`
}
