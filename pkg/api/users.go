package api

// UserRequest используется для создания и обновления пользователя
type UserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of a user; the credential never leaves
// the server.
type UserResponse struct {
	Email string `json:"email"`
	ID    int64  `json:"id"`
}
