package models

// User is the account returned by the schedule API's auth endpoints.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is a successful login or registration: a bearer token plus the user.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
