package models

// User identifies a chat participant. Identity is stable for a session.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// UnknownUser is the placeholder identity used when the server omits the
// author of a message.
func UnknownUser(id int) User {
	return User{ID: id, Username: "Unknown"}
}
