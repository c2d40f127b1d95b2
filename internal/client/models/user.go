package models

import "encoding/json"

const RoleAdmin = "admin"

// User is the identity half of a session.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Image string `json:"image,omitempty"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// UnmarshalJSON accepts "id" when the backend omits "_id".
func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	var v struct {
		plain
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*u = User(v.plain)
	if u.ID == "" {
		u.ID = v.AltID
	}
	return nil
}
