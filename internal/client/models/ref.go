package models

import (
	"bytes"
	"encoding/json"
)

// Ref is a reference to another record. The backend sends either the bare
// id string or a populated object; both decode into Ref. A Ref with only an
// id encodes back as the bare id string.
type Ref struct {
	ID    string
	Name  string
	Email string
}

type refObject struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Name == "" && r.Email == "" {
		return json.Marshal(r.ID)
	}
	return json.Marshal(refObject(r))
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}

	var obj refObject
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*r = Ref(obj)
	return nil
}
