package schema

import "time"

// WebAppUser is the Telegram user embedded in the Mini App launch data.
type WebAppUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	IsPremium    bool   `json:"is_premium,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
}

// DisplayName joins first and last name, falling back to the username.
func (u WebAppUser) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// Session is the decoded host-platform session state.
// Raw is the original signed string forwarded to the backend.
type Session struct {
	QueryID    string
	User       *WebAppUser
	AuthDate   time.Time
	StartParam string
	Hash       string
	Raw        string
}
