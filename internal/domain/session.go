package domain

// Session is the authenticated browser (or CLI) session. There is no expiry:
// an invalid token is discovered when the API answers 401 or 403.
type Session struct {
	ID          string `json:"id"`
	AccessToken string `json:"accessToken"`
	UserName    string `json:"userName,omitempty"`
	UserEmail   string `json:"userEmail,omitempty"`
}

// Valid reports whether the session carries a token.
func (s *Session) Valid() bool {
	return s != nil && s.AccessToken != ""
}
