package domain

// Profile is a user profile as returned by the social API.
type Profile struct {
	Name      string    `json:"name"`
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Avatar    *Media    `json:"avatar,omitempty"`
	Banner    *Media    `json:"banner,omitempty"`
	Count     Counts    `json:"_count"`
	Following []Profile `json:"following,omitempty"`
	Followers []Profile `json:"followers,omitempty"`
}

// DisplayName is the name a profile is known by: Name, or Username when the
// API left Name empty.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Username
}

// Counts holds the aggregate numbers shown on a profile.
type Counts struct {
	Posts     int `json:"posts"`
	Followers int `json:"followers"`
	Following int `json:"following"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio,omitempty"`
}

// LoginResult is the data returned by a successful login.
type LoginResult struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Avatar      *Media `json:"avatar,omitempty"`
	AccessToken string `json:"accessToken"`
}
