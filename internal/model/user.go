package model

// User is the full account record. It is only loaded for credential checks.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Nickname     string `json:"nickname"`
	IsAdmin      bool   `json:"is_admin"`
}

// Safe drops the password hash.
func (u User) Safe() SafeUser {
	return SafeUser{ID: u.ID, Username: u.Username, Nickname: u.Nickname, IsAdmin: u.IsAdmin}
}

// SafeUser is the identity that crosses the authentication boundary.
type SafeUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	IsAdmin  bool   `json:"is_admin"`
}

type NewUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

// UserRecord is what the repository inserts.
type UserRecord struct {
	Username     string
	PasswordHash string
	Nickname     string
	IsAdmin      bool
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
