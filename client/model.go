package client

// Response is the payroll backend response envelope
type Response[T any] struct {
	TimeStamp        string `json:"timeStamp,omitempty"`
	StatusCode       int    `json:"statusCode,omitempty"`
	Status           string `json:"status,omitempty"`
	Reason           string `json:"reason,omitempty"`
	Message          string `json:"message,omitempty"`
	DeveloperMessage string `json:"developerMessage,omitempty"`
	Data             T      `json:"data,omitempty"`
}

// Page is a paginated listing
type Page[T any] struct {
	Content          []T `json:"content"`
	TotalPages       int `json:"totalPages"`
	TotalElements    int `json:"totalElements"`
	NumberOfElements int `json:"numberOfElements"`
	Size             int `json:"size"`
	Number           int `json:"number"`
}

// User represents the authenticated user
type User struct {
	ID        int64  `json:"id,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	RoleName  string `json:"roleName,omitempty"`
	UsingMFA  bool   `json:"usingMFA,omitempty"`
	Enabled   bool   `json:"enabled,omitempty"`
}

// Profile is returned by login and verification endpoints
type Profile struct {
	User         *User  `json:"user,omitempty"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Credentials represents login request
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
