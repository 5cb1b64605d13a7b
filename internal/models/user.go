package models

type UserProfile struct {
	UserID     int64     `json:"userId"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	ProfileImg string    `json:"profileImg"`
	GitLink    string    `json:"gitLink"`
	BlogLink   string    `json:"blogLink"`
	Grade      string    `json:"grade"`
	JobStatus  string    `json:"jobStatus"`
	About      string    `json:"about"`
	Auth       bool      `json:"auth"`
	CreatedAt  Timestamp `json:"createdAt"`
	UpdatedAt  Timestamp `json:"updatedAt"`
}

type SignUpInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
	Name     string `json:"name" validate:"required,max=30"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProfilePatch struct {
	Name      string `json:"name" validate:"required,max=30"`
	GitLink   string `json:"gitLink" validate:"omitempty,url"`
	BlogLink  string `json:"blogLink" validate:"omitempty,url"`
	JobStatus string `json:"jobStatus" validate:"max=30"`
	About     string `json:"about" validate:"max=500"`
}
