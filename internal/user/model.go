package user

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID             int64
	FullName       string
	Email          string
	PhoneNumber    string
	HashedPassword string
	Role           Role
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type NewUser struct {
	FullName    string
	Email       string
	PhoneNumber string
	Role        Role
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID          int64  `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Role        Role   `json:"role"`
	IsActive    bool   `json:"is_active"`
}

type TokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	User        *UserResponse `json:"user"`
}

func ToUserResponse(u *User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		IsActive:    u.IsActive,
	}
}
