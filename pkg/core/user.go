package core

import "strings"

// UserCacheType tags cached user queries.
const UserCacheType = "User"

// Role is the access role assigned to a user.
type Role string

// Role constants.
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleTest  Role = "test"
)

// Roles returns every assignable role in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleUser, RoleTest}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleTest:
		return true
	}
	return false
}

// User is a row of the users grid.
type User struct {
	ID             int64  `json:"id"`
	PersonalNumber string `json:"personalNumber"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Status         bool   `json:"status"`
	Role           Role   `json:"role"`
	Title          string `json:"title"`
	Department     string `json:"department"`
	IsArchived     bool   `json:"isArchived"`
}

// StatusLabel returns "Active" or "Inactive".
func (u User) StatusLabel() string {
	if u.Status {
		return "Active"
	}
	return "Inactive"
}

// UserInput carries the editable fields of a user for create and update.
type UserInput struct {
	PersonalNumber string `json:"personalNumber" validate:"required,max=32"`
	FullName       string `json:"fullName" validate:"required,max=120"`
	Email          string `json:"email" validate:"required,email"`
	Status         bool   `json:"status"`
	Role           Role   `json:"role" validate:"required,oneof=admin user test"`
	Title          string `json:"title" validate:"max=120"`
	Department     string `json:"department" validate:"max=120"`
}

// Normalize trims surrounding whitespace and lowercases the email.
func (in UserInput) Normalize() UserInput {
	in.PersonalNumber = strings.TrimSpace(in.PersonalNumber)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = Role(strings.ToLower(strings.TrimSpace(string(in.Role))))
	in.Title = strings.TrimSpace(in.Title)
	in.Department = strings.TrimSpace(in.Department)
	return in
}

// Input returns the editable fields of u.
func (u User) Input() UserInput {
	return UserInput{
		PersonalNumber: u.PersonalNumber,
		FullName:       u.FullName,
		Email:          u.Email,
		Status:         u.Status,
		Role:           u.Role,
		Title:          u.Title,
		Department:     u.Department,
	}
}

// UserStats aggregates the users table for the overview and analytics pages.
type UserStats struct {
	Total        int            `json:"total"`
	Active       int            `json:"active"`
	Archived     int            `json:"archived"`
	ByRole       map[Role]int   `json:"byRole"`
	ByDepartment map[string]int `json:"byDepartment"`
}
