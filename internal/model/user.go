package model

import (
	"strings"
	"time"
)

// Role is the coarse authorization label attached to a user
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// AllRoles lists every role the system knows about
var AllRoles = []Role{RoleAdmin, RoleUser}

// ParseRole maps free text to a Role; anything other than "admin"
// (case-insensitive) is RoleUser.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// User represents an account. Passwords are stored as bcrypt hashes and
// roles are a relation, not a column.
type User struct {
	ID                 string    `gorm:"primaryKey;size:36"`
	Username           string    `gorm:"size:256;not null"`
	NormalizedUsername string    `gorm:"size:256;not null;uniqueIndex"`
	Name               string    `gorm:"size:256;not null"`
	PasswordHash       string    `gorm:"not null"`
	CreatedAt          time.Time
	Roles              []RoleRecord `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
}

// RoleRecord is the persisted role row
type RoleRecord struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:64;not null;uniqueIndex"`
}

func (RoleRecord) TableName() string {
	return "roles"
}

// NormalizeUsername returns the key used for case-insensitive lookups
func NormalizeUsername(username string) string {
	return strings.ToUpper(strings.TrimSpace(username))
}

// UserRegisterDTO represents user registration request
type UserRegisterDTO struct {
	Username string `json:"username" binding:"required,notblank"`
	Name     string `json:"name" binding:"required,notblank"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// UserLoginDTO represents user login request
type UserLoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserDataDTO is the public user data returned by register and login
type UserDataDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// UserDTO is the user shape returned by the user listing endpoints
type UserDTO struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Roles    []string `json:"roles"`
}

// LoginResponseDTO represents login response. Token is empty and User nil
// when the credentials were rejected.
type LoginResponseDTO struct {
	Token string       `json:"token"`
	User  *UserDataDTO `json:"user"`
}
