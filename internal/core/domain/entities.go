package domain

import (
	"time"
)

// User is an account holder: a customer, a provider, or staff.
type User struct {
	ID           int64       `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	IsStaff      bool        `json:"is_staff"`
	Profile      UserProfile `json:"profile"`
	PasswordHash string      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
}

// FullName joins first and last name, or returns "" when both are empty.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}

// DisplayName is the full name, falling back to the username.
func (u User) DisplayName() string {
	if n := u.FullName(); n != "" {
		return n
	}
	return u.Username
}

// UserProfile holds the extra per-user fields.
type UserProfile struct {
	Phone             string `json:"phone"`
	IsServiceProvider bool   `json:"is_service_provider"`
}

// Category is a kind of service (plumber, electrician, ...).
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Provider is a registered service professional.
type Provider struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	User         *User     `json:"user,omitempty"`
	CategoryID   int64     `json:"category_id"`
	Category     *Category `json:"category,omitempty"`
	Bio          string    `json:"bio"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Location     GeoPoint  `json:"location"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Rating       float64   `json:"rating"`
	Distance     *float64  `json:"distance,omitempty"` // computed field, degrees
	CreatedAt    time.Time `json:"created_at"`
}

// ServiceRequest is a customer asking a provider for work.
type ServiceRequest struct {
	ID          int64     `json:"id"`
	CustomerID  int64     `json:"customer_id"`
	ProviderID  int64     `json:"provider_id"`
	Message     string    `json:"message"`
	IsAccepted  bool      `json:"is_accepted"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// Review is a customer's rating of a provider.
type Review struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	ProviderID int64     `json:"provider_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// Principal is the authenticated caller, as carried in an access token.
type Principal struct {
	UserID            int64  `json:"user_id"`
	Username          string `json:"username"`
	IsStaff           bool   `json:"is_staff"`
	IsServiceProvider bool   `json:"is_service_provider"`
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Event types published for requests and reviews.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// RequestEvent is published whenever a service request changes.
type RequestEvent struct {
	Type    string          `json:"type"`
	Request *ServiceRequest `json:"request"`
	At      time.Time       `json:"at"`
}

// ReviewEvent is published whenever a review changes.
type ReviewEvent struct {
	Type   string    `json:"type"`
	Review *Review   `json:"review"`
	At     time.Time `json:"at"`
}
