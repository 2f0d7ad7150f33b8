package handlers

import "github.com/NickGV/serujier/internal/models"

// CounterSetRequest sets a category counter to an absolute value.
type CounterSetRequest struct {
	Category models.Category `json:"category"`
	Value    int             `json:"value"`
}

// CounterAdjustRequest nudges a category counter up or down.
type CounterAdjustRequest struct {
	Category models.Category `json:"category"`
	Delta    int             `json:"delta"`
}

// AttendeeAddRequest adds a named person to a category roster. ID is the
// catalog id; empty means an ad-hoc entry.
type AttendeeAddRequest struct {
	Category models.Category `json:"category"`
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Church   string          `json:"church"`
}

// ServiceTypeRequest changes the day's service type.
type ServiceTypeRequest struct {
	ServiceType string `json:"serviceType"`
}

// UshersRequest replaces the usher selection.
type UshersRequest struct {
	Ushers []string `json:"ushers"`
}

// ContinueRequest answers the consecutive decision. FollowOnType is
// optional; empty selects the Sunday service.
type ContinueRequest struct {
	FollowOnType string `json:"followOnType"`
}

// LoginRequest carries the admin password.
type LoginRequest struct {
	Password string `json:"password"`
}

// MemberCreateRequest adds a catalog member.
type MemberCreateRequest struct {
	Name     string          `json:"name"`
	Category models.Category `json:"category"`
}

// MemberUpdateRequest updates a catalog member.
type MemberUpdateRequest struct {
	Name     string          `json:"name"`
	Category models.Category `json:"category"`
	Active   bool            `json:"active"`
}

// SympathizerCreateRequest adds a sympathizer.
type SympathizerCreateRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// SympathizerUpdateRequest updates a sympathizer.
type SympathizerUpdateRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Active bool   `json:"active"`
}

// UsherCreateRequest adds an usher.
type UsherCreateRequest struct {
	Name string `json:"name"`
}

// UsherActiveRequest toggles an usher's duty eligibility.
type UsherActiveRequest struct {
	Active bool `json:"active"`
}

// LogLevelRequest changes the runtime log level.
type LogLevelRequest struct {
	Level string `json:"level"`
}
