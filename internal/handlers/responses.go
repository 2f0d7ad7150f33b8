package handlers

import "github.com/NickGV/serujier/internal/models"

// CategoryInfo describes one attendance bucket for the UI.
type CategoryInfo struct {
	ID    models.Category `json:"id"`
	Label string          `json:"label"`
}

// CategoriesResponse lists the closed category set in display order.
type CategoriesResponse struct {
	Categories []CategoryInfo `json:"categories"`
}

// ServiceTypesResponse lists the selectable service types and which of
// them open the consecutive flow on save.
type ServiceTypesResponse struct {
	ServiceTypes []string `json:"serviceTypes"`
	BaseTypes    []string `json:"baseTypes"`
	Default      string   `json:"default"`
}

// LoginResponse confirms a successful admin login.
type LoginResponse struct {
	Message string `json:"message"`
}
