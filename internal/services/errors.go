package services

// Service errors
var (
	ErrNoUsherSelected = &ServiceError{Message: "at least one usher must be selected before saving"}
	ErrSaveInProgress  = &ServiceError{Message: "a save is already in progress"}
	ErrNoBaseService   = &ServiceError{Message: "no base service is awaiting a decision"}
	ErrEmptyName       = &ServiceError{Message: "name must not be empty"}
	ErrNotEditing      = &ServiceError{Message: "no record is being edited"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}
