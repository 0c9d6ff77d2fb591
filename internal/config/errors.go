package config

const (
	// Upload errors
	ErrFileFieldRequired = "file field is required"

	ErrInternalServerError = "Internal server error"
)
