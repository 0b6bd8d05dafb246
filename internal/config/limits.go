package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxFolderNameLength = 255

	// MaxFolderDescriptionLength is the maximum length for folder
	// descriptions.
	MaxFolderDescriptionLength = 1000

	// MaxFolderPathLength is the maximum length for full folder paths.
	// Longer paths indicate overly deep hierarchies (anti-pattern).
	MaxFolderPathLength = 500
)
