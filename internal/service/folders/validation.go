package folders

import (
	"regexp"

	"github.com/ritheshbalipersad/Document/internal/config"
	"github.com/ritheshbalipersad/Document/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	noSlashPattern  = regexp.MustCompile(`^[^/]+$`)
	hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// validateFolderName checks the rules every folder name must satisfy.
func validateFolderName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxFolderNameLength),
		validation.Match(noSlashPattern).Error("folder name cannot contain slashes"),
	)
}

// validateCreateRequest validates a folder creation request
func validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
			validation.Match(noSlashPattern).Error("folder name cannot contain slashes"),
		),
		validation.Field(&req.Description,
			validation.Length(0, config.MaxFolderDescriptionLength),
		),
		validation.Field(&req.Color,
			validation.Match(hexColorPattern).Error("color must be a hex value like #007bff"),
		),
	)
}

// validateMoveDocumentsRequest validates a document move request
func validateMoveDocumentsRequest(req *services.MoveDocumentsRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.DocumentIDs,
			validation.Required.Error("document_ids must not be empty"),
		),
	)
}
