package service

import (
	"slices"

	"github.com/passkeep/passkeep-go/internal/model"
)

const (
	msgNameRequired     = "enter a service name"
	msgPasswordRequired = "enter a password"
	msgNameTaken        = "a service with this name already exists"
)

// ServicePayload is the input of Validate.
type ServicePayload struct {
	ServiceName     string
	ServicePassword string
	ExistingNames   []string
}

// Validate returns per-field messages for an add request. An empty map means
// the payload is acceptable. A duplicate name replaces the empty-name message.
func Validate(p ServicePayload) model.FieldErrors {
	errs := model.FieldErrors{}
	if p.ServiceName == "" {
		errs[model.FieldServiceName] = msgNameRequired
	}
	if p.ServicePassword == "" {
		errs[model.FieldServicePassword] = msgPasswordRequired
	}
	if slices.Contains(p.ExistingNames, p.ServiceName) {
		errs[model.FieldServiceName] = msgNameTaken
	}
	return errs
}

// ValidationError carries field errors out of the service layer.
type ValidationError struct {
	Fields model.FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
