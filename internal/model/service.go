package model

// StoredService is a single named credential as persisted in every storage tier.
type StoredService struct {
	ServiceName     string `json:"serviceName"`
	ServicePassword string `json:"servicePassword"`
}

// CreateServiceRequest represents a request to add a service.
type CreateServiceRequest struct {
	ServiceName     string `json:"serviceName"`
	ServicePassword string `json:"servicePassword"`
}

// UpdateServiceRequest represents a request to replace a stored password.
type UpdateServiceRequest struct {
	ServicePassword string `json:"servicePassword"`
}

// Field keys used in FieldErrors.
const (
	FieldServiceName     = "serviceName"
	FieldServicePassword = "servicePassword"
	FieldGeneral         = "general"
)

// FieldErrors maps a form field to a user-facing message.
type FieldErrors map[string]string

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error  string      `json:"error"`
	Fields FieldErrors `json:"fields,omitempty"`
}

// Names returns the service names of list in order.
func Names(list []StoredService) []string {
	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.ServiceName
	}
	return names
}
