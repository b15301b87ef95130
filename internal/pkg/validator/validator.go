package validator

// Validator validates request and domain structs.
type Validator interface {
	// Validate returns an error describing the failed fields, or nil.
	Validate(data any) error
}
