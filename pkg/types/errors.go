package types

import "fmt"

// ErrMissingRequiredField creates an error for a missing required field.
func ErrMissingRequiredField(fieldName string) error {
	return fmt.Errorf("missing required field: %s", fieldName)
}

// ErrInvalidFieldValue creates an error for an invalid field value.
func ErrInvalidFieldValue(fieldName string, value interface{}, reason string) error {
	return fmt.Errorf("invalid value for field %s: %v (%s)", fieldName, value, reason)
}

// ErrUnknownEdgeType creates an error for an unrecognized edge type.
func ErrUnknownEdgeType(edgeType EdgeType) error {
	return fmt.Errorf("unknown edge type: %s", edgeType)
}
