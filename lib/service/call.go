package service

import "fmt"

// Call carries what the host attaches to every operation: who is calling and
// the logical clock at the call's position in the global order.
type Call struct {
	Caller string
	Clock  int64
}

// Validate rejects calls no host could have ordered: an anonymous caller or
// a clock before the first commit.
func (call Call) Validate() error {
	if err := validateIdentity("caller", call.Caller); err != nil {
		return err
	}
	if call.Clock < 0 {
		return fmt.Errorf("%w: clock %d is negative", ErrInvalidData, call.Clock)
	}
	return nil
}

// validateIdentity only requires an identity to be present. Identities are
// host-defined, so their length is not bounded here.
func validateIdentity(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidData, field)
	}
	return nil
}
