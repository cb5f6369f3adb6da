package report

import "fmt"

// UnauthorizedManagerError reports that the requested recipient is not a
// seeded manager. Callers branch on it to surface a dedicated error code.
type UnauthorizedManagerError struct {
	Identity string
}

func (e *UnauthorizedManagerError) Error() string {
	return fmt.Sprintf("manager %q is not authorized to receive reports", e.Identity)
}

// ClientNotFoundError reports that the requested client filter matched no
// client.
type ClientNotFoundError struct {
	Name string
}

func (e *ClientNotFoundError) Error() string {
	return fmt.Sprintf("client %q not found", e.Name)
}
