package domain

import (
	"fmt"
	"strings"
)

// Account is one controlled messaging endpoint. RoutingHandle selects the
// outbound session used to send as this account; Address is where peers reach it.
type Account struct {
	Name          string
	RoutingHandle string
	Address       string
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.RoutingHandle) == "" {
		return fmt.Errorf("%w: routing handle is required", ErrInvalidAccount)
	}
	if strings.TrimSpace(a.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidAccount)
	}

	return nil
}

// Label is the human-facing identifier used in logs and rendered output.
func (a Account) Label() string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	return a.Address
}

func (a *Account) Normalize() {
	if a == nil {
		return
	}

	a.Name = strings.TrimSpace(a.Name)
	a.RoutingHandle = strings.TrimSpace(a.RoutingHandle)
	a.Address = strings.TrimSpace(a.Address)
}
