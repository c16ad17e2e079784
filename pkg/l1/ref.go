package l1

import (
	"fmt"
	"strings"
)

// ControllerRef names a controller on a registry as TYPE/ID.
type ControllerRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// ParseRef parses TYPE/ID.
func ParseRef(name string) (ControllerRef, error) {
	parts := strings.Split(name, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ControllerRef{}, fmt.Errorf("invalid controller %q, expect TYPE/ID", name)
	}
	return ControllerRef{Type: parts[0], ID: parts[1]}, nil
}

// Name is the TYPE/ID form.
func (r ControllerRef) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid requires both Type and ID.
func (r ControllerRef) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// ControllerMeta is published along with the ref.
type ControllerMeta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// ControllerInfo is what discovery finds.
type ControllerInfo struct {
	Ref  ControllerRef  `json:"ref"`
	Meta ControllerMeta `json:"meta"`
}
