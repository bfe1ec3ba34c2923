package role

import (
	"fmt"
	"strings"
)

// Role identifies one pipeline stage. Each role runs as its own daemon
// instance with its own output directory and listen port.
type Role string

const (
	Business      Role = "business"
	Architecture  Role = "architecture"
	Developer     Role = "developer"
	QA            Role = "qa"
	Audit         Role = "audit"
	Documentation Role = "documentation"
)

// All lists every role in pipeline order.
var All = []Role{Business, Architecture, Developer, QA, Audit, Documentation}

// defaultPorts assigns each role its conventional listen port.
var defaultPorts = map[Role]int{
	Business:      5000,
	Architecture:  5001,
	Developer:     5002,
	QA:            5003,
	Audit:         5004,
	Documentation: 5005,
}

// Parse converts a string to a Role, case-insensitively.
func Parse(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range All {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q (must be one of: %s)", s, Names())
}

// Names returns a comma-separated list of all role names.
func Names() string {
	names := make([]string, len(All))
	for i, r := range All {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// DefaultPort returns the conventional listen port for a role.
func (r Role) DefaultPort() int {
	return defaultPorts[r]
}

func (r Role) String() string {
	return string(r)
}
