// Package agent defines the content pipeline for each role: the system
// prompt sent to the generation endpoint, how the triggering payload becomes
// the user message, and what shape of structured output the role expects
// back.
package agent

import (
	"encoding/json"
	"os"

	"github.com/jorge-barreto/mesh/internal/extract"
	"github.com/jorge-barreto/mesh/internal/llm"
	"github.com/jorge-barreto/mesh/internal/notify"
	"github.com/jorge-barreto/mesh/internal/role"
)

// Profile describes one role's content generation.
type Profile struct {
	System string       // system prompt
	Task   string       // user message template, expanded with $PROJECT/$SOURCE/$PAYLOAD
	Mode   extract.Mode // expected structured output
}

// For returns the profile for a role. Every role has one; the zero check at
// startup goes through role.Parse, so lookups here cannot miss.
func For(r role.Role) Profile {
	return profiles[r]
}

// Messages builds the conversation for a processing run triggered by n.
func (p Profile) Messages(project string, n notify.Notification) []llm.Message {
	payload := string(n.Payload)
	if payload == "" {
		payload = "{}"
	}
	vars := map[string]string{
		"PROJECT": project,
		"SOURCE":  string(n.Source),
		"PAYLOAD": payload,
	}
	return []llm.Message{
		{Role: llm.RoleSystem, Content: ExpandVars(p.System, vars)},
		{Role: llm.RoleUser, Content: ExpandVars(p.Task, vars)},
	}
}

// ExpandVars substitutes $NAME variables in template using the vars map,
// falling back to environment variables.
func ExpandVars(template string, vars map[string]string) string {
	return os.Expand(template, func(key string) string {
		if v, ok := vars[key]; ok {
			return v
		}
		return os.Getenv(key)
	})
}

// SeedPayload is the payload used when a run is started manually rather than
// by an upstream notification (the business role has no upstreams).
func SeedPayload(project, brief string) json.RawMessage {
	data, _ := json.Marshal(map[string]string{
		"project": project,
		"brief":   brief,
	})
	return data
}
