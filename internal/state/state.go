package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const (
	StatusIdle       = "idle"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// ServiceState is the persisted status record for one role. It is owned
// exclusively by that role's coordinator and overwritten on every status
// change. After a restart it is loaded once for diagnostics; missed
// notifications are not replayed from it.
type ServiceState struct {
	Role       string          `json:"role"`
	LastUpdate time.Time       `json:"last_update"`
	Status     string          `json:"status"`
	Error      string          `json:"error,omitempty"`
	LastResult json.RawMessage `json:"last_result,omitempty"`
}

func statePath(outputDir string) string {
	return filepath.Join(outputDir, "state.json")
}

// Load reads the state file from a role's output directory. Returns an idle
// state if none exists yet.
func Load(outputDir, roleName string) (*ServiceState, error) {
	data, err := os.ReadFile(statePath(outputDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ServiceState{Role: roleName, Status: StatusIdle}, nil
		}
		return nil, err
	}
	var s ServiceState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes the state to the role's output directory, stamping LastUpdate.
func (s *ServiceState) Save(outputDir string) error {
	s.LastUpdate = time.Now().UTC()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(statePath(outputDir), data, 0644)
}

// SetStatus updates the status, clearing any stale error description when
// the new status is not an error.
func (s *ServiceState) SetStatus(status string) {
	s.Status = status
	if status != StatusError {
		s.Error = ""
	}
}

// SetResult records the outcome payload of a completed run.
func (s *ServiceState) SetResult(result any) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	s.LastResult = data
	return nil
}
