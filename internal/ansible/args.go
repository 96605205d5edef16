package ansible

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/imamik/rookctl/internal/config"
)

// Args are the module arguments. Internal _ansible_* keys are ignored.
type Args struct {
	GatherFacts bool                   `json:"gather_facts"`
	Deploy      map[string]interface{} `json:"deploy"`
	Reset       map[string]interface{} `json:"reset"`
}

// ReadArgs loads the arguments file Ansible passes to a binary module.
func ReadArgs(path string) (*Args, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module arguments: %w", err)
	}
	return ParseArgs(data)
}

// ParseArgs decodes module arguments from JSON.
func ParseArgs(data []byte) (*Args, error) {
	var args Args
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, fmt.Errorf("failed to parse module arguments: %w", err)
	}
	return &args, nil
}

// configFrom builds a validated configuration from a deploy or reset dict.
func configFrom(params map[string]interface{}) (*config.Config, error) {
	return config.FromMap(params)
}
