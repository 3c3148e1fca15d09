package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmynk/splitchamp/internal/models"
	"github.com/mmynk/splitchamp/internal/session"
	"gopkg.in/yaml.v3"
)

// loadSession reads a session file. Files ending in .json are decoded as JSON,
// anything else as YAML.
func (a *app) loadSession(path string) (*session.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var m models.Session
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &m)
	} else {
		err = yaml.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cat, err := a.categorizer()
	if err != nil {
		return nil, err
	}
	s := session.FromModel(&m, session.WithCategorizer(cat))
	a.log.Debug("Session loaded",
		"path", path,
		"participants", len(m.Participants),
		"expenses", len(m.Expenses),
		"policy", s.Policy(),
	)
	return s, nil
}

// names maps participant ids to display names, falling back to the id.
func names(participants []models.Participant) func(id string) string {
	byID := make(map[string]string, len(participants))
	for _, p := range participants {
		byID[p.ID] = p.Name
	}
	return func(id string) string {
		if name := byID[id]; name != "" {
			return name
		}
		return id
	}
}
