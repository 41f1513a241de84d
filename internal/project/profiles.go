package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/TrussCut/internal/model"
)

// DefaultRegistryPath returns the default file path for the profile registry,
// ~/.trusscut/profiles.json.
func DefaultRegistryPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.json")
}

// SaveRegistry writes the registry as an indented JSON object mapping each
// profile to its member types. Keys are written in sorted order.
func SaveRegistry(path string, reg model.ProfileRegistry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if reg == nil {
		reg = model.NewProfileRegistry()
	}
	data, err := json.MarshalIndent(reg, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadRegistry reads a profile registry from a JSON file.
// Returns an empty registry if the file does not exist. A file that is not a
// JSON object, or that names an unknown member type, is an error.
func LoadRegistry(path string) (model.ProfileRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewProfileRegistry(), nil
		}
		return nil, err
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse profile registry %s: %w", path, err)
	}

	reg := model.NewProfileRegistry()
	for name, typeNames := range raw {
		types := make([]model.MemberType, 0, len(typeNames))
		for _, tn := range typeNames {
			t, ok := model.ParseMemberType(tn)
			if !ok {
				return nil, fmt.Errorf("profile %q: unknown member type %q", name, tn)
			}
			types = append(types, t)
		}
		if err := reg.Add(name, types); err != nil {
			return nil, fmt.Errorf("profile registry %s: %w", path, err)
		}
	}
	return reg, nil
}

// ExportRegistry writes a copy of the registry for sharing between machines.
func ExportRegistry(path string, reg model.ProfileRegistry) error {
	return SaveRegistry(path, reg)
}

// ImportRegistry merges the profiles of a shared registry file into reg.
// Profiles already present are left untouched. It returns the names added.
func ImportRegistry(path string, reg model.ProfileRegistry) ([]string, error) {
	incoming, err := LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	var added []string
	for _, name := range incoming.Names() {
		if err := reg.Add(name, incoming.Types(name)); err != nil {
			if errors.Is(err, model.ErrDuplicateProfile) {
				continue
			}
			return added, err
		}
		added = append(added, name)
	}
	return added, nil
}
