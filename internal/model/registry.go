package model

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrDuplicateProfile = errors.New("profile already registered")
	ErrProfileNoTypes   = errors.New("profile must be associated with at least one member type")
)

// ProfileRegistry maps a profile identifier to the member types it may be used for.
// It drives data entry and template generation; layer classification never consults it.
type ProfileRegistry map[string][]MemberType

// NewProfileRegistry returns an empty registry.
func NewProfileRegistry() ProfileRegistry {
	return ProfileRegistry{}
}

// Add registers a profile for the given types. Duplicate types are collapsed
// and stored in display order.
func (r ProfileRegistry) Add(name string, types []MemberType) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("profile name is required")
	}
	if _, exists := r[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProfile, name)
	}
	ordered := orderTypes(types)
	if len(ordered) == 0 {
		return fmt.Errorf("%w: %s", ErrProfileNoTypes, name)
	}
	r[name] = ordered
	return nil
}

// Remove deletes a profile. It reports whether the profile existed.
func (r ProfileRegistry) Remove(name string) bool {
	if _, ok := r[name]; !ok {
		return false
	}
	delete(r, name)
	return true
}

// Types returns the member types associated with a profile.
func (r ProfileRegistry) Types(name string) []MemberType {
	return r[name]
}

// Has reports whether a profile is registered for the given type.
func (r ProfileRegistry) Has(name string, t MemberType) bool {
	for _, rt := range r[name] {
		if rt == t {
			return true
		}
	}
	return false
}

// Names returns all registered profiles sorted alphabetically.
func (r ProfileRegistry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Layers returns every TYPE_PROFILE layer name the registry allows, sorted by
// profile and then by type display order.
func (r ProfileRegistry) Layers() []string {
	var layers []string
	for _, name := range r.Names() {
		for _, t := range r[name] {
			layers = append(layers, LayerName(t, name))
		}
	}
	return layers
}

// Unregistered returns the summary groups whose profile is not registered for
// their type. The standard profile is never reported.
func (r ProfileRegistry) Unregistered(summaries []SummaryRow) []GroupKey {
	var missing []GroupKey
	for _, s := range summaries {
		if s.Group.Profile == StandardProfile {
			continue
		}
		if !r.Has(s.Group.Profile, s.Group.Type) {
			missing = append(missing, s.Group)
		}
	}
	return missing
}

// Clone returns a deep copy of the registry.
func (r ProfileRegistry) Clone() ProfileRegistry {
	cp := make(ProfileRegistry, len(r))
	for name, types := range r {
		cp[name] = append([]MemberType(nil), types...)
	}
	return cp
}

// orderTypes deduplicates types and sorts them in display order.
func orderTypes(types []MemberType) []MemberType {
	seen := make(map[MemberType]bool, len(types))
	for _, t := range types {
		seen[t] = true
	}
	var ordered []MemberType
	for _, t := range AllMemberTypes() {
		if seen[t] {
			ordered = append(ordered, t)
		}
	}
	return ordered
}

var (
	nameSeparators = regexp.MustCompile(`[\s,./\\*]+`)
	repeatedUnders = regexp.MustCompile(`__+`)
)

// NormalizeNamePart turns free-form user input into a layer-safe token:
// accents are folded to ASCII, letters are uppercased, and separators
// become underscores.
func NormalizeNamePart(part string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.TrimSpace(part),
	)
	if err != nil {
		folded = strings.TrimSpace(part)
	}
	s := strings.ToUpper(folded)
	s = nameSeparators.ReplaceAllString(s, "_")
	s = repeatedUnders.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// ParseMeasure parses a dimension typed by a user. A comma decimal separator is accepted.
func ParseMeasure(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid measure %q", s)
	}
	return v, nil
}

// BuildProfileName composes a profile identifier from a description, one or
// more measures, and a thickness, e.g. ("U", ["50","25"], "2,65") -> "U_50_25_2_65".
func BuildProfileName(description string, measures []string, thickness string) (string, error) {
	description = strings.TrimSpace(description)
	var filled []string
	for _, m := range measures {
		if strings.TrimSpace(m) != "" {
			filled = append(filled, m)
		}
	}
	if description == "" || len(filled) == 0 || strings.TrimSpace(thickness) == "" {
		return "", errors.New("description, at least one measure, and thickness are required")
	}
	for _, m := range filled {
		if _, err := ParseMeasure(m); err != nil {
			return "", err
		}
	}
	if _, err := ParseMeasure(thickness); err != nil {
		return "", err
	}

	parts := make([]string, 0, len(filled)+2)
	parts = append(parts, NormalizeNamePart(description))
	for _, m := range filled {
		parts = append(parts, NormalizeNamePart(m))
	}
	parts = append(parts, NormalizeNamePart(thickness))
	return strings.Join(parts, "_"), nil
}
