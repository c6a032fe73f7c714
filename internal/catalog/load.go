package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a catalog file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// typeShortLen is the number of runes kept when abbreviating project types.
const typeShortLen = 3

// ErrUnknownFormat is returned for files whose extension is not recognised.
var ErrUnknownFormat = errors.New("unknown catalog format")

// Set bundles the catalogs read from one project file.
type Set struct {
	Projects *Catalog
	Types    *Catalog
}

type projectFile struct {
	ProjectCodes []projectEntry `json:"ProjectCodes" yaml:"ProjectCodes"`
	ProjectTypes []string       `json:"ProjectTypes" yaml:"ProjectTypes"`
}

type projectEntry struct {
	Code        int    `json:"Code" yaml:"Code"`
	Type        string `json:"Type" yaml:"Type"`
	Description string `json:"Description" yaml:"Description"`
}

// FormatFor picks the decoder for path based on its extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// LoadFile reads and parses a project catalog file.
func LoadFile(path string) (Set, error) {
	format, err := FormatFor(path)
	if err != nil {
		return Set{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read catalog: %w", err)
	}
	set, err := Parse(data, format)
	if err != nil {
		return Set{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return set, nil
}

// Parse decodes a project file. JSON input may carry comments and trailing
// commas.
func Parse(data []byte, format Format) (Set, error) {
	var file projectFile
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
			return Set{}, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Set{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return Set{}, ErrUnknownFormat
	}
	return build(file)
}

func build(file projectFile) (Set, error) {
	if len(file.ProjectCodes) == 0 && len(file.ProjectTypes) == 0 {
		return Set{}, ErrNoItems
	}
	projects := make([]Item, 0, len(file.ProjectCodes))
	for _, entry := range file.ProjectCodes {
		code := strconv.Itoa(entry.Code)
		projects = append(projects, Item{
			ID:    code,
			Long:  fmt.Sprintf("%s - %s", code, strings.TrimSpace(entry.Description)),
			Short: code,
		})
	}
	types := make([]Item, 0, len(file.ProjectTypes))
	for _, name := range file.ProjectTypes {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if strings.ContainsAny(name, ",;") {
			return Set{}, fmt.Errorf("project type %q contains a list delimiter", name)
		}
		types = append(types, Item{ID: name, Long: name, Short: Abbreviate(name, typeShortLen)})
	}
	return Set{
		Projects: New("projects", projects),
		Types:    New("types", types),
	}, nil
}
