package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/wikikit/internal/logging"
)

// ErrInvalidCatalog is returned when a catalog file does not match its schema.
var ErrInvalidCatalog = errors.New("invalid catalog")

const pagesSchemaURL = "https://wikikit.dev/schema/pages.json"

const pagesSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["title", "url"],
    "properties": {
      "title": {"type": "string", "minLength": 1},
      "url":   {"type": "string", "minLength": 1},
      "desc":  {"type": "string"},
      "tags":  {"type": "array", "items": {"type": "string"}}
    }
  }
}`

const navSchemaURL = "https://wikikit.dev/schema/nav.json"

const navSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$defs": {
    "section": {
      "type": "object",
      "required": ["label", "links"],
      "properties": {
        "label": {"type": "string"},
        "links": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["text", "url"],
            "properties": {
              "text": {"type": "string"},
              "url":  {"type": "string"}
            }
          }
        }
      }
    },
    "sections": {"type": "array", "items": {"$ref": "#/$defs/section"}}
  },
  "oneOf": [
    {"$ref": "#/$defs/sections"},
    {"type": "object", "additionalProperties": {"$ref": "#/$defs/sections"}}
  ]
}`

var (
	pagesValidator = mustCompile(pagesSchemaURL, pagesSchema)
	navValidator   = mustCompile(navSchemaURL, navSchema)
)

func mustCompile(url, schema string) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schema))
	if err != nil {
		panic(fmt.Sprintf("catalog: parsing %s: %v", url, err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, doc); err != nil {
		panic(fmt.Sprintf("catalog: adding %s: %v", url, err))
	}
	sch, err := compiler.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("catalog: compiling %s: %v", url, err))
	}
	return sch
}

// LoadPages reads a page catalog from a JSON or YAML file and validates it.
// Order is preserved exactly.
func LoadPages(path string) ([]PageDescriptor, error) {
	data, err := readAsJSON(path)
	if err != nil {
		return nil, err
	}
	if err := validate(pagesValidator, data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var pages []PageDescriptor
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return pages, nil
}

// LoadNavigation reads a navigation catalog. The file holds either a map of
// area to sections, or a bare list of sections stored under defaultArea.
func LoadNavigation(path, defaultArea string) (Navigation, error) {
	data, err := readAsJSON(path)
	if err != nil {
		return nil, err
	}
	if err := validate(navValidator, data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var sections []SidebarSection
		if err := json.Unmarshal(trimmed, &sections); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		return Navigation{defaultArea: sections}, nil
	}

	var nav Navigation
	if err := json.Unmarshal(trimmed, &nav); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return nav, nil
}

// PagesOrEmpty loads a page catalog on a best-effort basis: a missing file is
// silently empty, a broken one is logged and empty.
func PagesOrEmpty(path string, logger *zap.Logger) []PageDescriptor {
	if path == "" {
		return nil
	}
	pages, err := LoadPages(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.OrNop(logger).Warn("page catalog unusable, continuing with an empty catalog",
				zap.String("path", path), zap.Error(err))
		}
		return nil
	}
	return pages
}

// NavigationOrEmpty is the best-effort counterpart of LoadNavigation.
func NavigationOrEmpty(path, defaultArea string, logger *zap.Logger) Navigation {
	if path == "" {
		return nil
	}
	nav, err := LoadNavigation(path, defaultArea)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.OrNop(logger).Warn("navigation catalog unusable, sidebars fall back to placeholders",
				zap.String("path", path), zap.Error(err))
		}
		return nil
	}
	return nav
}

// readAsJSON reads path and converts YAML to JSON when the extension says so.
func readAsJSON(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		out, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("converting %s: %w", path, err)
		}
		return out, nil
	default:
		return data, nil
	}
}

func validate(schema *jsonschema.Schema, data []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := schema.Validate(inst); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%w: %s", ErrInvalidCatalog, verr.Error())
		}
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return nil
}
