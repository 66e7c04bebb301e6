package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// FormatVersion is written into every saved model. Loading accepts any
// version with the same major.
const FormatVersion = "v1.0.0"

// ErrNoModel is returned by Load when no artifact exists at the path.
var ErrNoModel = errors.New("no saved model")

// Artifact is the persisted form of a fitted tree.
type Artifact struct {
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"created_at"`
	Accuracy  float64   `json:"accuracy,omitempty"`
	Tree      *Tree     `json:"tree"`
}

const artifactSchemaURL = "schema://model-artifact.json"

var artifactSchema = map[string]any{
	"type":     "object",
	"required": []any{"format", "created_at", "tree"},
	"properties": map[string]any{
		"format":     map[string]any{"type": "string", "pattern": "^v[0-9]+\\.[0-9]+\\.[0-9]+$"},
		"created_at": map[string]any{"type": "string"},
		"accuracy":   map[string]any{"type": "number", "minimum": 0, "maximum": 1},
		"tree": map[string]any{
			"type":     "object",
			"required": []any{"root", "features", "classes"},
			"properties": map[string]any{
				"root":      map[string]any{"$ref": "#/$defs/node"},
				"features":  map[string]any{"type": "integer", "minimum": 1},
				"classes":   map[string]any{"type": "integer", "minimum": 1},
				"max_depth": map[string]any{"type": "integer", "minimum": 0},
			},
		},
	},
	"$defs": map[string]any{
		"node": map[string]any{
			"type":     "object",
			"required": []any{"leaf", "class"},
			"properties": map[string]any{
				"leaf":      map[string]any{"type": "boolean"},
				"class":     map[string]any{"type": "integer", "minimum": 0},
				"samples":   map[string]any{"type": "integer", "minimum": 0},
				"feature":   map[string]any{"type": "integer", "minimum": 0},
				"threshold": map[string]any{"type": "number"},
				"left":      map[string]any{"$ref": "#/$defs/node"},
				"right":     map[string]any{"$ref": "#/$defs/node"},
			},
		},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		raw, err := json.Marshal(artifactSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(raw, &def); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(artifactSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(artifactSchemaURL)
	})
	return compiledSchema, compileErr
}

// Save writes the tree to path, creating parent directories.
func Save(path string, a *Artifact) error {
	if a == nil || a.Tree == nil || a.Tree.Root == nil {
		return ErrNotFitted
	}
	if a.Format == "" {
		a.Format = FormatVersion
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace model: %w", err)
	}
	return nil
}

// Load reads and validates the artifact at path. A missing file yields
// ErrNoModel; malformed or incompatible content yields a descriptive error.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoModel
	}
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	s, err := schema()
	if err != nil {
		return nil, fmt.Errorf("compile model schema: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate model: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if semver.Major(a.Format) != semver.Major(FormatVersion) {
		return nil, fmt.Errorf("unsupported model format %s, want %s", a.Format, semver.Major(FormatVersion))
	}
	if err := a.Tree.check(a.Tree.Root); err != nil {
		return nil, fmt.Errorf("validate model: %w", err)
	}
	return &a, nil
}

// check verifies that every node references valid features and classes.
func (t *Tree) check(n *Node) error {
	if n == nil {
		return errors.New("missing node")
	}
	if n.Class >= t.Classes {
		return fmt.Errorf("class %d out of range", n.Class)
	}
	if n.Leaf {
		return nil
	}
	if n.Feature >= t.Features {
		return fmt.Errorf("feature %d out of range", n.Feature)
	}
	if err := t.check(n.Left); err != nil {
		return err
	}
	return t.check(n.Right)
}
