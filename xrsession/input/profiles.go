package input

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed bindings.yaml
var defaultBindingsYAML []byte

// ActionDesc is one entry in the fixed action set.
type ActionDesc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // "pose", "bool", or "float"
}

// BindingDesc suggests one action to one input source path.
type BindingDesc struct {
	Action string `yaml:"action"`
	Path   string `yaml:"path"`
}

// Profile is one suggested-bindings document for an interaction profile.
type Profile struct {
	Name               string        `yaml:"name"`
	InteractionProfile string        `yaml:"interactionProfile"`
	Bindings           []BindingDesc `yaml:"bindings"`
}

type bindingsDoc struct {
	Actions  []ActionDesc `yaml:"actions"`
	Profiles []Profile    `yaml:"profiles"`
}

var defaultDocOnce = sync.OnceValues(func() (bindingsDoc, error) {
	var doc bindingsDoc
	if err := yaml.Unmarshal(defaultBindingsYAML, &doc); err != nil {
		return bindingsDoc{}, fmt.Errorf("input: parsing embedded bindings.yaml: %w", err)
	}
	return doc, nil
})

// DefaultActions returns the fixed action-set layout (parsed once).
func DefaultActions() ([]ActionDesc, error) {
	doc, err := defaultDocOnce()
	if err != nil {
		return nil, err
	}
	return doc.Actions, nil
}

// DefaultProfiles returns the two built-in suggested-bindings profiles
// (Khronos simple controller and Valve Index), parsed once from the
// embedded YAML document.
func DefaultProfiles() ([]Profile, error) {
	doc, err := defaultDocOnce()
	if err != nil {
		return nil, err
	}
	return doc.Profiles, nil
}
