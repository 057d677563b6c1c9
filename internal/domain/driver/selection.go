package driver

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// Fallback values for absent selection fields.
const (
	DefaultCategory = "custom"
	DefaultLanguage = "go"
	DefaultHardware = "generic"
	DefaultMemory   = "standard"
)

// FeatureChoice is one feature toggle submitted by a client.
type FeatureChoice struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Selection is the input of a driver generation.
type Selection struct {
	Category string                     `json:"category"`
	Language string                     `json:"language"`
	Hardware string                     `json:"hardware"`
	Memory   string                     `json:"memory"`
	Features map[string][]FeatureChoice `json:"selectedFeatures"`
}

// DecodeSelection decodes a request body. The body must be a JSON object;
// anything else is an error. Fields of the wrong type are treated as absent,
// and malformed feature groups or choices are dropped.
func DecodeSelection(data []byte) (Selection, error) {
	var raw map[string]interface{}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return Selection{}, fmt.Errorf("invalid selection: %w", err)
	}
	if raw == nil {
		return Selection{}, fmt.Errorf("invalid selection: body must be a JSON object")
	}

	return Selection{
		Category: stringField(raw, "category"),
		Language: stringField(raw, "language"),
		Hardware: stringField(raw, "hardware"),
		Memory:   stringField(raw, "memory"),
		Features: features(raw["selectedFeatures"]),
	}, nil
}

// normalize fills defaults for blank fields.
func (s Selection) normalize() Selection {
	s.Category = orDefault(s.Category, DefaultCategory)
	s.Language = orDefault(s.Language, DefaultLanguage)
	s.Hardware = orDefault(s.Hardware, DefaultHardware)
	s.Memory = orDefault(s.Memory, DefaultMemory)
	return s
}

func stringField(raw map[string]interface{}, key string) string {
	s, _ := raw[key].(string)
	return strings.TrimSpace(s)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func features(v interface{}) map[string][]FeatureChoice {
	groups, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}

	out := make(map[string][]FeatureChoice, len(groups))
	for group, entry := range groups {
		items, ok := entry.([]interface{})
		if !ok {
			continue
		}
		choices := make([]FeatureChoice, 0, len(items))
		for _, item := range items {
			if choice, ok := featureChoice(item); ok {
				choices = append(choices, choice)
			}
		}
		out[group] = choices
	}
	return out
}

func featureChoice(v interface{}) (FeatureChoice, bool) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return FeatureChoice{}, false
	}
	name, _ := obj["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return FeatureChoice{}, false
	}
	enabled, _ := obj["enabled"].(bool)
	return FeatureChoice{Name: name, Enabled: enabled}, true
}
