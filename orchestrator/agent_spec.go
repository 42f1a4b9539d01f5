// Copyright 2025 Business Plan Creator
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package orchestrator

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// AgentSpec is one parsed agent specification document. Immutable after load;
// a registry reload replaces the value rather than mutating it.
type AgentSpec struct {
	// Name is the unique agent identifier (e.g. "financial-analysis").
	Name string `json:"name"`

	// Title is the human-readable display title.
	Title string `json:"title"`

	// Description summarizes the agent for listings and routing.
	Description string `json:"description"`

	// Enabled marks whether the agent may be instantiated.
	Enabled bool `json:"enabled"`

	// Instructions is the free-text body consumed verbatim as the agent's
	// behavioral contract (system prompt).
	Instructions string `json:"-"`
}

// SpecParseError reports a malformed agent specification document.
type SpecParseError struct {
	Reason string
}

func (e *SpecParseError) Error() string {
	return fmt.Sprintf("agent spec parse error: %s", e.Reason)
}

// specMetadata is the YAML front-matter block of a specification document.
// Enabled is kept as a raw node so that only the literal spellings "true"
// and "false" are accepted, regardless of how YAML would coerce the scalar.
type specMetadata struct {
	Name        string    `yaml:"name"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Enabled     yaml.Node `yaml:"enabled"`
}

const frontMatterFence = "---"

// ParseAgentSpec parses one specification document: a YAML front-matter block
// fenced by "---" lines carrying name, title, description and enabled,
// followed by a markdown body whose instruction text begins after the first
// heading line.
//
// The document format is external persisted state and is preserved exactly:
// parsing followed by field access recovers the identifier, title,
// description, enabled flag and instruction text with no lossy
// transformation.
func ParseAgentSpec(data []byte) (*AgentSpec, error) {
	content := strings.TrimSpace(string(bytes.TrimPrefix(data, []byte("\ufeff"))))

	if !strings.HasPrefix(content, frontMatterFence) {
		return nil, &SpecParseError{Reason: "missing front-matter block"}
	}

	parts := strings.SplitN(content[len(frontMatterFence):], "\n"+frontMatterFence, 2)
	if len(parts) != 2 {
		return nil, &SpecParseError{Reason: "unterminated front-matter block"}
	}

	meta, err := parseMetadata(parts[0])
	if err != nil {
		return nil, err
	}

	instructions, err := extractInstructions(parts[1])
	if err != nil {
		return nil, err
	}

	return &AgentSpec{
		Name:         meta.Name,
		Title:        meta.Title,
		Description:  meta.Description,
		Enabled:      meta.Enabled.Value == "true",
		Instructions: instructions,
	}, nil
}

// parseMetadata strictly decodes the front-matter block and validates the
// required keys.
func parseMetadata(block string) (*specMetadata, error) {
	var meta specMetadata

	dec := yaml.NewDecoder(strings.NewReader(block))
	dec.KnownFields(true)
	if err := dec.Decode(&meta); err != nil {
		return nil, &SpecParseError{Reason: fmt.Sprintf("malformed metadata: %v", err)}
	}

	for key, value := range map[string]string{
		"name":        meta.Name,
		"title":       meta.Title,
		"description": meta.Description,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, &SpecParseError{Reason: fmt.Sprintf("missing required key %q", key)}
		}
	}

	if meta.Enabled.IsZero() {
		return nil, &SpecParseError{Reason: `missing required key "enabled"`}
	}

	if meta.Enabled.Value != "true" && meta.Enabled.Value != "false" {
		return nil, &SpecParseError{Reason: fmt.Sprintf("enabled must be \"true\" or \"false\", got %q", meta.Enabled.Value)}
	}

	return &meta, nil
}

// extractInstructions returns the body text following the first markdown
// heading line. The heading itself is presentation, not instruction text.
func extractInstructions(body string) (string, error) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			instructions := strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
			if instructions == "" {
				return "", &SpecParseError{Reason: "empty instruction body"}
			}
			return instructions, nil
		}
	}
	return "", &SpecParseError{Reason: "missing instruction heading"}
}
