// Copyright 2025 Business Plan Creator
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSpecDoc = `---
name: financial-analysis
title: Financial Analysis Agent
description: Calculates CoCA and analyzes business metrics.
enabled: true
---

# Instructions

You are a Financial Analysis Expert specializing in business metrics.

Calculate CoCA considering marketing spend, sales costs, and time horizons.
`

func TestParseAgentSpecValid(t *testing.T) {
	spec, err := ParseAgentSpec([]byte(validSpecDoc))
	require.NoError(t, err)

	assert.Equal(t, "financial-analysis", spec.Name)
	assert.Equal(t, "Financial Analysis Agent", spec.Title)
	assert.Equal(t, "Calculates CoCA and analyzes business metrics.", spec.Description)
	assert.True(t, spec.Enabled)
	assert.Equal(t,
		"You are a Financial Analysis Expert specializing in business metrics.\n\nCalculate CoCA considering marketing spend, sales costs, and time horizons.",
		spec.Instructions)
}

func TestParseAgentSpecDisabled(t *testing.T) {
	doc := `---
name: retired-agent
title: Retired Agent
description: No longer in service.
enabled: false
---

# Instructions

Do nothing.
`
	spec, err := ParseAgentSpec([]byte(doc))
	require.NoError(t, err)
	assert.False(t, spec.Enabled)
}

func TestParseAgentSpecRoundTrip(t *testing.T) {
	// Parsing the same document twice yields identical field values.
	first, err := ParseAgentSpec([]byte(validSpecDoc))
	require.NoError(t, err)
	second, err := ParseAgentSpec([]byte(validSpecDoc))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseAgentSpecMissingRequiredKeys(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "missing name",
			doc: `---
title: T
description: D
enabled: true
---
# Instructions
Body.
`,
		},
		{
			name: "missing title",
			doc: `---
name: a
description: D
enabled: true
---
# Instructions
Body.
`,
		},
		{
			name: "missing description",
			doc: `---
name: a
title: T
enabled: true
---
# Instructions
Body.
`,
		},
		{
			name: "missing enabled",
			doc: `---
name: a
title: T
description: D
---
# Instructions
Body.
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAgentSpec([]byte(tt.doc))
			require.Error(t, err)
			var parseErr *SpecParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Contains(t, parseErr.Reason, "missing required key")
		})
	}
}

func TestParseAgentSpecInvalidEnabled(t *testing.T) {
	for _, value := range []string{"yes", "1", "True", "enabled"} {
		doc := `---
name: a
title: T
description: D
enabled: ` + value + `
---
# Instructions
Body.
`
		_, err := ParseAgentSpec([]byte(doc))
		var parseErr *SpecParseError
		require.ErrorAs(t, err, &parseErr, "enabled=%s should be rejected", value)
	}
}

func TestParseAgentSpecMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no front matter", "# Instructions\nBody.\n"},
		{"unterminated front matter", "---\nname: a\ntitle: T\n"},
		{"unknown metadata key", `---
name: a
title: T
description: D
enabled: true
color: blue
---
# Instructions
Body.
`},
		{"invalid yaml", "---\nname: [\n---\n# Instructions\nBody.\n"},
		{"missing heading", `---
name: a
title: T
description: D
enabled: true
---
Body without a heading.
`},
		{"empty body", `---
name: a
title: T
description: D
enabled: true
---
# Instructions
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAgentSpec([]byte(tt.doc))
			var parseErr *SpecParseError
			require.ErrorAs(t, err, &parseErr)
		})
	}
}
