// Copyright 2025 Business Plan Creator
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-4o")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AZURE_OPENAI_API_KEY", "")
	t.Setenv("AZURE_OPENAI_API_VERSION", "")
	t.Setenv("AZURE_OPENAI_CAPACITY", "")
	t.Setenv("AGENTS_DIR", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://example.openai.azure.com", cfg.AzureEndpoint)
	assert.Equal(t, "gpt-4o", cfg.AzureDeployment)
	assert.Empty(t, cfg.AzureAPIKey)
	assert.Equal(t, "2024-02-15-preview", cfg.AzureAPIVersion)
	assert.Equal(t, 40, cfg.AzureCapacity)
	assert.Equal(t, "agents", cfg.AgentsDir)
	assert.Equal(t, "5001", cfg.Port)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AZURE_OPENAI_API_KEY", "secret")
	t.Setenv("AZURE_OPENAI_API_VERSION", "2024-06-01")
	t.Setenv("AZURE_OPENAI_CAPACITY", "120")
	t.Setenv("AGENTS_DIR", "/etc/agents")
	t.Setenv("PORT", "8080")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.AzureAPIKey)
	assert.Equal(t, "2024-06-01", cfg.AzureAPIVersion)
	assert.Equal(t, 120, cfg.AzureCapacity)
	assert.Equal(t, "/etc/agents", cfg.AgentsDir)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	t.Setenv("AZURE_OPENAI_ENDPOINT", "")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT_NAME", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZURE_OPENAI_ENDPOINT")

	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
	_, err = LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZURE_OPENAI_DEPLOYMENT_NAME")
}

func TestLoadConfigInvalidCapacity(t *testing.T) {
	setRequiredEnv(t)
	for _, value := range []string{"abc", "-5", "0"} {
		t.Setenv("AZURE_OPENAI_CAPACITY", value)
		_, err := LoadConfig()
		require.Error(t, err, "capacity %q should be rejected", value)
		assert.Contains(t, err.Error(), "AZURE_OPENAI_CAPACITY")
	}
}
