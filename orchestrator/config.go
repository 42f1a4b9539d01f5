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
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the service configuration resolved from the environment.
type Config struct {
	// AzureEndpoint is the Azure OpenAI resource endpoint URL.
	AzureEndpoint string

	// AzureDeployment is the chat model deployment name.
	AzureDeployment string

	// AzureAPIKey authenticates requests when set; when empty the service
	// falls back to Entra ID bearer tokens via DefaultAzureCredential.
	AzureAPIKey string

	// AzureAPIVersion is the chat completions API version.
	AzureAPIVersion string

	// AzureCapacity is the provisioned deployment capacity, reported by the
	// health endpoint.
	AzureCapacity int

	// AgentsDir is the directory scanned for agent specification documents.
	AgentsDir string

	// Port is the HTTP listen port.
	Port string
}

// LoadConfig resolves configuration from .env files and the process
// environment. Environment variables take precedence over .env entries;
// both dotenv locations are optional.
func LoadConfig() (*Config, error) {
	loadDotenvFiles()

	cfg := &Config{
		AzureEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureDeployment: os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME"),
		AzureAPIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
		AzureAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-02-15-preview"),
		AgentsDir:       getEnv("AGENTS_DIR", "agents"),
		Port:            getEnv("PORT", "5001"),
	}

	if cfg.AzureEndpoint == "" {
		return nil, fmt.Errorf("AZURE_OPENAI_ENDPOINT is required")
	}
	if cfg.AzureDeployment == "" {
		return nil, fmt.Errorf("AZURE_OPENAI_DEPLOYMENT_NAME is required")
	}

	capacity := getEnv("AZURE_OPENAI_CAPACITY", "40")
	parsed, err := strconv.Atoi(capacity)
	if err != nil || parsed <= 0 {
		return nil, fmt.Errorf("AZURE_OPENAI_CAPACITY must be a positive integer, got %q", capacity)
	}
	cfg.AzureCapacity = parsed

	return cfg, nil
}

// loadDotenvFiles loads the local .env and, when present, the provisioning
// output written under .azure/deepagent/.env. godotenv never overrides
// variables already set in the process environment.
func loadDotenvFiles() {
	_ = godotenv.Load()
	_ = godotenv.Load(filepath.Join(".azure", "deepagent", ".env"))
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
