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
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NicoGrassetto/Business-Plan-Creator/shared/logger"
)

// AgentRegistry holds the loaded agent specifications with thread-safe
// access. The spec map is immutable after a load; a reload builds a complete
// replacement map and swaps it in atomically, so readers never observe a
// partially loaded registry.
type AgentRegistry struct {
	mu          sync.RWMutex
	specs       map[string]*AgentSpec // identifier -> spec (enabled only)
	specsDir    string
	lastReload  time.Time
	reloadCount int64

	log *logger.Logger
}

// RegistryStats provides statistics about the registry.
type RegistryStats struct {
	AgentCount  int       `json:"agent_count"`
	SpecsDir    string    `json:"specs_dir"`
	LastReload  time.Time `json:"last_reload"`
	ReloadCount int64     `json:"reload_count"`
}

// ErrAgentNotFound is returned by Get for unknown identifiers.
type ErrAgentNotFound struct {
	Name string
}

func (e *ErrAgentNotFound) Error() string {
	return fmt.Sprintf("agent %q not found", e.Name)
}

// NewAgentRegistry creates an empty agent registry.
func NewAgentRegistry() *AgentRegistry {
	return &AgentRegistry{
		specs: make(map[string]*AgentSpec),
		log:   logger.New("registry"),
	}
}

// LoadFromDirectory loads all *.md specification documents from dir.
//
// Files are processed in lexicographic order; when two documents declare the
// same identifier, the last one parsed wins. A malformed document is logged
// and skipped without aborting the scan, and documents with enabled: false
// are filtered here so nothing downstream can instantiate them.
func (r *AgentRegistry) LoadFromDirectory(dir string) error {
	if dir == "" {
		return fmt.Errorf("directory path cannot be empty")
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
		return fmt.Errorf("failed to access directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dir)
	}

	files, err := findSpecFiles(dir)
	if err != nil {
		return fmt.Errorf("failed to scan directory: %w", err)
	}

	newSpecs := make(map[string]*AgentSpec)
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			r.log.Warn("", "Skipping unreadable spec document", map[string]interface{}{
				"file": file, "error": err.Error(),
			})
			continue
		}

		spec, err := ParseAgentSpec(data)
		if err != nil {
			r.log.Warn("", "Skipping malformed spec document", map[string]interface{}{
				"file": file, "error": err.Error(),
			})
			continue
		}

		if !spec.Enabled {
			r.log.Info("", "Skipping disabled agent spec", map[string]interface{}{
				"file": file, "agent": spec.Name,
			})
			continue
		}

		if prev, exists := newSpecs[spec.Name]; exists {
			r.log.Warn("", "Duplicate agent identifier, last document wins", map[string]interface{}{
				"agent": spec.Name, "file": file, "replaced_title": prev.Title,
			})
		}
		newSpecs[spec.Name] = spec
	}

	r.mu.Lock()
	r.specs = newSpecs
	r.specsDir = dir
	r.lastReload = time.Now()
	r.mu.Unlock()
	atomic.AddInt64(&r.reloadCount, 1)

	r.log.Info("", "Agent registry loaded", map[string]interface{}{
		"dir": dir, "agents": len(newSpecs),
	})
	return nil
}

// Get returns the spec for the given identifier.
func (r *AgentRegistry) Get(name string) (*AgentSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.specs[name]
	if !ok {
		return nil, &ErrAgentNotFound{Name: name}
	}
	return spec, nil
}

// List returns all enabled specs sorted by identifier.
func (r *AgentRegistry) List() []*AgentSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]*AgentSpec, 0, len(r.specs))
	for _, spec := range r.specs {
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// Len returns the number of loaded specs.
func (r *AgentRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.specs)
}

// Stats returns registry statistics for the health endpoint.
func (r *AgentRegistry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return RegistryStats{
		AgentCount:  len(r.specs),
		SpecsDir:    r.specsDir,
		LastReload:  r.lastReload,
		ReloadCount: atomic.LoadInt64(&r.reloadCount),
	}
}

// findSpecFiles returns the markdown documents in dir in lexicographic order.
// The order makes duplicate-identifier resolution deterministic.
func findSpecFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".md") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
