// Copyright 2025 Business Plan Creator
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSpecFile(t *testing.T, dir, filename, name, title string, enabled bool) {
	t.Helper()
	enabledStr := "true"
	if !enabled {
		enabledStr = "false"
	}
	doc := `---
name: ` + name + `
title: ` + title + `
description: Description for ` + name + `.
enabled: ` + enabledStr + `
---

# Instructions

Instructions for ` + title + `.
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(doc), 0o644))
}

func TestRegistryLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSpecFile(t, dir, "competitive-analysis.md", "competitive-analysis", "Competitive Analysis Agent", true)
	writeSpecFile(t, dir, "financial-analysis.md", "financial-analysis", "Financial Analysis Agent", true)

	reg := NewAgentRegistry()
	require.NoError(t, reg.LoadFromDirectory(dir))

	assert.Equal(t, 2, reg.Len())

	spec, err := reg.Get("financial-analysis")
	require.NoError(t, err)
	assert.Equal(t, "Financial Analysis Agent", spec.Title)
	assert.Equal(t, "Instructions for Financial Analysis Agent.", spec.Instructions)

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "competitive-analysis", list[0].Name)
	assert.Equal(t, "financial-analysis", list[1].Name)
}

func TestRegistrySkipsMalformedDocuments(t *testing.T) {
	dir := t.TempDir()
	writeSpecFile(t, dir, "good.md", "good-agent", "Good Agent", true)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.md"), []byte("no front matter here\n"), 0o644))

	reg := NewAgentRegistry()
	require.NoError(t, reg.LoadFromDirectory(dir))

	assert.Equal(t, 1, reg.Len())
	_, err := reg.Get("good-agent")
	assert.NoError(t, err)
}

func TestRegistryFiltersDisabledSpecs(t *testing.T) {
	dir := t.TempDir()
	writeSpecFile(t, dir, "active.md", "active-agent", "Active Agent", true)
	writeSpecFile(t, dir, "retired.md", "retired-agent", "Retired Agent", false)

	reg := NewAgentRegistry()
	require.NoError(t, reg.LoadFromDirectory(dir))

	assert.Equal(t, 1, reg.Len())

	_, err := reg.Get("retired-agent")
	var notFound *ErrAgentNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "retired-agent", notFound.Name)

	for _, spec := range reg.List() {
		assert.NotEqual(t, "retired-agent", spec.Name)
	}
}

func TestRegistryDuplicateIdentifierLastWins(t *testing.T) {
	dir := t.TempDir()
	// Lexicographic scan order: a-agent.md before z-agent.md, so the
	// document in z-agent.md supplies the surviving spec.
	writeSpecFile(t, dir, "a-agent.md", "shared-name", "First Title", true)
	writeSpecFile(t, dir, "z-agent.md", "shared-name", "Second Title", true)

	reg := NewAgentRegistry()
	require.NoError(t, reg.LoadFromDirectory(dir))

	assert.Equal(t, 1, reg.Len())
	spec, err := reg.Get("shared-name")
	require.NoError(t, err)
	assert.Equal(t, "Second Title", spec.Title)
}

func TestRegistryReloadIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeSpecFile(t, dir, "one.md", "agent-one", "Agent One", true)
	writeSpecFile(t, dir, "two.md", "agent-two", "Agent Two", true)

	reg := NewAgentRegistry()
	require.NoError(t, reg.LoadFromDirectory(dir))
	first := reg.List()

	require.NoError(t, reg.LoadFromDirectory(dir))
	second := reg.List()

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].Instructions, second[i].Instructions)
	}
	assert.Equal(t, int64(2), reg.Stats().ReloadCount)
}

func TestRegistryMissingDirectory(t *testing.T) {
	reg := NewAgentRegistry()
	err := reg.LoadFromDirectory(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestRegistryLoadsShippedAgents(t *testing.T) {
	reg := NewAgentRegistry()
	require.NoError(t, reg.LoadFromDirectory(filepath.Join("..", "agents")))

	require.Equal(t, 2, reg.Len())

	competitive, err := reg.Get("competitive-analysis")
	require.NoError(t, err)
	assert.Equal(t, "Competitive Analysis Agent", competitive.Title)
	assert.Contains(t, competitive.Instructions, "Competitive Analysis Expert")

	financial, err := reg.Get("financial-analysis")
	require.NoError(t, err)
	assert.Equal(t, "Financial Analysis Agent", financial.Title)
	assert.Contains(t, financial.Instructions, "Customer Acquisition Cost (CoCA)")
}

func TestRegistryEmptyDirectory(t *testing.T) {
	reg := NewAgentRegistry()
	require.NoError(t, reg.LoadFromDirectory(t.TempDir()))
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.List())
}
