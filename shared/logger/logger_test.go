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

package logger

import (
	"bytes"
	"encoding/json"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects the standard log output for the duration of fn.
func captureOutput(fn func()) string {
	var buf bytes.Buffer
	old := log.Writer()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer log.SetOutput(old)

	fn()
	return buf.String()
}

func TestNew(t *testing.T) {
	l := New("orchestrator")
	assert.Equal(t, "orchestrator", l.Component)
	assert.NotEmpty(t, l.Container)
}

func TestLogProducesValidJSON(t *testing.T) {
	l := New("test-component")

	out := captureOutput(func() {
		l.Info("req-123", "hello", map[string]interface{}{"k": "v"})
	})

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &entry))
	assert.Equal(t, INFO, entry.Level)
	assert.Equal(t, "test-component", entry.Component)
	assert.Equal(t, "req-123", entry.RequestID)
	assert.Equal(t, "hello", entry.Message)
	assert.Equal(t, "v", entry.Fields["k"])
}

func TestErrorWithCode(t *testing.T) {
	l := New("test-component")

	out := captureOutput(func() {
		l.ErrorWithCode("req-1", "boom", 500, assert.AnError, nil)
	})

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &entry))
	assert.Equal(t, ERROR, entry.Level)
	assert.EqualValues(t, 500, entry.Fields["status_code"])
	assert.Contains(t, entry.Fields["error"], "assert.AnError")
}

func TestInfoWithDuration(t *testing.T) {
	l := New("test-component")

	out := captureOutput(func() {
		l.InfoWithDuration("req-1", "done", 42.5, nil)
	})

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &entry))
	assert.EqualValues(t, 42.5, entry.Fields["duration_ms"])
}
