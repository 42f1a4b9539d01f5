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

/*
Package logger provides structured JSON logging for Business Plan Creator
components.

# Overview

The logger outputs single-line JSON entries to stdout, making logs easily
consumable by container log collectors and aggregation systems.

Each log entry includes:
  - Timestamp (RFC3339Nano format)
  - Log level (DEBUG, INFO, WARN, ERROR)
  - Component name (orchestrator, registry, search, etc.)
  - Container name (auto-detected from hostname)
  - Request ID (for request correlation)
  - Custom fields

# Usage

Create a logger for your component:

	log := logger.New("orchestrator")

Log messages with request context:

	log.Info("req-456", "Processing chat request", map[string]interface{}{
	    "agent": "financial-analysis",
	})

Log errors with status codes:

	log.ErrorWithCode("req-456", "Upstream call failed", 500, err, nil)

# Thread Safety

Logger instances are safe for concurrent use from multiple goroutines.
*/
package logger
