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

// ExampleQuery is one suggested starting point for the chat UI.
type ExampleQuery struct {
	Title string  `json:"title"`
	Query string  `json:"query"`
	Agent *string `json:"agent"`
}

// ExamplesResponse is the examples endpoint payload.
type ExamplesResponse struct {
	Examples []ExampleQuery `json:"examples"`
}

// exampleQueries returns the example prompts. A nil agent means the question
// goes through the orchestrator's automatic routing.
func exampleQueries() ExamplesResponse {
	competitive := "competitive-analysis"
	financial := "financial-analysis"
	return ExamplesResponse{
		Examples: []ExampleQuery{
			{
				Title: "Competitive Analysis",
				Query: "Analyze the competitive landscape for project management software tools. Focus on the top 3-5 competitors, their pricing models, key features, and market positioning.",
				Agent: &competitive,
			},
			{
				Title: "Financial Analysis (CoCA)",
				Query: "Calculate the Customer Acquisition Cost (CoCA) for a B2B SaaS startup with marketing spend of $50,000/month, sales team of 3 people @ $8,000/month each, and 20 new customers/month.",
				Agent: &financial,
			},
			{
				Title: "Comprehensive Business Plan",
				Query: "Create a business plan section for a new AI-powered business intelligence tool including competitive analysis, pricing strategy, and market positioning.",
				Agent: nil,
			},
		},
	}
}
