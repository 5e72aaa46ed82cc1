// Copyright 2025 Poiesic Systems
//
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


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/graphseek/ai"
	"github.com/tmc/langchaingo/llms"
)

// Interpreter implements ai.QueryInterpreter and ai.QuestionInterpreter using
// OpenAI-compatible chat APIs.
type Interpreter struct {
	client llms.Model
	logger *slog.Logger
}

// newInterpreter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newInterpreter(config *ai.Config) (*Interpreter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newClient(config.InterpreterHost, config.InterpreterModel, config.APIKey)
	if err != nil {
		return nil, err
	}

	return &Interpreter{
		client: client,
		logger: slog.Default().With("component", "openai-interpreter"),
	}, nil
}

// NewInterpreter creates a new query interpreter using the provided configuration.
//
// Returns ai.QueryInterpreter interface to enforce abstraction.
func NewInterpreter(config *ai.Config) (ai.QueryInterpreter, error) {
	return newInterpreter(config)
}

// InterpretQuery translates a natural language request into a structured
// search request.
func (i *Interpreter) InterpretQuery(ctx context.Context, req ai.InterpretInput) (*ai.InterpretedRequest, error) {
	systemPrompt := buildInterpretationPrompt(req.CurrentDate)
	userPrompt := buildInterpretUserPrompt(req)

	var result ai.InterpretedRequest
	if err := generateJSON(ctx, i.client, i.logger, systemPrompt, userPrompt, &result); err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.SearchList) == "" {
		return nil, ai.ErrEmptySearchList
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	i.logger.Debug("interpreted query",
		"searchList", result.SearchList,
		"postProcessing", result.IsPostProcessingNeeded,
		"inference", result.IsInferenceNeeded)
	return &result, nil
}

// InterpretQuestion broadens a previously interpreted request whose keywords
// alone cannot answer the user's question. The broadened list lands in
// AlternativeList; the original SearchList is preserved.
func (i *Interpreter) InterpretQuestion(ctx context.Context, req ai.InterpretInput) (*ai.InterpretedRequest, error) {
	var b strings.Builder
	if req.PriorRequest != nil {
		b.WriteString("Original request: ")
		b.WriteString(marshalRequest(req.PriorRequest))
		b.WriteString("\n")
	}
	b.WriteString("User question: ")
	b.WriteString(req.UserQuery)
	userPrompt := b.String()

	var result ai.InterpretedRequest
	if err := generateJSON(ctx, i.client, i.logger, buildQuestionPrompt(), userPrompt, &result); err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.SearchList) == "" && strings.TrimSpace(result.AlternativeList) == "" {
		return nil, ai.ErrEmptySearchList
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	i.logger.Debug("broadened question",
		"searchList", result.SearchList,
		"alternativeList", result.AlternativeList)
	return &result, nil
}

// buildInterpretUserPrompt assembles the user message from the request,
// conversation history and any retry guidance.
func buildInterpretUserPrompt(req ai.InterpretInput) string {
	var b strings.Builder
	if history := buildHistoryBlock(req.History); history != "" {
		b.WriteString(history)
		b.WriteString("\n")
	}
	if req.RetryInstructions != "" {
		b.WriteString("Previous attempt failed: ")
		b.WriteString(req.RetryInstructions)
		b.WriteString("\n\n")
	}
	b.WriteString("Request: ")
	b.WriteString(req.UserQuery)
	return b.String()
}

// marshalRequest renders an interpreted request for inclusion in a follow-up
// prompt. Errors are not possible for this type; the fallback keeps callers
// simple.
func marshalRequest(req *ai.InterpretedRequest) string {
	data, err := json.Marshal(req)
	if err != nil {
		return req.SearchList
	}
	return string(data)
}
