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
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/graphseek/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// newClient creates a langchaingo OpenAI client for the given host and model.
// Use "none" as token for local OpenAI-compatible services that don't require
// authentication.
func newClient(host, model, apiKey string) (llms.Model, error) {
	token := apiKey
	if token == "" {
		token = "none"
	}
	return openai.New(
		openai.WithBaseURL(host),
		openai.WithToken(token),
		openai.WithModel(model),
	)
}

// generateJSON runs a chat completion in JSON mode and unmarshals the response
// into out. It tries up to 3 times in case of malformed JSON, stripping
// markdown code fences and repairing common formatting issues between
// attempts.
func generateJSON(ctx context.Context, client llms.Model, logger *slog.Logger, systemPrompt, userPrompt string, out any) error {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return err
		}

		if len(response.Choices) < 1 {
			logger.Debug("no choices returned from model")
			return fmt.Errorf("%w: empty response", ai.ErrUnparsedOutput)
		}

		responseText := stripCodeFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), out); err != nil {
			lastErr = err
			logger.Warn("error parsing model response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		return nil
	}

	logger.Error("failed to parse model response after retries", "err", lastErr)
	return fmt.Errorf("%w: %v", ai.ErrUnparsedOutput, lastErr)
}

// generateText runs a plain chat completion and returns the response text.
func generateText(ctx context.Context, client llms.Model, logger *slog.Logger, systemPrompt, userPrompt string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	response, err := client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		logger.Error("failed to generate content", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		logger.Debug("no choices returned from model")
		return "", fmt.Errorf("%w: empty response", ai.ErrUnparsedOutput)
	}
	return strings.TrimSpace(response.Choices[0].Content), nil
}

// stripCodeFences removes markdown code fences around a JSON payload.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
