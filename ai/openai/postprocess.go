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
	"fmt"
	"log/slog"

	"github.com/poiesic/graphseek/ai"
	"github.com/tmc/langchaingo/llms"
)

// PostProcessor implements ai.PostProcessor using OpenAI-compatible chat APIs.
type PostProcessor struct {
	client llms.Model
	logger *slog.Logger
}

// newPostProcessor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newPostProcessor(config *ai.Config) (*PostProcessor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newClient(config.CompletionHost, config.CompletionModel, config.APIKey)
	if err != nil {
		return nil, err
	}

	return &PostProcessor{
		client: client,
		logger: slog.Default().With("component", "openai-postprocessor"),
	}, nil
}

// NewPostProcessor creates a new post-processor using the provided configuration.
//
// Returns ai.PostProcessor interface to enforce abstraction.
func NewPostProcessor(config *ai.Config) (ai.PostProcessor, error) {
	return newPostProcessor(config)
}

// Synthesize answers the user's question from the rendered blocks, citing
// block uids via embed syntax.
func (p *PostProcessor) Synthesize(ctx context.Context, userQuery, rendered string) (string, error) {
	userPrompt := fmt.Sprintf("Question: %s\n\nBlocks:\n%s", userQuery, rendered)

	answer, err := generateText(ctx, p.client, p.logger, synthesisPromptTemplate, userPrompt)
	if err != nil {
		return "", err
	}

	p.logger.Debug("synthesized answer", "length", len(answer))
	return answer, nil
}
