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


// Package openai provides AI service implementations using OpenAI-compatible APIs.
//
// This package implements the ai.AIProvider interface using the langchaingo
// library to communicate with OpenAI or OpenAI-compatible services (such as
// Ollama, LocalAI, or vLLM).
//
// Structured calls (interpretation, expansion, preselection, cache routing)
// run in JSON mode at temperature 0 and go through a shared parse-and-repair
// loop that strips markdown fences and fixes common key-quoting mistakes
// before giving up. Answer synthesis is a plain text completion.
//
// # Usage
//
//	config := ai.DefaultConfig()
//	// Or customize:
//	config := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"),  // /v1 added automatically
//	    ai.WithInterpreterModel("qwen2.5:3b"),
//	    ai.WithCompletionModel("qwen2.5:7b"),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	req, err := provider.QueryInterpreter().InterpretQuery(ctx, ai.InterpretInput{
//	    UserQuery:   "notes about travel plans",
//	    CurrentDate: time.Now(),
//	})
package openai
