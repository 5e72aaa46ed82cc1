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

import "strings"

// repairJSON fixes the malformed-key pattern some models emit when asked for
// structured output: the opening quote of an object key is dropped while the
// closing quote survives, e.g. `{lists": [...]}` or `, period": null`. The
// scan restores the missing quote and leaves everything else untouched, so a
// well-formed payload passes through unchanged.
func repairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	for i := 0; i < len(s); {
		c := s[i]
		b.WriteByte(c)
		i++
		if c != '{' && c != ',' {
			continue
		}

		// A key position follows. Copy whitespace, then look for a bare
		// identifier terminated by `":` where the `"` should have opened it.
		for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
			b.WriteByte(s[i])
			i++
		}
		start := i
		for i < len(s) && isKeyByte(s[i]) {
			i++
		}
		if i > start && i+1 < len(s) && s[i] == '"' && s[i+1] == ':' {
			b.WriteByte('"')
		}
		b.WriteString(s[start:i])
	}

	return b.String()
}

func isKeyByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
