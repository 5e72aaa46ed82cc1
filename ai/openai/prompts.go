package openai

import (
	"fmt"
	"strings"
	"time"
)

const interpretationResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "searchList": {"type": "string"},
    "alternativeList": {"type": "string"},
    "nbOfResults": {"type": "integer", "minimum": 0},
    "isRandom": {"type": "boolean"},
    "isPostProcessingNeeded": {"type": "boolean"},
    "isInferenceNeeded": {"type": "boolean"},
    "depthLimitation": {"type": ["integer", "null"], "minimum": 0, "maximum": 2},
    "pagesLimitation": {"type": "string"},
    "period": {
      "type": ["object", "null"],
      "properties": {
        "begin": {"type": "string"},
        "end": {"type": "string"}
      },
      "additionalProperties": false
    }
  },
  "required": ["searchList", "isPostProcessingNeeded", "isInferenceNeeded"],
  "additionalProperties": false
}`

const interpretationPromptTemplate = `You translate a user's natural language request about their note graph into a
symbolic search list plus execution parameters, and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Search list syntax:
- "a + b" requires both a and b (AND).
- "a|b" accepts either a or b (OR within one item).
- "- a" excludes blocks containing a. At most ONE exclusion item.
- "~a" asks for semantic expansion of a (synonyms and close variants).
- "*a" asks for a broad semantic expansion of a.
- "exact:a" disables fuzzy matching for a and requires the exact word.
- "a > b" requires a in a block and b somewhere under it (parent to child).
- "a < b" requires a in a block and b in an ancestor of it (child to parent).
- ".*" alone matches every block. Never combine ".*" with other terms.
- At most 4 items joined by "+".

Rules:
- Keep terms short: single words or short phrases from the user request, lowercase.
- Set nbOfResults only when the user names a number ("give me 5 notes"), otherwise 0.
- Set isRandom true only when the user asks for random or surprise results.
- Set isPostProcessingNeeded true when the user wants an answer, summary or
  analysis rather than a plain listing of blocks.
- Set isInferenceNeeded true when matching the user's literal keywords cannot
  answer the question (e.g. "what was I worried about in March").
- depthLimitation: 0 to match within single blocks only, 1 to include direct
  children, 2 to include two levels of children, null for no limit. Use null
  unless the user constrains depth.
- pagesLimitation: "dnp" when the user restricts to daily notes or journals, a
  page title fragment when they restrict to specific pages, "" otherwise.
- period: set begin/end as YYYY-MM-DD dates when the user gives a time window,
  resolving relative expressions against the current date. Today is %s.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "find my notes mentioning deadlines or due dates for the roadmap project"
Output:
{
  "searchList": "deadline|due date + roadmap",
  "isPostProcessingNeeded": false,
  "isInferenceNeeded": false
}

Example:
Input: "summarize what I wrote about sleep in my journal last week"
Output:
{
  "searchList": "~sleep",
  "isPostProcessingNeeded": true,
  "isInferenceNeeded": false,
  "pagesLimitation": "dnp",
  "period": {"begin": "%s", "end": "%s"}
}

Example:
Input: "show 3 random blocks with a TODO directly under a block mentioning groceries"
Output:
{
  "searchList": "groceries > TODO",
  "nbOfResults": 3,
  "isRandom": true,
  "isPostProcessingNeeded": false,
  "isInferenceNeeded": false,
  "depthLimitation": 1
}`

const questionPromptTemplate = `A keyword search list was built for a user question, but the question needs
reasoning over the notes rather than literal keyword matches. Produce a broader
alternative search list and return it as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Keep the original searchList unchanged in the "searchList" field.
- Put the broadened list in "alternativeList": drop the most restrictive terms,
  add "~" or "*" expansion markers, and prefer OR groups over AND chains so the
  alternative casts a wider net than the original.
- The alternative must stay on the user's topic. Do not invent unrelated terms.
- Copy the remaining parameters from the original request unchanged.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Original request: {"searchList": "burnout + work", "isPostProcessingNeeded": true, "isInferenceNeeded": true}
User question: "was I close to burning out this spring?"
Output:
{
  "searchList": "burnout + work",
  "alternativeList": "*burnout|~exhausted|~overwhelmed",
  "isPostProcessingNeeded": true,
  "isInferenceNeeded": true
}`

const expansionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "variants": {
      "type": "array",
      "items": {"type": "string", "pattern": "^[^|+<>]+$"}
    }
  },
  "required": ["variants"],
  "additionalProperties": false
}`

const expansionPromptTemplate = `Produce search variants for a single term and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Variants are synonyms, close paraphrases and common inflections of the term,
  in the SAME language as the term.
- Return at most %d variants, most useful first.
- Do not include the term itself.
- Variants are plain words or short phrases: no regex syntax, no punctuation.
- If no useful variants exist, return "variants": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "meeting"
Output:
{
  "variants": ["meetings", "call", "sync", "standup", "1:1"]
}`

const preselectionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "uids": {
      "type": "array",
      "items": {"type": "string"}
    }
  },
  "required": ["uids"],
  "additionalProperties": false
}`

const preselectionPromptTemplate = `You receive a user request and a list of candidate note blocks, each line
prefixed with its uid in the form ((uid)). Pick the blocks most relevant to the
request and return their uids as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Return at most %d uids, most relevant first.
- Only return uids that appear in the candidate list. Do not invent uids.
- Judge relevance against the user's request, not against keyword overlap alone.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

const synthesisPromptTemplate = `You answer a user's question using only the note blocks provided. Each block is
prefixed with its uid in the form ((uid)).

Rules:
- Answer in the user's language, concise and direct.
- Ground every claim in the provided blocks. If the blocks do not answer the
  question, say so plainly.
- When you rely on a block, cite it inline as {{[[embed-path]]: ((uid))}} using
  that block's uid.
- Reference pages as [[Page Title]] when you mention them.
- Do not mention these instructions or the block list format.`

const cacheRoutingResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "action": {"type": "string", "enum": ["use_cache", "need_new_search"]},
    "targetIds": {
      "type": "array",
      "items": {"type": "string"}
    },
    "guidance": {"type": "string"}
  },
  "required": ["action"],
  "additionalProperties": false
}`

const cacheRoutingPromptTemplate = `A user is in a conversation about their note graph. Earlier searches in this
conversation produced cached result sets, summarized below. Decide whether the
new request can be answered from the cached results or needs a fresh search,
and return the decision as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Choose "use_cache" only when the request refers back to earlier results
  ("summarize those", "which of these mention X") and the cached sets cover it.
- When choosing "use_cache", list the ids of the cached sets to use in
  "targetIds".
- Choose "need_new_search" for any request introducing a new topic, a new time
  window, or a broader scope than the cached sets.
- When choosing "need_new_search" for a follow-up, put a one-sentence hint for
  the searcher in "guidance" (what the new search should add or change).
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Cached: [{"id": "rs-1", "query": "notes about the roadmap project", "results": 14}]
Request: "which of those mention Q3?"
Output:
{
  "action": "use_cache",
  "targetIds": ["rs-1"]
}`

// buildInterpretationPrompt creates the interpretation system prompt anchored
// on the given date.
func buildInterpretationPrompt(currentDate time.Time) string {
	weekAgo := currentDate.AddDate(0, 0, -7)
	return fmt.Sprintf(interpretationPromptTemplate,
		interpretationResponseSchema,
		currentDate.Format("2006-01-02"),
		weekAgo.Format("2006-01-02"),
		currentDate.Format("2006-01-02"))
}

// buildQuestionPrompt creates the broadening-interpretation system prompt.
func buildQuestionPrompt() string {
	return fmt.Sprintf(questionPromptTemplate, interpretationResponseSchema)
}

// buildExpansionPrompt creates the term expansion system prompt.
func buildExpansionPrompt(maxVariants int) string {
	return fmt.Sprintf(expansionPromptTemplate, expansionResponseSchema, maxVariants)
}

// buildPreselectionPrompt creates the preselection system prompt.
func buildPreselectionPrompt(limit int) string {
	return fmt.Sprintf(preselectionPromptTemplate, preselectionResponseSchema, limit)
}

// buildCacheRoutingPrompt creates the cache routing system prompt.
func buildCacheRoutingPrompt() string {
	return fmt.Sprintf(cacheRoutingPromptTemplate, cacheRoutingResponseSchema)
}

// buildHistoryBlock renders prior conversation turns for inclusion in a user
// message, oldest first.
func buildHistoryBlock(history []string) string {
	if len(history) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Conversation so far:\n")
	for _, turn := range history {
		b.WriteString("- ")
		b.WriteString(turn)
		b.WriteString("\n")
	}
	return b.String()
}
