// Package parser extracts quiz questions from untrusted model output.
package parser

import (
	"bytes"
	"encoding/json"
	"strings"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/logger"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// questionSchema is the structural contract for one element. Semantic checks
// (trimmed text, answer among options) run afterwards in domain.QuizQuestion.Validate.
const questionSchema = `{
  "type": "object",
  "required": ["question", "options", "answer"],
  "properties": {
    "question": {"type": "string", "minLength": 1},
    "options": {
      "type": "array",
      "minItems": 4,
      "maxItems": 4,
      "items": {"type": "string"}
    },
    "answer": {"type": "string", "minLength": 1}
  }
}`

var compiledSchema = mustCompileSchema(questionSchema)

func mustCompileSchema(schema string) *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic("parser: invalid question schema: " + err.Error())
	}
	return compiled
}

// Parser is the stateless domain.ResponseParser implementation.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(raw string) []domain.QuizQuestion {
	return Parse(raw)
}

var _ domain.ResponseParser = (*Parser)(nil)

// rawQuestion mirrors the JSON object the prompt asks for.
type rawQuestion struct {
	Question *string  `json:"question"`
	Options  []string `json:"options"`
	Answer   *string  `json:"answer"`
}

// Parse never fails: anything it cannot understand yields an empty slice.
// Steps, stopping at the first that produces elements:
//  1. drop <think> blocks and a code fence wrapping the whole text
//  2. decode the first bracket-balanced array of objects
//  3. decode the whole text (an array, or an object with a "questions" array)
//  4. salvage complete objects from an array cut off mid-way
//
// Every element is then validated; invalid ones are dropped.
func Parse(raw string) []domain.QuizQuestion {
	text := StripFence(stripThink(strings.TrimSpace(raw)))
	if text == "" {
		return []domain.QuizQuestion{}
	}

	elements, ok := decodeBalanced(text)
	if !ok {
		elements, ok = decodeWhole(text)
	}
	if !ok {
		elements = salvageTruncated(text)
	}
	return validate(elements)
}

func stripThink(text string) string {
	for {
		start := strings.Index(text, "<think>")
		if start == -1 {
			return text
		}
		end := strings.Index(text[start:], "</think>")
		if end == -1 {
			return text
		}
		text = strings.TrimSpace(text[:start] + text[start+end+len("</think>"):])
	}
}

// StripFence removes a ``` or ```json fence that wraps the entire text.
func StripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") || len(text) < 6 {
		return text
	}
	inner := text[3 : len(text)-3]
	if nl := strings.IndexByte(inner, '\n'); nl != -1 {
		tag := strings.TrimSpace(inner[:nl])
		if tag == "" || strings.EqualFold(tag, "json") {
			inner = inner[nl+1:]
		}
	} else if len(inner) >= 4 && strings.EqualFold(inner[:4], "json") {
		inner = inner[4:]
	}
	return strings.TrimSpace(inner)
}

// decodeBalanced looks for the first '[' whose first element is an object and
// whose matching ']' exists, then decodes that span.
func decodeBalanced(text string) ([]json.RawMessage, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '[' || !startsWithObject(text[i+1:]) {
			continue
		}
		end, ok := matchingBracket(text, i)
		if !ok {
			return nil, false
		}
		var elements []json.RawMessage
		if err := json.Unmarshal([]byte(text[i:end+1]), &elements); err != nil {
			logger.Get().Debug("Balanced JSON array did not decode",
				zap.String("code", string(domain.CodeParseError)), zap.Error(err))
			return nil, false
		}
		return elements, true
	}
	return nil, false
}

func startsWithObject(s string) bool {
	s = strings.TrimLeft(s, " \t\r\n")
	return strings.HasPrefix(s, "{")
}

// matchingBracket returns the index of the ']' closing the '[' at open,
// skipping brackets and braces that appear inside JSON strings.
func matchingBracket(text string, open int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				if c != ']' {
					return 0, false
				}
				return i, true
			}
		}
	}
	return 0, false
}

func decodeWhole(text string) ([]json.RawMessage, bool) {
	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(text), &elements); err == nil {
		return elements, true
	}

	var wrapper struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal([]byte(text), &wrapper); err == nil && wrapper.Questions != nil {
		return wrapper.Questions, true
	}
	return nil, false
}

// salvageTruncated keeps the complete leading objects of an array whose tail
// was cut off, e.g. by the token budget.
func salvageTruncated(text string) []json.RawMessage {
	start := -1
	for i := 0; i < len(text); i++ {
		if text[i] == '[' && startsWithObject(text[i+1:]) {
			start = i
			break
		}
	}
	if start == -1 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text[start:])))
	if _, err := dec.Token(); err != nil {
		return nil
	}
	var elements []json.RawMessage
	for dec.More() {
		var el json.RawMessage
		if err := dec.Decode(&el); err != nil {
			break
		}
		elements = append(elements, el)
	}
	if len(elements) > 0 {
		logger.Get().Debug("Salvaged questions from truncated model output",
			zap.String("code", string(domain.CodeParseError)), zap.Int("count", len(elements)))
	}
	return elements
}

func validate(elements []json.RawMessage) []domain.QuizQuestion {
	questions := make([]domain.QuizQuestion, 0, len(elements))
	for i, el := range elements {
		q, err := toQuestion(el)
		if err != nil {
			logger.Get().Debug("Dropping invalid question",
				zap.String("code", string(domain.CodeParseError)),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		questions = append(questions, q)
	}
	return questions
}

func toQuestion(el json.RawMessage) (domain.QuizQuestion, error) {
	if err := checkSchema(el); err != nil {
		return domain.QuizQuestion{}, err
	}

	var rq rawQuestion
	if err := json.Unmarshal(el, &rq); err != nil {
		return domain.QuizQuestion{}, err
	}
	if rq.Question == nil || rq.Answer == nil || rq.Options == nil {
		return domain.QuizQuestion{}, domain.NewValidationError("question, options and answer are required")
	}

	q := domain.QuizQuestion{
		Question: strings.TrimSpace(*rq.Question),
		Options:  make([]string, len(rq.Options)),
		Answer:   strings.TrimSpace(*rq.Answer),
	}
	for i, opt := range rq.Options {
		q.Options[i] = strings.TrimSpace(opt)
	}
	q.Answer = canonicalAnswer(q.Answer, q.Options)

	if err := q.Validate(); err != nil {
		return domain.QuizQuestion{}, err
	}
	return q, nil
}

func checkSchema(el json.RawMessage) error {
	result, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(el))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return domain.NewValidationError(strings.Join(msgs, "; "))
}

// canonicalAnswer maps an answer that differs from an option only by letter
// case onto that option's exact text.
func canonicalAnswer(answer string, options []string) string {
	for _, opt := range options {
		if opt == answer {
			return answer
		}
	}
	for _, opt := range options {
		if strings.EqualFold(opt, answer) {
			return opt
		}
	}
	return answer
}
