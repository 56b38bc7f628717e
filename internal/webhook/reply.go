package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
)

var ErrMalformedReply = errors.New("malformed chat reply")

// ChatReply is the normalized bot answer. The webhook replies with one of
// several text fields depending on how the workflow was built.
type ChatReply struct {
	Text     string `json:"text" mapstructure:"text"`
	Output   string `json:"-" mapstructure:"output"`
	Response string `json:"-" mapstructure:"response"`
	Message  string `json:"-" mapstructure:"message"`
	Content  string `json:"-" mapstructure:"content"`
}

var chatReplySchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"properties": {
		"text":     {"type": "string"},
		"output":   {"type": "string"},
		"response": {"type": "string"},
		"message":  {"type": "string"},
		"content":  {"type": "string"}
	},
	"anyOf": [
		{"required": ["text"]},
		{"required": ["output"]},
		{"required": ["response"]},
		{"required": ["message"]},
		{"required": ["content"]}
	]
}`)

// parseChatReply accepts plain text, a JSON string, a JSON object or a JSON
// array whose first element is the reply object.
func parseChatReply(body []byte) (*ChatReply, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return &ChatReply{Text: strings.TrimSpace(string(body))}, nil
	}
	if s, ok := doc.(string); ok {
		return &ChatReply{Text: s}, nil
	}
	if arr, ok := doc.([]any); ok {
		if len(arr) == 0 {
			return nil, fmt.Errorf("%w: empty array", ErrMalformedReply)
		}
		doc = arr[0]
	}

	result, err := gojsonschema.Validate(chatReplySchema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedReply, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, errs)
	}

	var reply ChatReply
	if err := mapstructure.Decode(doc, &reply); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedReply, err)
	}
	reply.Text = firstNonEmpty(reply.Text, reply.Output, reply.Response, reply.Message, reply.Content)
	return &reply, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
