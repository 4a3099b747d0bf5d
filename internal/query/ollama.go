package query

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/tidwall/gjson"
)

// systemPrompt pins the model to the filter schema. The JSON format
// constraint on the request does the heavy lifting; the prompt names
// the keys and forbids inventing ones we do not filter on.
const systemPrompt = `You translate questions about a student roster into a JSON filter object.
Allowed keys: "age_min" (int), "age_max" (int), "gender" ("Male" or "Female"), "major" (string), "name_part" (string).
Only include keys the question actually constrains. If the question contains no usable constraint, return {}.
Return the JSON object only, no prose.`

// OllamaAgent is an Agent backed by a local LLM served by ollama.
// It asks the model for a JSON filter object and extracts the known
// keys from the reply, ignoring anything else the model made up.
type OllamaAgent struct {
	client *api.Client
	model  string
}

// NewOllamaAgent builds an agent talking to the ollama server at host
// (empty host falls back to the OLLAMA_HOST environment variable and
// then the default localhost address).
func NewOllamaAgent(host, model string) (*OllamaAgent, error) {
	if model == "" {
		return nil, fmt.Errorf("ollama agent: model name is required")
	}

	if host == "" {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("ollama agent: client from environment: %w", err)
		}
		return &OllamaAgent{client: client, model: model}, nil
	}

	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("ollama agent: parse host %q: %w", host, err)
	}
	return &OllamaAgent{
		client: api.NewClient(base, http.DefaultClient),
		model:  model,
	}, nil
}

// ParseQuery sends the text to the model and converts its JSON reply
// into Filters. Transport failures surface as plain errors; a reply
// with no usable filter fails with ErrUnparseable per the contract.
func (a *OllamaAgent) ParseQuery(ctx context.Context, text string) (Filters, error) {
	if strings.TrimSpace(text) == "" {
		return Filters{}, fmt.Errorf("empty query text: %w", ErrUnparseable)
	}

	stream := false
	req := &api.ChatRequest{
		Model: a.model,
		Messages: []api.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		// `"json"` constrains the model to emit a single JSON value.
		Format: json.RawMessage(`"json"`),
		Stream: &stream,
		// Deterministic parsing beats creative parsing here.
		Options: map[string]any{"temperature": 0},
	}

	var reply strings.Builder
	err := a.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return Filters{}, fmt.Errorf("ollama agent: chat: %w", err)
	}

	return filtersFromJSON(reply.String())
}

// filtersFromJSON extracts the known filter keys from a raw JSON reply.
// gjson tolerates the trailing noise some models append after the
// object, so we pick fields instead of strict-unmarshalling the whole
// reply into the struct.
func filtersFromJSON(raw string) (Filters, error) {
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return Filters{}, fmt.Errorf("model reply %q is not a JSON object: %w", raw, ErrUnparseable)
	}

	var f Filters
	if v := doc.Get("age_min"); v.Exists() {
		f.AgeMin = int(v.Int())
	}
	if v := doc.Get("age_max"); v.Exists() {
		f.AgeMax = int(v.Int())
	}
	if v := doc.Get("gender"); v.Exists() {
		f.Gender = v.String()
	}
	if v := doc.Get("major"); v.Exists() {
		f.Major = v.String()
	}
	if v := doc.Get("name_part"); v.Exists() {
		f.NamePart = v.String()
	}

	if f.IsZero() {
		return Filters{}, fmt.Errorf("model extracted no filtering parameters: %w", ErrUnparseable)
	}
	return f, nil
}
