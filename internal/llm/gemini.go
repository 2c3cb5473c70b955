package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

type geminiProvider struct {
	client *genai.Client
	model  string
}

func newGemini(ctx context.Context, cfg Config) (*geminiProvider, error) {
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &geminiProvider{client: client, model: cfg.model()}, nil
}

func (p *geminiProvider) ModelID() string { return p.model }

func (p *geminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	gc := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if req.Temperature > 0 {
		gc.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("marshal schema %q: %w", req.Schema.Name, err)
		}
		gc.ResponseMIMEType = "application/json"
		gc.ResponseSchema = geminiSchema(gjson.ParseBytes(def))
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, gc)
	if err != nil {
		status := 0
		var apiErr genai.APIError
		var apiErrPtr *genai.APIError
		switch {
		case errors.As(err, &apiErr):
			status = apiErr.Code
		case errors.As(err, &apiErrPtr):
			status = apiErrPtr.Code
		}
		return nil, classify(status, err)
	}

	stop := StopEnd
	if len(result.Candidates) > 0 && result.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		stop = StopMaxTokens
	}
	var usage Usage
	if u := result.UsageMetadata; u != nil {
		usage = Usage{InputTokens: int(u.PromptTokenCount), OutputTokens: int(u.CandidatesTokenCount)}
	}
	model := p.model
	if result.ModelVersion != "" {
		model = result.ModelVersion
	}
	return finish(req, []byte(result.Text()), usage, model, stop)
}

var geminiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

// geminiSchema converts the JSON Schema subset Gemini accepts. Unknown
// types fall back to string.
func geminiSchema(def gjson.Result) *genai.Schema {
	s := &genai.Schema{
		Type:        genai.TypeString,
		Description: def.Get("description").String(),
	}
	if t, ok := geminiTypes[def.Get("type").String()]; ok {
		s.Type = t
	}
	if props := def.Get("properties"); props.IsObject() {
		s.Properties = map[string]*genai.Schema{}
		props.ForEach(func(k, v gjson.Result) bool {
			if v.IsObject() {
				s.Properties[k.String()] = geminiSchema(v)
				s.PropertyOrdering = append(s.PropertyOrdering, k.String())
			}
			return true
		})
	}
	for _, r := range def.Get("required").Array() {
		s.Required = append(s.Required, r.String())
	}
	for _, e := range def.Get("enum").Array() {
		s.Enum = append(s.Enum, e.String())
	}
	if items := def.Get("items"); items.IsObject() {
		s.Items = geminiSchema(items)
	}
	if n := def.Get("minItems"); n.Exists() {
		s.MinItems = genai.Ptr(n.Int())
	}
	if n := def.Get("maxItems"); n.Exists() {
		s.MaxItems = genai.Ptr(n.Int())
	}
	return s
}
