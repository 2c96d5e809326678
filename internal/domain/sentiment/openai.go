package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const modelScorerPrompt = `You score the sentiment of business review text.
Return neg, neu and pos as non-negative proportions that sum to 1, and
compound as an overall polarity in [-1, 1]. Score the text exactly as given;
do not explain.`

const (
	modelMaxOutputTokens = 200
	modelMaxRetries      = 3
)

// modelPolarity mirrors the structured output schema sent to the model.
type modelPolarity struct {
	Neg      float64 `json:"neg"`
	Neu      float64 `json:"neu"`
	Pos      float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

var polaritySchema = generateSchema[modelPolarity]()

// ModelScorer scores review text with an OpenAI model using structured
// outputs. It is the optional backend behind sentiment_backend: openai; the
// lexicon scorer remains the default because the pipeline core must work
// offline.
type ModelScorer struct {
	client *openai.Client
	model  string
}

// NewModelScorer creates a model-backed scorer.
func NewModelScorer(apiKey, model string) *ModelScorer {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &ModelScorer{client: &client, model: model}
}

// Score asks the model for a polarity and validates the shape. Empty text
// short-circuits to neutral without a network call.
func (s *ModelScorer) Score(ctx context.Context, text string) (Polarity, error) {
	if strings.TrimSpace(text) == "" {
		return Neutral(), nil
	}

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "ReviewPolarity",
			Schema:      polaritySchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Review polarity JSON"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           s.model,
		MaxOutputTokens: openai.Int(modelMaxOutputTokens),
		Instructions:    openai.String(modelScorerPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := callWithRetry(ctx, s.client, params)
	if err != nil {
		return Polarity{}, err
	}

	var out modelPolarity
	if err := json.Unmarshal([]byte(resp.OutputText()), &out); err != nil {
		return Polarity{}, fmt.Errorf("%w: %w", ErrModelRefused, err)
	}
	return normalizePolarity(out)
}

// normalizePolarity clamps and renormalizes the model output so the partition
// invariant holds regardless of what the model returned.
func normalizePolarity(out modelPolarity) (Polarity, error) {
	neg := math.Max(0, out.Neg)
	neu := math.Max(0, out.Neu)
	pos := math.Max(0, out.Pos)
	total := neg + neu + pos
	if total == 0 {
		return Polarity{}, ErrModelRefused
	}
	return Polarity{
		Neg:      neg / total,
		Neu:      neu / total,
		Pos:      pos / total,
		Compound: math.Max(-1, math.Min(1, out.Compound)),
	}, nil
}

func callWithRetry(ctx context.Context, client *openai.Client, params responses.ResponseNewParams) (*responses.Response, error) {
	rateLimitWaits := []time.Duration{30 * time.Second, 60 * time.Second, 90 * time.Second}
	serverErrorWaits := []time.Duration{5 * time.Second, 15 * time.Second, 30 * time.Second}

	var lastErr error
	for attempt := 0; attempt < modelMaxRetries; attempt++ {
		resp, err := client.Responses.New(ctx, params)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		var wait time.Duration
		switch {
		case isRateLimitError(err):
			wait = rateLimitWaits[attempt]
		case isServerError(err):
			wait = serverErrorWaits[attempt]
		default:
			return nil, err
		}
		if attempt == modelMaxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("failed after %d attempts: %w", modelMaxRetries, lastErr)
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests")
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "500") ||
		strings.Contains(msg, "502") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "internal server error") ||
		strings.Contains(msg, "server_error")
}

func generateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	ensureStrictSchema(m)
	return m
}

// ensureStrictSchema marks every object closed and all properties required,
// as the structured-output API demands.
func ensureStrictSchema(schema map[string]interface{}) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
		if props, ok := schema["properties"].(map[string]interface{}); ok {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			if len(required) > 0 {
				schema["required"] = required
			}
		}
	}
	for _, key := range []string{"properties", "items", "additionalProperties"} {
		if sub, ok := schema[key].(map[string]interface{}); ok {
			if key == "properties" {
				for _, prop := range sub {
					if propMap, ok := prop.(map[string]interface{}); ok {
						ensureStrictSchema(propMap)
					}
				}
				continue
			}
			ensureStrictSchema(sub)
		}
	}
}
