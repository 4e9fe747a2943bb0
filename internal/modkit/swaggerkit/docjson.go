package swaggerkit

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"sync"

	"secretsanta/internal/platform/logger"
)

//go:embed openapi.json
var rawDoc []byte

var (
	docOnce sync.Once
	docBody []byte
	docErr  error
)

// buildDoc decorates the embedded document for the API mounted under base
func buildDoc(raw []byte, base string) ([]byte, error) {
	var spec map[string]any
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, err
	}
	spec["servers"] = []any{map[string]any{"url": base}}
	addEnvelopeSchema(spec)
	eachOperation(spec, func(responses map[string]any) {
		setDefault(responses, "400", "Bad Request", map[string]any{
			"status_code": 400, "status": "Bad Request", "code": 8,
			"error": "phone must be a valid phone number", "field": "phone",
		})
		setDefault(responses, "500", "Internal Server Error", map[string]any{
			"status_code": 500, "status": "Internal Server Error", "code": 1,
			"error": "internal error",
		})
	})
	return json.Marshal(spec)
}

// addEnvelopeSchema mirrors net.Wire for error bodies
func addEnvelopeSchema(spec map[string]any) {
	comps, _ := spec["components"].(map[string]any)
	if comps == nil {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, _ := comps["schemas"].(map[string]any)
	if schemas == nil {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	schemas["Envelope"] = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
			"data":        map[string]any{},
		},
		"required": []any{"status_code", "status"},
	}
}

func eachOperation(spec map[string]any, fn func(responses map[string]any)) {
	paths, _ := spec["paths"].(map[string]any)
	for _, p := range paths {
		node, _ := p.(map[string]any)
		for method, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok || method == "parameters" {
				continue
			}
			responses, _ := op["responses"].(map[string]any)
			if responses == nil {
				responses = map[string]any{}
				op["responses"] = responses
			}
			fn(responses)
		}
	}
}

func setDefault(responses map[string]any, code, desc string, example map[string]any) {
	if _, ok := responses[code]; ok {
		return
	}
	responses[code] = map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/Envelope"},
				"example": example,
			},
		},
	}
}

func serveDocJSON(base string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docOnce.Do(func() { docBody, docErr = buildDoc(rawDoc, base) })
		if docErr != nil {
			logger.C(r.Context()).Error().Err(docErr).Msg("openapi document is invalid")
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(docBody)
	}
}
