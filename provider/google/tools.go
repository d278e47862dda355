package google

import (
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	ai "github.com/spindleworks/spindle"
)

func convertTools(tools []ai.Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}
	funcs := make([]*genai.FunctionDeclaration, len(tools))
	for i, t := range tools {
		params := t.Parameters
		if len(params) == 0 {
			params = ai.EmptyParameters
		}
		funcs[i] = &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  convertSchema(params),
		}
	}
	return []*genai.Tool{{FunctionDeclarations: funcs}}
}

func convertToolChoice(choice ai.ToolChoice) *genai.ToolConfig {
	mode := genai.FunctionCallingConfigModeAuto
	switch choice {
	case ai.ToolChoiceNone:
		mode = genai.FunctionCallingConfigModeNone
	case ai.ToolChoiceRequired:
		mode = genai.FunctionCallingConfigModeAny
	}
	return &genai.ToolConfig{
		FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: mode},
	}
}

// convertSchema translates a JSON Schema document into the genai Schema
// type. Only the subset the function-calling API understands is carried
// over: type, description, enum, properties, items, required.
func convertSchema(raw json.RawMessage) *genai.Schema {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &genai.Schema{Type: genai.TypeObject}
	}
	return schemaFromDoc(doc)
}

func schemaFromDoc(doc map[string]any) *genai.Schema {
	schema := &genai.Schema{Type: genaiType(doc["type"])}
	if desc, ok := doc["description"].(string); ok {
		schema.Description = desc
	}
	if enum, ok := doc["enum"].([]any); ok {
		for _, v := range enum {
			if s, ok := v.(string); ok {
				schema.Enum = append(schema.Enum, s)
			}
		}
	}
	if props, ok := doc["properties"].(map[string]any); ok {
		schema.Properties = map[string]*genai.Schema{}
		for name, sub := range props {
			if subDoc, ok := sub.(map[string]any); ok {
				schema.Properties[name] = schemaFromDoc(subDoc)
			}
		}
	}
	if items, ok := doc["items"].(map[string]any); ok {
		schema.Items = schemaFromDoc(items)
	}
	if req, ok := doc["required"].([]any); ok {
		for _, v := range req {
			if s, ok := v.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}
	return schema
}

func genaiType(t any) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeObject
	}
}

// Gemini does not assign call ids, so adapters synthesize ones that embed
// the function name. FunctionResponse parts need the name back.
func toolCallFromFunctionCall(index int, fc *genai.FunctionCall) ai.ToolCall {
	args, _ := json.Marshal(fc.Args)
	return ai.ToolCall{
		ID:        fmt.Sprintf("call_%d_%s", index, fc.Name),
		Name:      fc.Name,
		Arguments: string(args),
	}
}

func functionNameFromCallID(id string) string {
	parts := strings.SplitN(id, "_", 3)
	if len(parts) == 3 && parts[0] == "call" {
		return parts[2]
	}
	return id
}

func extractToolCalls(parts []*genai.Part) []ai.ToolCall {
	var calls []ai.ToolCall
	for _, part := range parts {
		if part.FunctionCall != nil {
			calls = append(calls, toolCallFromFunctionCall(len(calls), part.FunctionCall))
		}
	}
	return calls
}
