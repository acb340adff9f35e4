package gemini

import (
	"github.com/invopop/jsonschema"
	"github.com/watchhouse/descry/provider"
	"google.golang.org/genai"
)

// declarations converts tool declarations into the SDK's function
// declaration form, preserving property order.
func declarations(tools []provider.ToolDeclaration) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  parameterSchema(t.Parameters),
		})
	}
	return decls
}

// parameterSchema flattens a JSON schema object into the Gemini schema form:
// one level of typed properties plus the required set.
func parameterSchema(schema *jsonschema.Schema) *genai.Schema {
	out := &genai.Schema{Type: genai.TypeObject}
	if schema == nil {
		return out
	}
	if schema.Properties != nil && schema.Properties.Len() > 0 {
		out.Properties = make(map[string]*genai.Schema, schema.Properties.Len())
		for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties[pair.Key] = &genai.Schema{
				Type:        schemaType(pair.Value.Type),
				Description: pair.Value.Description,
			}
		}
	}
	out.Required = schema.Required
	return out
}

// schemaType translates a JSON schema type name. Unrecognized names fall back
// to string rather than failing the declaration.
func schemaType(name string) genai.Type {
	switch name {
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
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}
