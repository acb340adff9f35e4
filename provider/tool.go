package provider

import (
	"fmt"

	"github.com/fogfish/opts"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ToolDeclaration describes a callable function the model may invoke instead
// of emitting free text. Parameters is a JSON schema object whose property
// order is preserved.
type ToolDeclaration struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
}

// ToolOption configures a ToolDeclaration during construction.
type ToolOption = opts.Option[ToolDeclaration]

// WithToolDescription sets the human-readable description of the tool.
var WithToolDescription = opts.ForName[ToolDeclaration, string]("Description")

// WithParameter adds one typed property to the declaration's parameter schema,
// optionally marking it required. Properties keep their declaration order.
func WithParameter(name, typeName, description string, required bool) ToolOption {
	return opts.Type[ToolDeclaration](func(td *ToolDeclaration) error {
		if name == "" {
			return fmt.Errorf("tool parameter needs a name")
		}
		if td.Parameters == nil {
			td.Parameters = emptyObjectSchema()
		}
		if td.Parameters.Properties == nil {
			td.Parameters.Properties = orderedmap.New[string, *jsonschema.Schema]()
		}
		td.Parameters.Properties.Set(name, &jsonschema.Schema{
			Type:        typeName,
			Description: description,
		})
		if required {
			td.Parameters.Required = append(td.Parameters.Required, name)
		}
		return nil
	})
}

// NewTool builds a ToolDeclaration with an empty object schema and applies
// the supplied options.
func NewTool(name string, options ...ToolOption) (ToolDeclaration, error) {
	if name == "" {
		return ToolDeclaration{}, fmt.Errorf("tool declaration needs a name")
	}
	td := ToolDeclaration{
		Name:       name,
		Parameters: emptyObjectSchema(),
	}
	if err := opts.Apply(&td, options); err != nil {
		return ToolDeclaration{}, err
	}
	return td, nil
}

// MustTool is NewTool that panics on invalid options. Intended for package
// level declarations.
func MustTool(name string, options ...ToolOption) ToolDeclaration {
	td, err := NewTool(name, options...)
	if err != nil {
		panic(err)
	}
	return td
}

func emptyObjectSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: orderedmap.New[string, *jsonschema.Schema](),
	}
}
