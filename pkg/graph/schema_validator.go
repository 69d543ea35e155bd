package graph

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/PrisDen/Trednece-engine/pkg/types"
)

// graphDocumentSchema constrains the wire shape of a GraphDocument: field
// types, the edge.type enum, and the max_iterations range. This is the
// first validation step (a) in Build's order, ahead of any semantic
// (node-existence / registry) checks.
const graphDocumentSchema = `{
  "type": "object",
  "required": ["id", "start_node", "nodes", "edges"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string"},
    "start_node": {"type": "string", "minLength": 1},
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "callable"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "callable": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "metadata": {"type": "object"}
        }
      }
    },
    "edges": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["from", "to", "type"],
        "properties": {
          "from": {"type": "string", "minLength": 1},
          "to": {"type": "string", "minLength": 1},
          "type": {"type": "string", "enum": ["sequential", "branch", "loop"]},
          "condition": {
            "type": "object",
            "properties": {
              "callable": {"type": "string"},
              "expression": {"type": "string"}
            }
          },
          "loop": {
            "type": "object",
            "properties": {
              "max_iterations": {"type": "integer", "minimum": 1, "maximum": 100},
              "until_expression": {"type": "string"}
            }
          }
        }
      }
    }
  }
}`

var graphSchemaLoader = gojsonschema.NewStringLoader(graphDocumentSchema)

// ValidateDocument runs step (a) of Build's validation order: structural
// schema validation of field types and ranges against the raw document.
// It re-marshals doc to JSON rather than requiring callers to keep the
// original wire bytes around, since callers typically construct
// GraphDocument values directly rather than parsing them off the wire.
func ValidateDocument(doc types.GraphDocument) error {
	// A nil slice marshals to JSON null, which the schema would reject;
	// a graph with no edges is legal, so normalize before marshalling.
	if doc.Nodes == nil {
		doc.Nodes = []types.NodeConfig{}
	}
	if doc.Edges == nil {
		doc.Edges = []types.EdgeConfig{}
	}
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize graph document: %w", err)
	}

	documentLoader := gojsonschema.NewBytesLoader(docBytes)
	result, err := gojsonschema.Validate(graphSchemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if result.Valid() {
		return nil
	}

	descriptions := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		descriptions = append(descriptions, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return fmt.Errorf("%d schema error(s): %v", len(descriptions), descriptions)
}
