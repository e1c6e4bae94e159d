package itemapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// itemObject describes one Item. Unknown properties are allowed.
const itemObject = `{
  "type": "object",
  "properties": {
    "itemID": {"type": "integer"},
    "itemName": {"type": ["string", "null"]},
    "dueDate": {"type": ["string", "null"]},
    "itemImportance": {"type": "integer"}
  }
}`

var (
	itemSchema = jsonschema.MustCompileString("item.json", itemObject)
	listSchema = jsonschema.MustCompileString("items.json",
		fmt.Sprintf(`{"type": "array", "items": %s}`, itemObject))
)

func validate(s *jsonschema.Schema, body []byte) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return s.Validate(v)
}
