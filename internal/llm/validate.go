package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled holds one schema compilation, keyed by Schema.Name in schemas.
type compiled struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

var schemas sync.Map // name -> *compiled

// conform checks that raw is a JSON document matching schema and returns
// it with surrounding whitespace and any markdown code fence removed.
// A nil schema passes raw through untouched.
func conform(schema *Schema, raw json.RawMessage) (json.RawMessage, error) {
	if schema == nil {
		return raw, nil
	}

	body := unfence(raw)
	if len(body) == 0 {
		return nil, &ErrInvalidResponse{Schema: schema.Name, Content: raw, Err: errors.New("empty response")}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return nil, &ErrInvalidResponse{Schema: schema.Name, Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	sch, err := compileSchema(schema)
	if err != nil {
		return nil, &ErrInvalidResponse{Schema: schema.Name, Content: raw, Err: err}
	}
	if err := sch.Validate(doc); err != nil {
		return nil, &ErrInvalidResponse{Schema: schema.Name, Content: raw, Err: err}
	}
	return body, nil
}

// unfence strips whitespace and a ```json ... ``` wrapper some models put
// around structured output.
func unfence(raw []byte) []byte {
	b := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	b = b[3:]
	if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
		b = b[nl+1:]
	} else {
		b = bytes.TrimPrefix(b, []byte("json"))
	}
	b = bytes.TrimSpace(b)
	b = bytes.TrimSuffix(b, []byte("```"))
	return bytes.TrimSpace(b)
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	v, _ := schemas.LoadOrStore(schema.Name, &compiled{})
	c := v.(*compiled)
	c.once.Do(func() {
		raw, err := json.Marshal(schema.Definition)
		if err != nil {
			c.err = fmt.Errorf("marshal %s schema: %w", schema.Name, err)
			return
		}
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			c.err = fmt.Errorf("parse %s schema: %w", schema.Name, err)
			return
		}
		url := "schema://" + schema.Name + ".json"
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(url, def); err != nil {
			c.err = fmt.Errorf("add %s schema: %w", schema.Name, err)
			return
		}
		c.schema, c.err = compiler.Compile(url)
	})
	return c.schema, c.err
}
