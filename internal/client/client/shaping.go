package client

import (
	"bytes"
	"encoding/json"
)

// Resource names used as FieldPolicy keys.
const (
	ResourceAuth          = "auth"
	ResourceCompanies     = "companies"
	ResourceCrons         = "crons"
	ResourceSearchResults = "searchResults"
	ResourceDashboard     = "dashboard"
)

// FieldPolicy lists, per resource, the fields removed from every incoming
// JSON object (or from each object of an incoming array) before decoding.
type FieldPolicy map[string][]string

// DefaultFieldPolicy drops the scheduler's run bookkeeping from crons.
// searchCount is kept: the dashboard displays it.
func DefaultFieldPolicy() FieldPolicy {
	return FieldPolicy{
		ResourceCrons: {"lastRunAt"},
	}
}

// Shape returns body with the policy's fields for resource removed. Bodies
// that are not objects or arrays of objects are returned untouched.
func (p FieldPolicy) Shape(resource string, body []byte) ([]byte, error) {
	drop := p[resource]
	if len(drop) == 0 || len(body) == 0 {
		return body, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	changed := false
	strip := func(v any) {
		obj, ok := v.(map[string]any)
		if !ok {
			return
		}
		for _, f := range drop {
			if _, ok := obj[f]; ok {
				delete(obj, f)
				changed = true
			}
		}
	}

	switch d := doc.(type) {
	case map[string]any:
		strip(d)
	case []any:
		for _, item := range d {
			strip(item)
		}
	}

	if !changed {
		return body, nil
	}
	return json.Marshal(doc)
}
