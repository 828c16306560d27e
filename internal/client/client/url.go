package client

import (
	"fmt"
	"net/url"
	"regexp"
)

var placeholder = regexp.MustCompile(`:([A-Za-z0-9_]+)`)

// BuildURL replaces every ":name" token of template whose name is a key of
// params with the value's string form. Tokens without a matching param are
// left verbatim; callers are responsible for supplying every required param.
func BuildURL(template string, params map[string]any) string {
	if len(params) == 0 {
		return template
	}
	return placeholder.ReplaceAllStringFunc(template, func(tok string) string {
		v, ok := params[tok[1:]]
		if !ok {
			return tok
		}
		return url.PathEscape(fmt.Sprint(v))
	})
}

// Query converts filters into url.Values, skipping empty values.
func Query(filters map[string]string) url.Values {
	if len(filters) == 0 {
		return nil
	}
	q := url.Values{}
	for k, v := range filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}
