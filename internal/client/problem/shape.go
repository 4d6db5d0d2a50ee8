package problem

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	apierrors "github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/errors"
)

// Shape is one of the error-body conventions the backend is known to use.
// The concrete types are TitledProblem, ErrorList, DetailProblem, RawText
// and Unrecognized.
type Shape interface {
	Messages() []string
	shape()
}

// TitledProblem is an RFC 7807 style body with a title and optional errors.
type TitledProblem struct {
	Title  string
	Errors []string
}

// ErrorList is a body carrying only an errors collection.
type ErrorList struct {
	Errors []string
}

// DetailProblem is a body carrying only a detail string.
type DetailProblem struct {
	Detail string
}

// RawText is a non-JSON body returned verbatim.
type RawText struct {
	Text string
}

// Unrecognized is any body that matches none of the known shapes.
type Unrecognized struct{}

func (p TitledProblem) Messages() []string {
	return append([]string{p.Title}, p.Errors...)
}

func (p ErrorList) Messages() []string {
	out := make([]string, len(p.Errors))
	copy(out, p.Errors)
	return out
}

func (p DetailProblem) Messages() []string { return []string{p.Detail} }

func (p RawText) Messages() []string { return []string{p.Text} }

func (Unrecognized) Messages() []string { return []string{apierrors.UnknownErrorMessage} }

func (TitledProblem) shape() {}
func (ErrorList) shape()     {}
func (DetailProblem) shape() {}
func (RawText) shape()       {}
func (Unrecognized) shape()  {}

type envelope struct {
	Title  any `json:"title"`
	Errors any `json:"errors"`
	Detail any `json:"detail"`
}

// ParseJSON classifies a JSON error body. Matching is ordered: a truthy
// title wins, then an errors collection, then a truthy detail.
func ParseJSON(body []byte) (Shape, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Unrecognized{}, fmt.Errorf("decode error body: %w", err)
	}

	errs, hasErrors := flattenErrors(env.Errors)

	switch {
	case truthy(env.Title):
		return TitledProblem{Title: render(env.Title), Errors: errs}, nil
	case hasErrors:
		return ErrorList{Errors: errs}, nil
	case truthy(env.Detail):
		return DetailProblem{Detail: render(env.Detail)}, nil
	default:
		return Unrecognized{}, nil
	}
}

// flattenErrors accepts an array of messages or a map of field to messages.
// Map keys are visited in sorted order. A map that yields no messages does
// not count as an errors collection.
func flattenErrors(v any) ([]string, bool) {
	switch errs := v.(type) {
	case []any:
		out := make([]string, 0, len(errs))
		for _, e := range errs {
			out = append(out, render(e))
		}
		return out, true
	case map[string]any:
		keys := make([]string, 0, len(errs))
		for k := range errs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var out []string
		for _, k := range keys {
			if list, ok := errs[k].([]any); ok {
				for _, e := range list {
					out = append(out, render(e))
				}
				continue
			}
			out = append(out, render(errs[k]))
		}
		return out, len(out) > 0
	default:
		return nil, false
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	default:
		return true
	}
}

func render(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return "null"
	case map[string]any, []any:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
