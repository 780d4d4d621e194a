package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/singnet/walletkit-go/pkg/model"
	"github.com/tidwall/gjson"
)

// FindContentByKeyAndQuery loads the collection stored under key and returns
// the first record with a field equal to query, ignoring case.
//
// The collection may be a JSON array or object; records are its elements or
// values in document order. Every string field of a record is compared, and so
// is every string field of an object nested directly inside it. Numbers,
// booleans, deeper nesting and arrays are not searched. Missing keys and empty results both yield
// model.ErrNotFound.
func (s *Service) FindContentByKeyAndQuery(ctx context.Context, key, query string) (json.RawMessage, error) {
	raw, err := s.RetrieveRaw(ctx, key)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("metadata %q is not valid JSON", key)
	}
	data := gjson.ParseBytes(raw)
	if !data.IsArray() && !data.IsObject() {
		return nil, fmt.Errorf("metadata %q is not a collection", key)
	}

	var match gjson.Result
	found := false
	data.ForEach(func(_, record gjson.Result) bool {
		if recordMatches(record, query) {
			match, found = record, true
			return false
		}
		return true
	})
	if !found {
		return nil, fmt.Errorf("no record in %q matches %q: %w", key, query, model.ErrNotFound)
	}
	return json.RawMessage(match.Raw), nil
}

func recordMatches(record gjson.Result, query string) bool {
	if !record.IsObject() {
		return false
	}
	matched := false
	record.ForEach(func(_, field gjson.Result) bool {
		if field.IsObject() {
			field.ForEach(func(_, nested gjson.Result) bool {
				matched = stringEquals(nested, query)
				return !matched
			})
		} else {
			matched = stringEquals(field, query)
		}
		return !matched
	})
	return matched
}

func stringEquals(v gjson.Result, query string) bool {
	return v.Type == gjson.String && strings.EqualFold(v.Str, query)
}
