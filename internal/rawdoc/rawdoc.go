/*
Copyright 2025 LodgeTix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package rawdoc reads loosely-typed staged documents through ordered
// accessor paths. Upstream importers have renamed and moved fields over
// time; callers declare every path a logical field has ever lived at, in
// priority order, and the first path that yields a value wins. The path
// tables stay data, so tolerating a new upstream shape means adding a path,
// not a branch.
package rawdoc

import (
	"strings"
	"time"

	"github.com/lodgetix/reconcile/internal/money"
)

// Document is a raw staged payment or registration payload.
type Document map[string]interface{}

// lookup walks one dotted path ("metadata.registrationId") through nested
// maps. Returns nil when any segment is absent or not a map.
func (d Document) lookup(path string) interface{} {
	var current interface{} = map[string]interface{}(d)
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current, ok = m[segment]
		if !ok {
			return nil
		}
	}
	return current
}

// Get returns the first non-nil value found at any of the paths.
func (d Document) Get(paths ...string) interface{} {
	for _, path := range paths {
		if v := d.lookup(path); v != nil {
			return v
		}
	}
	return nil
}

// GetString returns the first non-empty string value at any of the paths.
// Non-string scalars are not coerced; a field that drifted to a number is
// treated as absent.
func (d Document) GetString(paths ...string) string {
	for _, path := range paths {
		if s, ok := d.lookup(path).(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// GetFloat returns the first value at any of the paths that coerces to a
// non-zero amount; if every path is absent or zero-valued, returns 0.
func (d Document) GetFloat(paths ...string) float64 {
	for _, path := range paths {
		v := d.lookup(path)
		if v == nil {
			continue
		}
		if f := money.Parse(v); f != 0 {
			return f
		}
	}
	return 0
}

// GetBool returns the first boolean value found at any of the paths.
func (d Document) GetBool(paths ...string) bool {
	for _, path := range paths {
		if b, ok := d.lookup(path).(bool); ok {
			return b
		}
	}
	return false
}

// timeLayouts are tried in order when a timestamp arrives as a string.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// GetTime returns the first value at any of the paths that parses as a
// timestamp. Accepts time.Time values, RFC3339(-ish) strings, and Unix
// epoch numbers (seconds, or milliseconds above 1e12). Zero time when none
// parse.
func (d Document) GetTime(paths ...string) time.Time {
	for _, path := range paths {
		v := d.lookup(path)
		if v == nil {
			continue
		}
		if ts := parseTime(v); !ts.IsZero() {
			return ts
		}
	}
	return time.Time{}
}

func parseTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	case float64:
		return epochToTime(int64(t))
	case int64:
		return epochToTime(t)
	case int:
		return epochToTime(int64(t))
	case map[string]interface{}:
		// Mongo export shape: {"$date": "..."}
		if inner, ok := t["$date"]; ok {
			return parseTime(inner)
		}
	}
	return time.Time{}
}

func epochToTime(epoch int64) time.Time {
	if epoch <= 0 {
		return time.Time{}
	}
	if epoch > 1e12 {
		return time.UnixMilli(epoch).UTC()
	}
	return time.Unix(epoch, 0).UTC()
}

// GetList returns the first list value found at any of the paths whose
// elements are documents. Non-map elements are skipped.
func (d Document) GetList(paths ...string) []Document {
	for _, path := range paths {
		raw, ok := d.lookup(path).([]interface{})
		if !ok || len(raw) == 0 {
			continue
		}
		docs := make([]Document, 0, len(raw))
		for _, item := range raw {
			if m, ok := item.(map[string]interface{}); ok {
				docs = append(docs, Document(m))
			}
		}
		if len(docs) > 0 {
			return docs
		}
	}
	return nil
}

// GetDocument returns the first nested document found at any of the paths.
func (d Document) GetDocument(paths ...string) Document {
	for _, path := range paths {
		if m, ok := d.lookup(path).(map[string]interface{}); ok {
			return Document(m)
		}
	}
	return nil
}
