package models

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
	"unicode"
)

// Submission is one inbound contact-form payload. Only the email key is
// required; every other field is caller-defined and passed through opaquely.
// Field iteration (header building, email bodies) must work generically
// over the map, never against a fixed schema.
type Submission map[string]interface{}

// Well-known optional keys, used for display purposes only.
const (
	KeyEmail        = "email"
	KeyName         = "name"
	KeyFullName     = "fullName"
	KeyCustomerName = "customerName"
	KeySubject      = "subject"
	KeyInquiryType  = "inquiryType"
)

// Email returns the submission's email address, empty if absent.
func (s Submission) Email() string {
	if v, ok := s[KeyEmail].(string); ok {
		return v
	}
	return ""
}

// DisplayName resolves the sender's display name through the conventional
// name fields, returning fallback when none is present.
func (s Submission) DisplayName(fallback string) string {
	for _, key := range []string{KeyName, KeyFullName, KeyCustomerName} {
		if v, ok := s[key].(string); ok && v != "" {
			return v
		}
	}
	return fallback
}

// SubjectLine derives the admin notification subject from the subject or
// inquiryType field, defaulting to "New Submission".
func (s Submission) SubjectLine() string {
	for _, key := range []string{KeySubject, KeyInquiryType} {
		if v, ok := s[key].(string); ok && v != "" {
			return "Contact Form: " + v
		}
	}
	return "Contact Form: New Submission"
}

// SortedKeys returns all field names in alphabetical order so repeated
// submissions produce a stable column layout.
func (s Submission) SortedKeys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HeaderValues flattens the submission into parallel header and value
// slices, fields sorted alphabetically, with the timestamp appended as the
// final pair. Value at index i always belongs to header at index i.
func (s Submission) HeaderValues(now time.Time) (headers []string, values []string) {
	keys := s.SortedKeys()
	headers = make([]string, 0, len(keys)+1)
	values = make([]string, 0, len(keys)+1)

	for _, key := range keys {
		headers = append(headers, HeaderLabel(key))
		values = append(values, FormatValue(s[key]))
	}

	headers = append(headers, "Timestamp")
	values = append(values, now.UTC().Format(time.RFC3339))
	return headers, values
}

// HeaderLabel formats a field key into its spreadsheet header label:
// first rune capitalized, a space inserted before each interior uppercase
// rune. The mapping must be stable so repeated submissions accumulate
// under one column instead of spawning duplicates.
func HeaderLabel(key string) string {
	if key == "" {
		return ""
	}

	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatValue renders a field value as cell text. Strings pass through,
// empty-ish values become blank cells, everything else is serialized as
// JSON text.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if !val {
			return ""
		}
		return "true"
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		text := string(data)
		if text == "0" {
			return ""
		}
		return text
	}
}
