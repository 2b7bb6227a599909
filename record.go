package evtable

import (
	"encoding/json"
	"strconv"
)

// Field names understood by the extraction vocabulary. Unknown keys returned
// by the extraction service are ignored.
const (
	FieldName               = "name"
	FieldDescription        = "description"
	FieldStartDate          = "start_date"
	FieldEndDate            = "end_date"
	FieldCity               = "city"
	FieldState              = "state"
	FieldCountry            = "country"
	FieldAttendeeCount      = "attendee_count"
	FieldTopics             = "topics"
	FieldEventType          = "event_type"
	FieldAttendeeTitle      = "attendee_title"
	FieldLogoURL            = "logo_url"
	FieldSponsorshipOptions = "sponsorship_options"
	FieldAgenda             = "agenda"
	FieldAudienceInsights   = "audience_insights"
	FieldSponsors           = "sponsors"
	FieldHostingCompany     = "hosting_company"
	FieldTicketCost         = "ticket_cost"
	FieldContactEmail       = "contact_email"
)

// Columns is the fixed column order for tabular output, url first.
var Columns = []string{
	"url",
	FieldName,
	FieldDescription,
	FieldStartDate,
	FieldEndDate,
	FieldCity,
	FieldState,
	FieldCountry,
	FieldAttendeeCount,
	FieldTopics,
	FieldEventType,
	FieldAttendeeTitle,
	FieldLogoURL,
	FieldSponsorshipOptions,
	FieldAgenda,
	FieldAudienceInsights,
	FieldSponsors,
	FieldHostingCompany,
	FieldTicketCost,
	FieldContactEmail,
}

// listFields are declared list-like: a scalar is coerced to a single-element
// list, absence stays absent.
var listFields = map[string]bool{
	FieldTopics:        true,
	FieldAttendeeTitle: true,
	FieldSponsors:      true,
}

// objectFields are declared object-like: a structured value is retained
// until serialization for the wire.
var objectFields = map[string]bool{
	FieldSponsorshipOptions: true,
	FieldAgenda:             true,
	FieldAudienceInsights:   true,
	FieldHostingCompany:     true,
}

// ListField reports whether the named field is declared list-like.
func ListField(name string) bool { return listFields[name] }

// ObjectField reports whether the named field is declared object-like.
func ObjectField(name string) bool { return objectFields[name] }

// FieldKind identifies the shape of a FieldValue.
type FieldKind int

// FieldKind constants.
const (
	KindAbsent FieldKind = iota
	KindScalar
	KindList
	KindObject
)

// FieldValue is a tagged union over the shapes the extraction service may
// return for a field: absent/null, a scalar string, a list of strings, or a
// free-form object. The zero value is Absent.
type FieldValue struct {
	kind   FieldKind
	scalar string
	list   []string
	object map[string]any
}

// Scalar returns a scalar FieldValue.
func Scalar(s string) FieldValue {
	return FieldValue{kind: KindScalar, scalar: s}
}

// List returns a list FieldValue. A nil slice still denotes a present,
// zero-element list, which is distinct from Absent.
func List(items ...string) FieldValue {
	if items == nil {
		items = []string{}
	}
	return FieldValue{kind: KindList, list: items}
}

// Object returns an object FieldValue.
func Object(m map[string]any) FieldValue {
	return FieldValue{kind: KindObject, object: m}
}

// Kind returns the shape tag of the value.
func (v FieldValue) Kind() FieldKind { return v.kind }

// IsAbsent reports whether the value is absent.
func (v FieldValue) IsAbsent() bool { return v.kind == KindAbsent }

// ScalarValue returns the scalar payload, or "" for other kinds.
func (v FieldValue) ScalarValue() string { return v.scalar }

// ListValue returns the list payload, or nil for other kinds.
func (v FieldValue) ListValue() []string {
	if v.kind != KindList {
		return nil
	}
	return append([]string(nil), v.list...)
}

// ObjectValue returns the object payload, or nil for other kinds.
func (v FieldValue) ObjectValue() map[string]any { return v.object }

// UnmarshalJSON accepts whatever shape the service produced: null becomes
// Absent, strings/numbers/bools become Scalar, arrays become List (non-string
// elements are re-encoded as JSON text), objects are retained structurally.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = fieldValueOf(raw)
	return nil
}

// fieldValueOf converts a decoded JSON value into a FieldValue.
func fieldValueOf(raw any) FieldValue {
	switch x := raw.(type) {
	case nil:
		return FieldValue{}
	case string:
		return Scalar(x)
	case float64:
		return Scalar(strconv.FormatFloat(x, 'f', -1, 64))
	case bool:
		return Scalar(strconv.FormatBool(x))
	case []any:
		items := make([]string, 0, len(x))
		for _, el := range x {
			if s, ok := el.(string); ok {
				items = append(items, s)
				continue
			}
			b, err := json.Marshal(el)
			if err != nil {
				continue
			}
			items = append(items, string(b))
		}
		return List(items...)
	case map[string]any:
		return Object(x)
	}
	return FieldValue{}
}

// MarshalJSON encodes the value in its structural shape; Absent encodes as
// null.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindScalar:
		return json.Marshal(v.scalar)
	case KindList:
		return json.Marshal(v.list)
	case KindObject:
		return json.Marshal(v.object)
	}
	return []byte("null"), nil
}

// Record is a normalized extraction result with a fixed field vocabulary,
// keyed by the source URL.
type Record struct {
	// URL is the natural persistence key, set by the orchestrator rather
	// than trusted from the extraction payload.
	URL string `json:"url"`

	// RawText is the raw document text (markdown) that accompanied the
	// structured fields.
	RawText string `json:"rawText,omitempty"`

	// Fields holds the structured values keyed by the field vocabulary.
	Fields map[string]FieldValue `json:"fields"`
}

// NewRecord builds a Record from an extraction field map, dropping keys
// outside the known vocabulary.
func NewRecord(url string, fields map[string]FieldValue) *Record {
	rec := &Record{URL: url, Fields: make(map[string]FieldValue, len(fields))}
	known := make(map[string]bool, len(Columns))
	for _, c := range Columns[1:] {
		known[c] = true
	}
	for name, v := range fields {
		if known[name] {
			rec.Fields[name] = v
		}
	}
	return rec
}

// Field returns the value of the named field; Absent when unset.
func (r *Record) Field(name string) FieldValue {
	return r.Fields[name]
}

// Validate returns an error if the record is missing required fields.
func (r *Record) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "record URL required")
	}
	if r.Field(FieldName).IsAbsent() {
		return Errorf(EINVALID, "extraction returned no event name for %s", r.URL)
	}
	return nil
}

// Normalize applies the coercion rules to every field and returns a new
// record; it is the single shape-coercion boundary between the extraction
// service and the rest of the system.
//
// List-like fields: a scalar becomes a single-element list (the coercion is
// type-based, never content-based: "ai, security" stays one element), lists
// pass through, Absent stays Absent. Object-like fields retain structure
// until serialization. end_date defaults to start_date when absent:
// single-day events are common and downstream consumers require a non-null
// end date.
func (r *Record) Normalize() *Record {
	out := &Record{URL: r.URL, RawText: r.RawText, Fields: make(map[string]FieldValue, len(r.Fields))}
	for name, v := range r.Fields {
		if listFields[name] && v.Kind() == KindScalar {
			v = List(v.ScalarValue())
		}
		if v.IsAbsent() {
			continue
		}
		out.Fields[name] = v
	}
	if out.Field(FieldEndDate).IsAbsent() {
		if start := out.Field(FieldStartDate); !start.IsAbsent() {
			out.Fields[FieldEndDate] = start
		}
	}
	return out
}

// Serialize returns a copy of the record with every object-like field
// flattened to its canonical JSON string encoding, ready for the wire.
// List-like fields are left as lists (nil-or-[]string after Normalize).
func (r *Record) Serialize() *Record {
	out := &Record{URL: r.URL, RawText: r.RawText, Fields: make(map[string]FieldValue, len(r.Fields))}
	for name, v := range r.Fields {
		if v.Kind() == KindObject {
			b, err := json.Marshal(v.ObjectValue())
			if err != nil {
				b = []byte("{}")
			}
			v = Scalar(string(b))
		}
		out.Fields[name] = v
	}
	return out
}

// CellValue renders the named field for tabular display or CSV output:
// scalars verbatim, lists and objects as canonical JSON, absent as "".
func (r *Record) CellValue(name string) string {
	v := r.Field(name)
	switch v.Kind() {
	case KindScalar:
		return v.ScalarValue()
	case KindList, KindObject:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
	return ""
}
