package qa

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		w    *Warning
	}{
		{name: "no_bucket", w: New("missing-ref", "", SevWarning, 3)},
		{name: "bucket", w: New("bad-property", "P31", SevCritical, 1)},
		{
			name: "properties",
			w: NewWithProperties("bad-property", "P279", SevImportant, 4, map[string]any{
				"label":   "subclass of",
				"example": map[string]any{"id": "Q42", "score": 0.5},
				"blocked": true,
				"count":   float64(12),
			}),
		},
		{
			name: "int_property",
			w: NewWithProperties("bad-property", "P31", SevCritical, 2, map[string]any{
				"zeta":   1,
				"nested": map[string]any{"ids": []any{7, int64(8)}},
			}),
		},
		{
			name: "int64_above_2_53",
			w: NewWithProperties("dup", "", SevInfo, 1, map[string]any{
				"qid": int64(1<<53 + 1),
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.w)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var back Warning
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal(%s): %v", data, err)
			}
			if !back.Equal(tt.w) {
				t.Fatalf("round trip mismatch:\nwant %v %v\ngot  %v %v\njson %s", tt.w, tt.w.Properties(), &back, back.Properties(), data)
			}
		})
	}
}

func TestJSONNumbersKeepPrecision(t *testing.T) {
	in := `{"type":"dup","severity":"INFO","count":1,"properties":{"qid":9007199254740993,"big":18446744073709551615,"ratio":0.25,"list":[1,2.5]}}`
	var w Warning
	if err := json.Unmarshal([]byte(in), &w); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	tests := []struct {
		key  string
		want any
	}{
		{"qid", int64(9007199254740993)},
		{"big", uint64(18446744073709551615)},
		{"ratio", 0.25},
		{"list", []any{int64(1), 2.5}},
	}
	for _, tt := range tests {
		got, _ := w.Property(tt.key)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s = %#v, want %#v", tt.key, got, tt.want)
		}
	}
}

func TestJSONShape(t *testing.T) {
	w := New("bad-property", "P31", SevCritical, 2)
	w.SetProperty("zeta", 1)
	w.SetProperty("alpha", "a")
	data, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"type":"bad-property","bucket_id":"P31","severity":"CRITICAL","count":2,"properties":{"alpha":"a","zeta":1}}`
	if string(data) != want {
		t.Fatalf("Marshal =\n%s\nwant\n%s", data, want)
	}

	data, err = json.Marshal(New("missing-ref", "", SevInfo, 1))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), "bucket") {
		t.Fatalf("absent bucket should be omitted: %s", data)
	}
}

func TestJSONAcceptsLegacyBucketField(t *testing.T) {
	var w Warning
	in := `{"type":"bad-property","bucketId":"P31","severity":"WARNING","count":1,"properties":{}}`
	if err := json.Unmarshal([]byte(in), &w); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if w.AggregationID() != "bad-property_P31" {
		t.Fatalf("AggregationID() = %q", w.AggregationID())
	}
}

func TestJSONNullBucketAndMissingProperties(t *testing.T) {
	var w Warning
	in := `{"type":"missing-ref","bucket_id":null,"severity":"INFO","count":1}`
	if err := json.Unmarshal([]byte(in), &w); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if w.HasBucket() || w.AggregationID() != "missing-ref" {
		t.Fatalf("unexpected bucket on %v", &w)
	}
	if len(w.Properties()) != 0 {
		t.Fatalf("expected empty properties, got %v", w.Properties())
	}
	w.SetProperty("k", "v")
}

func TestJSONRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "missing_type", in: `{"severity":"INFO","count":1}`},
		{name: "missing_severity", in: `{"type":"t","count":1}`},
		{name: "unknown_severity", in: `{"type":"t","severity":"FATAL","count":1}`},
		{name: "ordinal_severity", in: `{"type":"t","severity":3,"count":1}`},
		{name: "missing_count", in: `{"type":"t","severity":"INFO"}`},
		{name: "zero_count", in: `{"type":"t","severity":"INFO","count":0}`},
		{name: "negative_count", in: `{"type":"t","severity":"INFO","count":-2}`},
		{name: "not_an_object", in: `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w Warning
			err := json.Unmarshal([]byte(tt.in), &w)
			if err == nil {
				t.Fatalf("Unmarshal(%s) succeeded: %v", tt.in, &w)
			}
			if !errors.Is(err, ErrInvalidWarning) {
				t.Fatalf("error %v does not wrap ErrInvalidWarning", err)
			}
		})
	}
}

func TestFromRecordCopiesProperties(t *testing.T) {
	count := 1
	props := map[string]any{"k": "v"}
	w, err := FromRecord(Record{Type: "t", Severity: "INFO", Count: &count, Properties: props})
	if err != nil {
		t.Fatalf("FromRecord: %v", err)
	}
	props["k"] = "changed"
	if v, _ := w.Property("k"); v != "v" {
		t.Fatalf("FromRecord aliased the input map")
	}
}
