package db

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"surveyreport/internal/report"
)

func marshalSubmission(t *testing.T, body string) bson.Raw {
	t.Helper()
	sub, err := report.DecodeSubmission([]byte(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	rec := report.NewAssembler(nil, nil).Assemble(sub)
	b, err := bson.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bson.Raw(b)
}

func TestReportDocumentShape(t *testing.T) {
	doc := marshalSubmission(t, `{
		"userId": "u1",
		"formId": 7,
		"option_logs": [
			{"question": "q1", "value": "3", "time": 1000},
			{"question": "q2", "value": 4, "time": 4000}
		],
		"answers": {"q1": 3, "q2": "four", "q3": 1.5},
		"feedback": "ok"
	}`)

	elems, err := doc.Elements()
	if err != nil {
		t.Fatalf("elements: %v", err)
	}
	if len(elems) != 7 {
		t.Fatalf("expected 7 fields, got %d: %s", len(elems), doc)
	}

	want := map[string]bsontype.Type{
		"userId":             bsontype.String,
		"formId":             bsontype.Int64,
		"createdAt":          bsontype.DateTime,
		"events":             bsontype.Array,
		"final_answers":      bsontype.EmbeddedDocument,
		"total_time_seconds": bsontype.Double,
		"feedback":           bsontype.String,
	}
	for key, typ := range want {
		v, err := doc.LookupErr(key)
		if err != nil {
			t.Fatalf("missing key %q in %s", key, doc)
		}
		if v.Type != typ {
			t.Fatalf("%s: expected %s, got %s", key, typ, v.Type)
		}
	}

	if got := doc.Lookup("userId").StringValue(); got != "u1" {
		t.Fatalf("unexpected userId %q", got)
	}
	if got := doc.Lookup("total_time_seconds").Double(); got != 3 {
		t.Fatalf("expected 3s total, got %v", got)
	}

	answers := map[string]bsontype.Type{
		"q1": bsontype.Int64,
		"q2": bsontype.String,
		"q3": bsontype.Double,
	}
	for key, typ := range answers {
		if v := doc.Lookup("final_answers", key); v.Type != typ {
			t.Fatalf("final_answers.%s: expected %s, got %s", key, typ, v.Type)
		}
	}

	ev := doc.Lookup("events", "1")
	if ev.Type != bsontype.EmbeddedDocument {
		t.Fatalf("expected event document, got %s", ev.Type)
	}
	event := ev.Document()
	if event.Lookup("question").StringValue() != "q2" {
		t.Fatalf("unexpected event %s", event)
	}
	if event.Lookup("answer").Type != bsontype.Int64 {
		t.Fatalf("integer answer should stay Int64, got %s", event.Lookup("answer").Type)
	}
	if event.Lookup("timestamp").Type != bsontype.DateTime {
		t.Fatalf("timestamp should be a BSON date, got %s", event.Lookup("timestamp").Type)
	}
}

func TestReportDocumentNullFormID(t *testing.T) {
	doc := marshalSubmission(t, `{}`)

	v, err := doc.LookupErr("formId")
	if err != nil {
		t.Fatalf("formId must be written even when absent: %s", doc)
	}
	if v.Type != bsontype.Null {
		t.Fatalf("absent formId should be BSON null, got %s", v.Type)
	}
	if got := doc.Lookup("userId").StringValue(); got != report.AnonymousUser {
		t.Fatalf("expected anonymous, got %q", got)
	}
	if v := doc.Lookup("events"); v.Type != bsontype.Array {
		t.Fatalf("empty events must be an array, not %s", v.Type)
	}
	if v := doc.Lookup("final_answers"); v.Type != bsontype.EmbeddedDocument {
		t.Fatalf("empty answers must be a document, not %s", v.Type)
	}
}
