package report

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeSubmissionFull(t *testing.T) {
	body := []byte(`{
		"userId": "u-42",
		"formId": "form-7",
		"option_logs": [
			{"question": "q1", "value": "3", "time": 1000},
			{"question": "q2", "value": 4, "time": 4000.25},
			{"question": "q3", "time": 5000},
			"not-an-object"
		],
		"answers": {"q1": "3", "q2": 4},
		"feedback": "nice survey"
	}`)

	sub, err := DecodeSubmission(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.UserID != "u-42" || sub.FormID != "form-7" || sub.Feedback != "nice survey" {
		t.Fatalf("unexpected scalar fields %+v", sub)
	}
	if len(sub.OptionLogs) != 4 {
		t.Fatalf("expected 4 raw logs, got %d", len(sub.OptionLogs))
	}
	if got := sub.OptionLogs[1]; got.Value != json.Number("4") || got.TimeMs != 4000.25 {
		t.Fatalf("unexpected second log %+v", got)
	}
	if sub.OptionLogs[2].HasValue {
		t.Fatalf("third log has no value key")
	}
	if sub.OptionLogs[3].HasQuestion || sub.OptionLogs[3].HasValue {
		t.Fatalf("non-object entry must decode as empty log")
	}
	if sub.Answers["q2"] != json.Number("4") {
		t.Fatalf("answers should keep numbers verbatim, got %#v", sub.Answers["q2"])
	}
}

func TestDecodeSubmissionDefaults(t *testing.T) {
	sub, err := DecodeSubmission([]byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.UserID != "" || sub.FormID != nil || sub.Feedback != "" {
		t.Fatalf("expected zero scalars, got %+v", sub)
	}
	if sub.Answers == nil || len(sub.Answers) != 0 {
		t.Fatalf("expected empty answers map, got %#v", sub.Answers)
	}
	if len(sub.OptionLogs) != 0 {
		t.Fatalf("expected no logs, got %d", len(sub.OptionLogs))
	}
}

func TestDecodeSubmissionAbsorbsWrongTypes(t *testing.T) {
	body := []byte(`{
		"userId": 12,
		"option_logs": {"question": "q1"},
		"answers": ["a"],
		"feedback": false,
		"formId": 99
	}`)
	sub, err := DecodeSubmission(body)
	if err != nil {
		t.Fatalf("wrong field types must not fail: %v", err)
	}
	if sub.UserID != "" || sub.Feedback != "" || len(sub.OptionLogs) != 0 || len(sub.Answers) != 0 {
		t.Fatalf("wrong types should be treated as absent, got %+v", sub)
	}
	if sub.FormID != json.Number("99") {
		t.Fatalf("formId is opaque and passed through, got %#v", sub.FormID)
	}

	sub, _ = DecodeSubmission([]byte(`{"option_logs":[{"question":"q","value":"v","time":"soon"}]}`))
	if len(sub.OptionLogs) != 1 || sub.OptionLogs[0].TimeMs != 0 {
		t.Fatalf("non-numeric time should default to 0, got %+v", sub.OptionLogs)
	}

	sub, _ = DecodeSubmission([]byte(`{"option_logs":[{"question":"q1","value":"v","time":"5000"},{"question":"q2","value":"v","time":1000}]}`))
	if len(sub.OptionLogs) != 2 || sub.OptionLogs[0].TimeMs != 0 || sub.OptionLogs[1].TimeMs != 1000 {
		t.Fatalf("quoted numeric time should default to 0, got %+v", sub.OptionLogs)
	}
	if _, total := Normalize(sub.OptionLogs); total != 1 {
		t.Fatalf("expected span from epoch to 1s, got %v", total)
	}
}

func TestDecodeSubmissionRejectsNonObject(t *testing.T) {
	for _, body := range []string{``, `null`, `[1,2]`, `"text"`, `{"userId":`} {
		if _, err := DecodeSubmission([]byte(body)); !errors.Is(err, ErrInvalidBody) {
			t.Fatalf("body %q: expected ErrInvalidBody, got %v", body, err)
		}
	}
}
