package report

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrInvalidBody is returned by DecodeSubmission when the body is not a JSON object.
var ErrInvalidBody = errors.New("invalid JSON body")

// OptionLog is one raw answer interaction as sent by the survey client.
// HasQuestion and HasValue record key presence; an explicit JSON null
// still counts as present.
type OptionLog struct {
	Question    any
	Value       any
	TimeMs      float64
	HasQuestion bool
	HasValue    bool
}

// Submission is the decoded request body. Every field is optional and
// already defaulted: UserID may still be empty, FormID is nil when absent,
// Answers is never nil.
type Submission struct {
	UserID     string
	FormID     any
	OptionLogs []OptionLog
	Answers    map[string]any
	Feedback   string
}

// DecodeSubmission parses a raw request body. Fields with an unexpected
// type are treated as absent; only a body that is not a JSON object fails.
func DecodeSubmission(body []byte) (Submission, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return Submission{}, ErrInvalidBody
	}

	sub := Submission{Answers: map[string]any{}}

	if raw, ok := fields["userId"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			sub.UserID = s
		}
	}
	if raw, ok := fields["formId"]; ok {
		sub.FormID, _ = decodeValue(raw)
	}
	if raw, ok := fields["feedback"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			sub.Feedback = s
		}
	}
	if raw, ok := fields["answers"]; ok {
		if v, err := decodeValue(raw); err == nil {
			if m, ok := v.(map[string]any); ok {
				sub.Answers = m
			}
		}
	}
	if raw, ok := fields["option_logs"]; ok {
		var entries []json.RawMessage
		if json.Unmarshal(raw, &entries) == nil {
			sub.OptionLogs = make([]OptionLog, 0, len(entries))
			for _, e := range entries {
				sub.OptionLogs = append(sub.OptionLogs, decodeOptionLog(e))
			}
		}
	}

	return sub, nil
}

// decodeOptionLog never fails: a non-object entry yields a log with
// neither key present, which the normalizer drops.
func decodeOptionLog(raw json.RawMessage) OptionLog {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return OptionLog{}
	}

	var entry OptionLog
	if q, ok := fields["question"]; ok {
		entry.Question, _ = decodeValue(q)
		entry.HasQuestion = true
	}
	if v, ok := fields["value"]; ok {
		entry.Value, _ = decodeValue(v)
		entry.HasValue = true
	}
	// Only a JSON number literal counts; a quoted "5000" is not a time.
	if t, ok := fields["time"]; ok {
		if v, err := decodeValue(t); err == nil {
			if n, ok := v.(json.Number); ok {
				if f, err := n.Float64(); err == nil {
					entry.TimeMs = f
				}
			}
		}
	}
	return entry
}

// decodeValue keeps numbers as json.Number so integers survive the trip
// to storage without becoming floats.
func decodeValue(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
