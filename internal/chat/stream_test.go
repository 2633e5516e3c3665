package chat

import (
	"errors"
	"testing"
)

func TestParseLine(t *testing.T) {
	cases := []struct {
		name    string
		line    string
		want    Event
		wantOK  bool
		wantErr error
	}{
		{"blank line skipped", "", Event{}, false, nil},
		{"whitespace skipped", "   ", Event{}, false, nil},
		{"comment skipped", ": keep-alive", Event{}, false, nil},
		{"bare colon skipped", ":", Event{}, false, nil},
		{"done sentinel", "data: [DONE]", Event{Done: true}, true, nil},
		{
			"content delta",
			`data: {"choices":[{"delta":{"content":"Hello"}}]}`,
			Event{Content: "Hello"},
			true,
			nil,
		},
		{
			"empty delta",
			`data: {"choices":[{"delta":{}}]}`,
			Event{},
			true,
			nil,
		},
		{
			"no choices",
			`data: {"choices":[]}`,
			Event{},
			true,
			nil,
		},
		{
			"extra fields ignored",
			`data: {"id":"c1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"hi"},"finish_reason":null}]}`,
			Event{Content: "hi"},
			true,
			nil,
		},
		{"missing prefix", `{"choices":[]}`, Event{}, false, ErrBadFrame},
		{"wrong prefix", "event: message", Event{}, false, ErrBadFrame},
		{"no space after data", "data:[DONE]", Event{}, false, ErrBadFrame},
		{"broken json", "data: {not json", Event{}, false, ErrBadFrame},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := ParseLine(tt.line)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error=%v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("ok=%v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Fatalf("event=%+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFormatLine(t *testing.T) {
	if got, want := FormatLine(`{"x":1}`), "data: {\"x\":1}\n\n"; got != want {
		t.Fatalf("FormatLine=%q, want %q", got, want)
	}
	if got, want := FormatLine(DoneSentinel), "data: [DONE]\n\n"; got != want {
		t.Fatalf("FormatLine=%q, want %q", got, want)
	}
}
