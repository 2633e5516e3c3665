// Package chat implements the line protocol used by the AI support
// relay. The upstream speaks chat-completions streaming: each chunk is
// a "data: {json}" line, ":"-prefixed lines are comments, blank lines
// are ignored, and the stream terminates with "data: [DONE]".
package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DoneSentinel terminates a stream.
const DoneSentinel = "[DONE]"

const dataPrefix = "data: "

// ErrBadFrame is returned for a non-empty, non-comment line without
// the required "data: " prefix.
var ErrBadFrame = errors.New("malformed stream line")

// Event is one parsed stream line.
type Event struct {
	// Content is the text delta carried by the chunk, possibly empty.
	Content string
	// Done is set for the [DONE] sentinel.
	Done bool
}

// chunk mirrors the relevant part of a chat-completions stream payload.
type chunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// ParseLine interprets a single line of the stream. The second return
// value reports whether the line carried an event; comments and blank
// lines are skipped without error.
func ParseLine(line string) (Event, bool, error) {
	if strings.TrimSpace(line) == "" {
		return Event{}, false, nil
	}
	if strings.HasPrefix(line, ":") {
		return Event{}, false, nil
	}
	if !strings.HasPrefix(line, dataPrefix) {
		return Event{}, false, fmt.Errorf("%w: %q", ErrBadFrame, line)
	}

	payload := line[len(dataPrefix):]
	if payload == DoneSentinel {
		return Event{Done: true}, true, nil
	}

	var c chunk
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Event{}, false, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	if len(c.Choices) == 0 {
		return Event{}, true, nil
	}
	return Event{Content: c.Choices[0].Delta.Content}, true, nil
}

// FormatLine frames a JSON payload for the wire. The "data: " prefix
// and trailing blank line must be reproduced byte-for-byte.
func FormatLine(payload string) string {
	return dataPrefix + payload + "\n\n"
}
