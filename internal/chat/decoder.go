package chat

import (
	"encoding/json"
	"strings"
)

type EventKind int

const (
	// EventNone carries nothing: a non-data line or JSON without content.
	EventNone EventKind = iota
	EventContent
	EventDone
)

// Event is one decoded stream line.
type Event struct {
	Kind    EventKind
	Content string
}

const dataPrefix = "data: "

type chunkShape struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Response string `json:"response"`
}

// DecodeLine decodes one line of a relay stream. Provider chunks expose
// content under choices[0].delta.content, fallback chunks under response;
// payloads that are not JSON are content verbatim.
func DecodeLine(line string) Event {
	if !strings.HasPrefix(line, dataPrefix) {
		return Event{}
	}
	data := strings.TrimSpace(line[len(dataPrefix):])
	if data == "[DONE]" {
		return Event{Kind: EventDone}
	}
	if data == "" {
		return Event{}
	}
	if !json.Valid([]byte(data)) {
		return Event{Kind: EventContent, Content: data}
	}

	var shape chunkShape
	// valid JSON that is not an object leaves shape empty
	_ = json.Unmarshal([]byte(data), &shape)
	content := ""
	if len(shape.Choices) > 0 {
		content = shape.Choices[0].Delta.Content
	}
	if content == "" {
		content = shape.Response
	}
	if content == "" {
		return Event{}
	}
	return Event{Kind: EventContent, Content: content}
}
