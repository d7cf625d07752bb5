// Package message defines the conversation data model handed to history
// builders: a Message is one turn, a History is the chronological sequence.
//
// Histories can be loaded from JSON arrays, JSONL files (one message per
// line) or YAML lists:
//
//	h, err := message.LoadFile("conversation.jsonl")
//
// Builders treat messages as opaque values; only token counters look inside.
package message
