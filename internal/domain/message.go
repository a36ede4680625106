package domain

import (
	"fmt"
	"strings"
)

const DefaultMaxWords = 30

type Message string

// WordCount counts whitespace-separated words.
func (m Message) WordCount() int {
	return len(strings.Fields(string(m)))
}

// NewMessage trims raw generated text and enforces the word limit.
func NewMessage(raw string, maxWords int) (Message, error) {
	msg := Message(strings.TrimSpace(raw))
	if msg == "" {
		return "", ErrEmptyMessage
	}
	if maxWords > 0 {
		if words := msg.WordCount(); words > maxWords {
			return "", fmt.Errorf("%w: %d words (max %d)", ErrMessageTooLong, words, maxWords)
		}
	}
	return msg, nil
}
