package digest

import (
	"fmt"
	"strings"

	"github.com/anirudhraja/protoscan"
	"github.com/anirudhraja/protoscan/fieldpath"
)

// Message is an incoming message with an undocumented protobuf body
type Message struct {
	ID           string `json:"id"`
	Conversation string `json:"conversation"`
	Sender       string `json:"sender"`
	Kind         string `json:"kind"`
	Content      []byte `json:"content"`
}

// Rule says how to render one message kind. When Path is set the text is
// read from the content at that path; otherwise Template is used as is. Await
// queues the message as pending until its result is resolved.
type Rule struct {
	Kind     string
	Path     fieldpath.Path
	Template string
	Await    bool
}

// Extractor renders messages into "sender: text" lines
type Extractor struct {
	rules map[string]Rule
}

// NewExtractor creates an extractor. Later rules for the same kind win.
func NewExtractor(rules ...Rule) *Extractor {
	e := &Extractor{rules: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		e.rules[r.Kind] = r
	}
	return e
}

// Rule returns the rule for a kind
func (e *Extractor) Rule(kind string) (Rule, bool) {
	r, ok := e.rules[kind]
	return r, ok
}

// Extract renders a message. Kinds without a rule render as "sent <kind>".
// A rule with a path yields nothing when the field is missing, not
// length-delimited, not UTF-8, or blank after trimming.
func (e *Extractor) Extract(msg Message) (string, bool) {
	rule, ok := e.rules[msg.Kind]
	if !ok {
		return formatLine(msg.Sender, "sent "+msg.Kind), true
	}

	if len(rule.Path) == 0 {
		return formatLine(msg.Sender, rule.Template), true
	}

	last, _ := rule.Path.Last()
	parent, found := protoscan.NewReader(msg.Content).FollowPath(rule.Path.Parent())
	if !found {
		return "", false
	}
	raw, found := parent.GetString(last.Field, last.Occurrence())
	if !found {
		return "", false
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", false
	}
	return formatLine(msg.Sender, text), true
}

func formatLine(sender, text string) string {
	if sender == "" {
		return text
	}
	return fmt.Sprintf("%s: %s", sender, text)
}
