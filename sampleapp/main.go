package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/anirudhraja/protoscan"
	"github.com/anirudhraja/protoscan/digest"
	"github.com/anirudhraja/protoscan/fieldpath"
	"github.com/anirudhraja/protoscan/wire"
)

func main() {
	scanner := protoscan.New([]string{"registry/testdata"})

	// Schemas are optional; they only translate field names into numbers
	if err := scanner.LoadSchema("registry/testdata/chat/message.proto"); err != nil {
		log.Fatalf("Failed to load message.proto: %v", err)
	}

	fmt.Println("Protoscan Sample App")
	fmt.Println(strings.Repeat("=", 70))

	data := buildMessage()
	fmt.Printf("Encoded chat message: %d bytes\n", len(data))

	demonstrateNumericReads(data)

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("Named paths resolved from chat/message.proto:")
	fmt.Println(strings.Repeat("=", 70))
	demonstrateNamedPaths(scanner, data)

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("Dump of the whole message:")
	fmt.Println(strings.Repeat("=", 70))
	out, err := protoscan.DumpJSON(data, protoscan.DumpOptions{})
	if err != nil {
		log.Fatalf("Dump failed: %v", err)
	}
	fmt.Println(string(out))

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("Conversation digest:")
	fmt.Println(strings.Repeat("=", 70))
	demonstrateDigest(data)
}

// buildMessage encodes a chat.Message by hand, the way an unknown sender
// would put it on the wire
func buildMessage() []byte {
	return wire.NewEncoder().
		StringField(1, "msg-42").
		MessageField(2, func(e *wire.Encoder) {
			e.StringField(1, "  dinner at 8?  ")
			e.MessageField(2, func(e *wire.Encoder) {
				e.StringField(2, "media/key-a")
				e.MessageField(4, func(e *wire.Encoder) {
					e.BytesField(1, []byte{0xde, 0xad, 0xbe, 0xef})
				})
			})
			e.MessageField(2, func(e *wire.Encoder) { e.StringField(2, "media/key-b") })
		}).
		VarintField(3, 1).
		MessageField(5, func(e *wire.Encoder) {
			e.StringField(1, "alice")
			e.MessageField(2, func(e *wire.Encoder) { e.StringField(1, "heart") })
		}).
		Bytes()
}

func demonstrateNumericReads(data []byte) {
	r := protoscan.NewReader(data)

	id, _ := r.GetString(1, 1)
	kind, _ := r.GetVarint(3, 1)
	fmt.Printf("  id (1):              %s\n", id)
	fmt.Printf("  type (3):            %d\n", kind)
	fmt.Printf("  has reactions (5):   %v\n", r.Exists(5))

	content, ok := r.FollowPath(fieldpath.Of(2))
	if !ok {
		log.Fatal("content missing")
	}
	fmt.Printf("  media entries (2.2): %d\n", content.Count(2))
	content.Each(2, func(ref *protoscan.Reader) bool {
		key, _ := ref.GetString(2, 1)
		fmt.Printf("    url_key: %s\n", key)
		return true
	})

	if _, err := r.Resolve(fieldpath.MustParse("2.2[3].2")); err != nil {
		fmt.Printf("  missing third media: %v\n", err)
	}
}

func demonstrateNamedPaths(scanner *protoscan.Scanner, data []byte) {
	for _, dotted := range []string{
		"content.text",
		"content.media[2].url_key",
		"reactions[1].value.emoji",
		"content.link",
	} {
		path, err := scanner.Resolve("chat.Message", dotted)
		if err != nil {
			log.Fatalf("Resolve %s: %v", dotted, err)
		}
		value, ok, err := scanner.LookupString(data, "chat.Message", dotted)
		if err != nil {
			log.Fatalf("Lookup %s: %v", dotted, err)
		}
		if !ok {
			fmt.Printf("  %-26s -> %-16s (not set)\n", dotted, path)
			continue
		}
		fmt.Printf("  %-26s -> %-16s %q\n", dotted, path, value)
	}

	key, err := scanner.LookupBytes(data, "chat.Message", "content.media.encryption.key")
	if err != nil {
		log.Fatalf("Lookup encryption key: %v", err)
	}
	fmt.Printf("  %-26s -> %x\n", "content.media.encryption.key", key)
}

func demonstrateDigest(data []byte) {
	coord := digest.NewCoordinator(digest.WithExtractor(digest.NewExtractor(
		digest.Rule{Kind: "CHAT", Path: fieldpath.MustParse("2.1")},
		digest.Rule{Kind: "NOTE", Template: "sent audio note"},
		digest.Rule{Kind: "SNAP", Template: "sent a snap", Await: true},
	)))

	coord.Process(digest.Message{ID: "1", Conversation: "dinner", Sender: "alice", Kind: "CHAT", Content: data})
	coord.Process(digest.Message{ID: "2", Conversation: "dinner", Sender: "bob", Kind: "NOTE"})
	text := coord.Process(digest.Message{ID: "3", Conversation: "dinner", Sender: "bob", Kind: "SNAP"})
	fmt.Println(text)
	fmt.Printf("  pending results: %d\n", coord.PendingCount())

	if p, ok := coord.Resolve("3"); ok {
		fmt.Printf("  resolved %s from %s\n", p.MessageID, p.Conversation)
	}
	coord.Clear("dinner")
}
