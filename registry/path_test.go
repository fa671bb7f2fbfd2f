package registry

import (
	"errors"
	"testing"
)

func TestResolvePath(t *testing.T) {
	r := loadTestRegistry(t)

	tests := []struct {
		message  string
		dotted   string
		expected string
	}{
		{"chat.Message", "id", "1[1]"},
		{"chat.Message", "content.text", "2[1].1[1]"},
		{"Message", "content.media[2].url_key", "2[1].2[2].2[1]"},
		{"chat.Message", "content.media.encryption.iv", "2[1].2[1].4[1].2[1]"},
		{"chat.Message", "content.sticker.pack", "2[1].4[1].1[1]"},
		{"chat.Message", "reactions[3].value.emoji", "5[3].2[1].1[1]"},
		{"chat.Message", "reactions.key", "5[1].1[1]"},
		{"media.Reference", "encryption", "4[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.dotted, func(t *testing.T) {
			p, err := r.ResolvePath(tt.message, tt.dotted)
			if err != nil {
				t.Fatalf("ResolvePath failed: %v", err)
			}
			if p.String() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, p)
			}
		})
	}
}

func TestResolvePath_Errors(t *testing.T) {
	r := loadTestRegistry(t)

	tests := []struct {
		name    string
		message string
		dotted  string
		want    error
	}{
		{"unknown message", "Nope", "id", ErrMessageNotFound},
		{"unknown field", "chat.Message", "content.missing", ErrFieldNotFound},
		{"scalar descent", "chat.Message", "id.more", ErrNotMessage},
		{"enum descent", "chat.Message", "type.value", ErrNotMessage},
		{"unloaded type", "chat.Message", "sent_at.seconds", ErrTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.ResolvePath(tt.message, tt.dotted)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	for _, bad := range []string{"content[0]", "content[x]", "[1]", "content..text", "content[2"} {
		if _, err := r.ResolvePath("chat.Message", bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
