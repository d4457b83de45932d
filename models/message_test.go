package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessagePreview(t *testing.T) {
	tests := []struct {
		name    string
		message Message
		want    string
	}{
		{
			name:    "text message",
			message: Message{Type: MessageTypeText, Text: "hola"},
			want:    "hola",
		},
		{
			name:    "image message",
			message: Message{Type: MessageTypeImage, ImageKey: "chat-images/1.jpg"},
			want:    "📷 Imagen",
		},
		{
			name:    "location message",
			message: Message{Type: MessageTypeLocation, Location: &MessageLocation{Latitude: 1, Longitude: 2}},
			want:    "📍 Ubicación",
		},
		{
			name:    "untyped falls back to text",
			message: Message{Text: "sin tipo"},
			want:    "sin tipo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.message.Preview())
		})
	}
}
