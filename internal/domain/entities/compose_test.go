package entities

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComposePositive(t *testing.T) {
	tests := []struct {
		name     string
		template string
		prompt   string
		want     string
	}{
		{"both", "masterpiece", "a dog", "a dog, masterpiece"},
		{"empty prompt", "masterpiece", "", "masterpiece"},
		{"empty template", "", "a dog", "a dog"},
		{"both empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ComposePositive(tt.template, tt.prompt))
		})
	}
}

func TestComposeNegative(t *testing.T) {
	tests := []struct {
		name     string
		template string
		prompt   string
		want     string
	}{
		{"both", "blurry", "lowres", "blurry, lowres"},
		{"empty prompt", "blurry", "", "blurry"},
		{"empty template", "", "lowres", "lowres"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ComposeNegative(tt.template, tt.prompt))
		})
	}
}

func TestStyleRecord_Compose(t *testing.T) {
	style := StyleRecord{Name: "Cinematic", Prompt: "film grain", NegativePrompt: "cartoon"}

	require.Equal(t, "a cat, film grain", style.ComposePositive("a cat"))
	require.Equal(t, "cartoon, ugly", style.ComposeNegative("ugly"))
}
