package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.SourceCount())
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		message  string
		count    int
		expected string
	}{
		{"ready", StateReady, "", 0, "Hazır"},
		{"ready with message", StateReady, "42 parça indeksli", 0, "42 parça indeksli"},
		{"asking", StateAsking, "", 0, "Yanıt hazırlanıyor"},
		{"answered", StateAnswered, "", 3, "3 kaynak"},
		{"failed", StateFailed, "", 0, "Yanıt üretilemedi"},
		{"error", StateError, "index unavailable", 0, "Hata: index unavailable"},
		{"error without message", StateError, "", 0, "Hata"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)
			bar.SetSourceCount(tt.count)

			assert.Contains(t, bar.View(), tt.expected)
		})
	}
}

func TestBar_HintsDependOnState(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	assert.Contains(t, bar.View(), "enter: sor")

	bar.SetState(StateAnswered)
	bar.SetSourceCount(2)
	assert.Contains(t, bar.View(), "tab: kaynaklar")
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetSourceCount(4)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.SourceCount())
}
