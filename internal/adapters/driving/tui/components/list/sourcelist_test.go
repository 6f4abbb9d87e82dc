package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/yonerge/internal/core/domain"
)

func sampleSources() []domain.SourceRef {
	return []domain.SourceRef{
		{Document: "Staj_Yonergesi.pdf", Category: "Ogrenci Yonergeleri", Distance: 0.21},
		{Document: "Sinav_Yonergesi.pdf", Category: "Ogrenci Yonergeleri", Distance: 0.35},
		{Document: "Burs_Yonergesi.pdf", Category: "Ogrenci Yonergeleri", Distance: 0.52},
	}
}

func TestNewSourceList(t *testing.T) {
	l := NewSourceList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.Equal(t, 0, l.Count())
	assert.Nil(t, l.SelectedSource())
}

func TestSourceList_EmptyView(t *testing.T) {
	l := NewSourceList(nil)

	assert.Contains(t, l.View(), "Kaynak yok")
}

func TestSourceList_View(t *testing.T) {
	l := NewSourceList(nil)
	l.SetSources(sampleSources())

	view := l.View()
	assert.Contains(t, view, "Kaynaklar (3)")
	assert.Contains(t, view, "1. Staj_Yonergesi.pdf")
	assert.Contains(t, view, "0.2100")
	assert.Contains(t, view, "3. Burs_Yonergesi.pdf")
}

func TestSourceList_Navigation(t *testing.T) {
	l := NewSourceList(nil)
	l.SetSources(sampleSources())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.MoveDown()
	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 2, l.Selected())
	assert.Equal(t, "Burs_Yonergesi.pdf", l.SelectedSource().Document)
}

func TestSourceList_UpdateKeys(t *testing.T) {
	l := NewSourceList(nil)
	l.SetSources(sampleSources())

	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, l.Selected())
}

func TestSourceList_SetSourcesResetsSelection(t *testing.T) {
	l := NewSourceList(nil)
	l.SetSources(sampleSources())
	l.MoveDown()

	l.SetSources(sampleSources()[:1])
	assert.Equal(t, 0, l.Selected())
}

func TestSourceList_LongNamesTruncated(t *testing.T) {
	l := NewSourceList(nil)
	l.SetDimensions(40, 10)
	l.SetSources([]domain.SourceRef{{Document: "Çok_Uzun_Bir_Yönerge_Adı_Olan_Belge.pdf"}})

	assert.Contains(t, l.View(), "...")
}
