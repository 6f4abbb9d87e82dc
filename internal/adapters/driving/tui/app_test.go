package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/yonerge/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/yonerge/internal/core/domain"
)

type MockAnswerService struct {
	Result *domain.AnswerResult
	Err    error
}

func (m *MockAnswerService) GenerateAnswer(context.Context, string, int) (*domain.AnswerResult, error) {
	return m.Result, m.Err
}

type MockStatsService struct {
	Result *domain.EngineStats
	Err   error
}

func (m *MockStatsService) Stats(context.Context) (*domain.EngineStats, error) {
	return m.Result, m.Err
}

func newTestPorts() *Ports {
	return &Ports{
		Answer: &MockAnswerService{Result: &domain.AnswerResult{
			Success: true,
			Answer:  "📌 Cevap: 20 iş günü",
			Sources: []domain.SourceRef{{Document: "Staj.pdf", Category: "Ogrenci Yonergeleri", Distance: 0.2}},
		}},
		Stats: &MockStatsService{Result: &domain.EngineStats{CollectionName: "Yonergeler", TotalChunks: 7}},
	}
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestPorts(), Options{})

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.False(t, app.Ready())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{}, Options{})

	assert.ErrorIs(t, err, ErrMissingAnswerService)
	assert.Nil(t, app)
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingAnswerService)
	assert.NoError(t, (&Ports{Answer: &MockAnswerService{}}).Validate())
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(newTestPorts(), Options{})

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
}

func TestApp_Init(t *testing.T) {
	app, _ := NewApp(newTestPorts(), Options{})

	assert.NotNil(t, app.Init())
}

func TestApp_LoadStats(t *testing.T) {
	app, _ := NewApp(newTestPorts(), Options{})

	msg := app.loadStats()()
	loaded, ok := msg.(messages.StatsLoaded)
	require.True(t, ok)
	assert.Equal(t, 7, loaded.Stats.TotalChunks)

	noStats, _ := NewApp(&Ports{Answer: &MockAnswerService{}}, Options{})
	assert.Nil(t, noStats.loadStats())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := NewApp(newTestPorts(), Options{})
	assert.Equal(t, "Initialising...", app.View())

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Nil(t, cmd)
	assert.Equal(t, app, model)
	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "Yönerge Asistanı")
}

func TestApp_AskRoundTrip(t *testing.T) {
	app, _ := NewApp(newTestPorts(), Options{TopK: 3})
	app.SetDimensions(100, 30)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Staj kaç gün?")})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	app.Update(cmd())

	require.NotNil(t, app.Result())
	assert.True(t, app.Result().Success)
	assert.Contains(t, app.View(), "20 iş günü")
}

func TestApp_AskError(t *testing.T) {
	ports := newTestPorts()
	ports.Answer = &MockAnswerService{Err: errors.New("disk full")}
	app, _ := NewApp(ports, Options{})
	app.SetDimensions(100, 30)

	app.Update(messages.AnswerCompleted{Question: "soru", Err: errors.New("disk full")})

	assert.EqualError(t, app.Err(), "disk full")
}

func TestApp_QuitMessage(t *testing.T) {
	app, _ := NewApp(newTestPorts(), Options{})

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
