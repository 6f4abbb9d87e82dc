package mcp

import (
	"context"

	"github.com/custodia-labs/yonerge/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	result *domain.AnswerResult
	err    error

	question string
	topK     int
}

func (m *mockAnswerService) GenerateAnswer(
	_ context.Context,
	question string,
	topK int,
) (*domain.AnswerResult, error) {
	m.question = question
	m.topK = topK
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &domain.AnswerResult{Success: true, Sources: []domain.SourceRef{}}, nil
	}
	return m.result, nil
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	passages []domain.ScoredPassage
	err      error

	topK int
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context,
	question string,
	topK int,
) (*domain.RetrievalResult, error) {
	m.topK = topK
	if m.err != nil {
		return nil, m.err
	}
	return &domain.RetrievalResult{Question: question, TopK: topK, Passages: m.passages}, nil
}

// mockStatsService is a mock implementation of driving.StatsService.
type mockStatsService struct {
	stats *domain.EngineStats
	err   error
}

func (m *mockStatsService) Stats(_ context.Context) (*domain.EngineStats, error) {
	return m.stats, m.err
}

func validPorts() *Ports {
	return &Ports{
		Answer:    &mockAnswerService{},
		Retrieval: &mockRetrievalService{},
	}
}
