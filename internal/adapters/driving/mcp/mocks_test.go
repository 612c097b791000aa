package mcp

import (
	"context"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	answer   *domain.Answer
	results  []domain.ScoredChunk
	err      error
	question string
	k        int
}

func (m *mockAskService) Ask(_ context.Context, question string) (string, error) {
	m.question = question
	if m.err != nil {
		return "", m.err
	}
	return m.answer.Text, nil
}

func (m *mockAskService) Answer(_ context.Context, question string) (*domain.Answer, error) {
	m.question = question
	return m.answer, m.err
}

func (m *mockAskService) Retrieve(_ context.Context, question string, k int) ([]domain.ScoredChunk, error) {
	m.question = question
	m.k = k
	return m.results, m.err
}

// mockStatusService is a mock implementation of driving.StatusService.
type mockStatusService struct {
	status *domain.Status
	err    error
}

func (m *mockStatusService) Status(_ context.Context) (*domain.Status, error) {
	return m.status, m.err
}

func (m *mockStatusService) CheckConnectivity(_ context.Context) (error, error) {
	return nil, nil
}
