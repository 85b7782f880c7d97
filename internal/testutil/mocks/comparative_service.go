// Package mocks holds testify mocks of application services.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/JurisCompare/internal/application/comparative"
	"github.com/turtacn/JurisCompare/internal/domain/caselaw"
	"github.com/turtacn/JurisCompare/internal/domain/choiceoflaw"
	"github.com/turtacn/JurisCompare/internal/domain/comparison"
)

// ComparativeService is a mock of comparative.Service.
type ComparativeService struct {
	mock.Mock
}

func (m *ComparativeService) Compare(ctx context.Context, topic string, codes []string) (*comparison.Result, error) {
	args := m.Called(ctx, topic, codes)
	res, _ := args.Get(0).(*comparison.Result)
	return res, args.Error(1)
}

func (m *ComparativeService) CompareReport(ctx context.Context, topic string, codes []string) (string, error) {
	args := m.Called(ctx, topic, codes)
	return args.String(0), args.Error(1)
}

func (m *ComparativeService) GenerateReport(result *comparison.Result) string {
	return m.Called(result).String(0)
}

func (m *ComparativeService) AnalyzeChoiceOfLaw(ctx context.Context, input *comparative.ChoiceOfLawInput) (*choiceoflaw.Result, error) {
	args := m.Called(ctx, input)
	res, _ := args.Get(0).(*choiceoflaw.Result)
	return res, args.Error(1)
}

func (m *ComparativeService) SelectApproach(ctx context.Context, forum string) (*comparative.ApproachSelection, error) {
	args := m.Called(ctx, forum)
	res, _ := args.Get(0).(*comparative.ApproachSelection)
	return res, args.Error(1)
}

func (m *ComparativeService) Search(ctx context.Context, q caselaw.Query) ([]caselaw.SearchResult, error) {
	args := m.Called(ctx, q)
	res, _ := args.Get(0).([]caselaw.SearchResult)
	return res, args.Error(1)
}

func (m *ComparativeService) GetDecision(ctx context.Context, id string) (*caselaw.Decision, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*caselaw.Decision)
	return res, args.Error(1)
}

func (m *ComparativeService) AddDecision(ctx context.Context, p caselaw.DecisionParams) (*caselaw.Decision, error) {
	args := m.Called(ctx, p)
	res, _ := args.Get(0).(*caselaw.Decision)
	return res, args.Error(1)
}

func (m *ComparativeService) Reload(ctx context.Context, trigger string) (*comparative.SnapshotInfo, error) {
	args := m.Called(ctx, trigger)
	res, _ := args.Get(0).(*comparative.SnapshotInfo)
	return res, args.Error(1)
}

func (m *ComparativeService) Snapshot() *comparative.Snapshot {
	res, _ := m.Called().Get(0).(*comparative.Snapshot)
	return res
}

func (m *ComparativeService) Ready() bool {
	return m.Called().Bool(0)
}

func (m *ComparativeService) Topics() []comparative.TopicInfo {
	res, _ := m.Called().Get(0).([]comparative.TopicInfo)
	return res
}

var _ comparative.Service = (*ComparativeService)(nil)

//Personal.AI order the ending
