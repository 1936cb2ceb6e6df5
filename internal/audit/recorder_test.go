package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/luissimon96/sistema-exames-sub000/internal/eventbus"
	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
)

type RecorderSuite struct {
	suite.Suite
	store    *InMemoryStore
	recorder *Recorder
	ctx      context.Context
}

func TestRecorderSuite(t *testing.T) {
	suite.Run(t, new(RecorderSuite))
}

func (s *RecorderSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.recorder = NewRecorder(s.store, nil)
	s.ctx = context.Background()
}

func (s *RecorderSuite) TestCategorize() {
	cases := []struct {
		eventType string
		want      Category
	}{
		{"consent.granted", CategoryCompliance},
		{"consent.revoked", CategoryCompliance},
		{"consent.renewed", CategoryCompliance},
		{"user.two_factor_enabled", CategorySecurity},
		{"user.two_factor_disabled", CategorySecurity},
		{"user.password_changed", CategorySecurity},
		{"user.profile_updated", CategoryOperations},
		{"something.unknown", CategoryOperations},
	}
	for _, tc := range cases {
		s.Run(tc.eventType, func() {
			s.Equal(tc.want, Categorize(tc.eventType))
		})
	}
}

func (s *RecorderSuite) TestHandle() {
	evt := domain.NewEvent("consent.granted", "c1", map[string]string{"dataType": "health_data"})

	s.Require().NoError(s.recorder.Handle(s.ctx, evt))

	entries, err := s.store.ListByAggregate(s.ctx, "c1")
	s.Require().NoError(err)
	s.Require().Len(entries, 1)

	entry := entries[0]
	s.Equal(CategoryCompliance, entry.Category)
	s.Equal(evt.ID.String(), entry.EventID)
	s.Equal("consent.granted", entry.EventType)
	s.Equal(evt.OccurredAt, entry.Timestamp)
	s.Equal("health_data", entry.Metadata["dataType"])
}

func (s *RecorderSuite) TestAttachObservesAllTypes() {
	bus := eventbus.New(nil, nil)
	s.recorder.Attach(bus)

	s.Require().NoError(bus.Publish(s.ctx,
		domain.NewEvent("user.profile_updated", "u1", nil),
		domain.NewEvent("consent.revoked", "c1", nil)))

	all, err := s.store.All(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(CategoryOperations, all[0].Category)
	s.Equal(CategoryCompliance, all[1].Category)
}

func (s *RecorderSuite) TestListByAggregateFiltersOthers() {
	s.Require().NoError(s.recorder.Handle(s.ctx, domain.NewEvent("a", "agg-1", nil)))
	s.Require().NoError(s.recorder.Handle(s.ctx, domain.NewEvent("b", "agg-2", nil)))

	entries, err := s.recorder.ListByAggregate(s.ctx, "agg-1")
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("a", entries[0].EventType)
}
