package domain

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type EntitySuite struct {
	suite.Suite
}

func TestEntitySuite(t *testing.T) {
	suite.Run(t, new(EntitySuite))
}

func (s *EntitySuite) TestIdentityEquality() {
	id := NewUserID()

	s.Run("same id means equal", func() {
		a := NewEntity(id)
		b := NewEntity(id)
		s.True(a.Equals(b))
	})

	s.Run("different ids are never equal", func() {
		a := NewEntity(NewUserID())
		b := NewEntity(NewUserID())
		s.False(a.Equals(b))
	})
}

func (s *EntitySuite) TestAggregateEventQueue() {
	s.Run("records events in order", func() {
		agg := NewAggregateRoot(NewUserID())
		agg.Record(NewEvent("user.profile_updated", "a1", nil))
		agg.Record(NewEvent("user.email_verified", "a1", nil))

		pending := agg.PendingEvents()
		s.Require().Len(pending, 2)
		s.Equal("user.profile_updated", pending[0].Type)
		s.Equal("user.email_verified", pending[1].Type)
	})

	s.Run("PendingEvents returns a copy", func() {
		agg := NewAggregateRoot(NewUserID())
		agg.Record(NewEvent("user.profile_updated", "a1", nil))

		snapshot := agg.PendingEvents()
		snapshot[0].Type = "tampered"

		s.Equal("user.profile_updated", agg.PendingEvents()[0].Type)
	})

	s.Run("MarkEventsCommitted clears the queue", func() {
		agg := NewAggregateRoot(NewUserID())
		agg.Record(NewEvent("user.profile_updated", "a1", nil))
		agg.MarkEventsCommitted()
		s.Empty(agg.PendingEvents())
	})
}

func (s *EntitySuite) TestNewEvent() {
	s.Run("stamps id and UTC occurrence time", func() {
		evt := NewEvent("consent.granted", "agg-1", nil)
		s.False(evt.ID.IsZero())
		s.Equal("consent.granted", evt.Type)
		s.Equal("agg-1", evt.AggregateID)
		s.False(evt.OccurredAt.IsZero())
		s.Equal("UTC", evt.OccurredAt.Location().String())
	})

	s.Run("clones metadata", func() {
		md := map[string]string{"k": "v"}
		evt := NewEvent("consent.granted", "agg-1", md)
		md["k"] = "mutated"
		s.Equal("v", evt.Metadata["k"])
	})
}
