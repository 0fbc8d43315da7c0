package recommendation

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// =============================================================================
// Recommendation Engine Test Suite
// =============================================================================

type EngineSuite struct {
	suite.Suite
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.engine = New()
}

func (s *EngineSuite) TestThresholds() {
	s.Run("supported jurisdiction, mission and no prior form proceed at 75", func() {
		got := s.engine.Recommend(ExplorationAnswers{
			Jurisdiction: "US",
			Mission:      "Keep the riverbank clean",
			CurrentForm:  CurrentFormNone,
		})
		s.Equal(75, got.Score)
		s.Equal(OutcomeProceed, got.Recommendation)
		s.Equal(TargetStructure, got.Structure)
		s.Equal(75, got.Confidence)
		s.Len(got.Reasoning, 3)
		s.Empty(got.Considerations)
		s.Equal(NextSteps(OutcomeProceed), got.NextSteps)
	})

	s.Run("exactly 60 proceeds", func() {
		// 30 + 25 - 10 + 15 = 60
		got := s.engine.Recommend(ExplorationAnswers{
			Jurisdiction: "us",
			MissionTags:  []string{"education"},
			CurrentForm:  CurrentFormTeam,
			ImpactTags:   []string{"Community wellbeing"},
		})
		s.Equal(60, got.Score)
		s.Equal(OutcomeProceed, got.Recommendation)
	})

	s.Run("between 30 and 59 explores", func() {
		// -20 + 25 + 20 + 10 = 35
		got := s.engine.Recommend(ExplorationAnswers{
			Jurisdiction:        "Ontario",
			Mission:             "Youth chess",
			NeedsLegalStructure: true,
		})
		s.Equal(35, got.Score)
		s.Equal(OutcomeExplore, got.Recommendation)
		s.Empty(got.Structure)
		s.Equal(NextSteps(OutcomeExplore), got.NextSteps)
	})

	s.Run("below 30 suggests an alternative", func() {
		// -20 - 15 - 10 = -45
		got := s.engine.Recommend(ExplorationAnswers{
			Jurisdiction: "Narnia",
			CurrentForm:  CurrentFormCommunity,
		})
		s.Equal(-45, got.Score)
		s.Equal(OutcomeAlternative, got.Recommendation)
		s.Equal(45, got.Confidence)
		s.Equal(NextSteps(OutcomeAlternative), got.NextSteps)
	})
}

func (s *EngineSuite) TestConsiderations() {
	s.Run("unsupported jurisdiction adds the local counsel caveat first", func() {
		got := s.engine.Recommend(ExplorationAnswers{Jurisdiction: "FR", CurrentForm: CurrentFormTeam})
		s.Require().Len(got.Considerations, 2)
		s.Contains(got.Considerations[0], "local counsel")
	})

	s.Run("informal groups neither gain nor lose points", func() {
		got := s.engine.Recommend(ExplorationAnswers{Jurisdiction: "US", Mission: "x", CurrentForm: CurrentFormInformal})
		s.Equal(55, got.Score)
		s.Len(got.Reasoning, 2)
	})
}

func (s *EngineSuite) TestConfidenceBounds() {
	answers := []ExplorationAnswers{
		{},
		{Jurisdiction: "US", Mission: "m", ImpactTags: []string{"community"}, NeedsLegalStructure: true},
		{Jurisdiction: "xx", CurrentForm: CurrentFormTeam},
	}
	for _, a := range answers {
		got := s.engine.Recommend(a)
		s.GreaterOrEqual(got.Confidence, 0)
		s.LessOrEqual(got.Confidence, 100)
		s.Contains([]Outcome{OutcomeProceed, OutcomeExplore, OutcomeAlternative}, got.Recommendation)
	}

	s.Run("maximum score is 100", func() {
		got := s.engine.Recommend(answers[1])
		s.Equal(100, got.Score)
		s.Equal(100, got.Confidence)
	})
}

func (s *EngineSuite) TestImpactTagsMatchCommunityAnyCase() {
	base := ExplorationAnswers{Jurisdiction: "US"}
	// 30 - 15 + 20
	s.Equal(35, s.engine.Recommend(base).Score)

	for _, tags := range [][]string{
		{" Community Benefit "},
		{"arts", "COMMUNITY gardens", "community gardens"},
	} {
		answers := base
		answers.ImpactTags = tags
		// 30 - 15 + 20 + 15, counted once however many tags match
		s.Equal(50, s.engine.Recommend(answers).Score, "%v", tags)
	}

	answers := base
	answers.ImpactTags = []string{"neighbors", ""}
	s.Equal(35, s.engine.Recommend(answers).Score)
}

func (s *EngineSuite) TestSupportedJurisdictionOption() {
	engine := New(WithSupportedJurisdictions(" ca ", "", "OR"))
	// 30 - 15 + 20
	s.Equal(35, engine.Recommend(ExplorationAnswers{Jurisdiction: "CA"}).Score)
	// -20 - 15 + 0
	s.Equal(-35, engine.Recommend(ExplorationAnswers{Jurisdiction: "US", CurrentForm: CurrentFormInformal}).Score)

	s.Run("empty list keeps the default", func() {
		engine := New(WithSupportedJurisdictions())
		s.True(engine.isSupported("us"))
	})
}

func (s *EngineSuite) TestNextStepsAreCopies() {
	steps := NextSteps(OutcomeProceed)
	steps[0] = "mutated"
	s.NotEqual("mutated", NextSteps(OutcomeProceed)[0])
}
