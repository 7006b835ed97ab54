package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	electionmodels "univote/internal/election/models"
	votermodels "univote/internal/voter/models"
)

func TestEvaluate_UnrestrictedElection(t *testing.T) {
	election := &electionmodels.Election{
		RestrictVoting:     false,
		Colleges:           []string{"Engineering"},
		EligibleYearLevels: []string{"1st Year"},
	}
	voter := votermodels.VoterProfile{Department: "CS", YearLevel: "4th Year"}

	decision := Evaluate(voter, election)

	// Restriction sets are ignored entirely when restrictVoting is off.
	assert.True(t, decision.Eligible)
	assert.Empty(t, decision.Reason)
}

func TestEvaluate_Sentinels(t *testing.T) {
	t.Run("university-wide admits any department", func(t *testing.T) {
		election := &electionmodels.Election{
			RestrictVoting: true,
			Colleges:       []string{electionmodels.CollegeUniversityWide},
		}
		voter := votermodels.VoterProfile{Department: "CS", YearLevel: "2nd Year"}

		decision := Evaluate(voter, election)
		assert.True(t, decision.Eligible)
	})

	t.Run("all year levels admits any year", func(t *testing.T) {
		election := &electionmodels.Election{
			RestrictVoting:     true,
			Colleges:           []string{"CS"},
			EligibleYearLevels: []string{electionmodels.YearLevelAll},
		}
		voter := votermodels.VoterProfile{Department: "CS", YearLevel: "5th Year"}

		decision := Evaluate(voter, election)
		assert.True(t, decision.Eligible)
	})

	t.Run("empty sets are unrestricted", func(t *testing.T) {
		election := &electionmodels.Election{RestrictVoting: true}
		voter := votermodels.VoterProfile{Department: "Law", YearLevel: "1st Year"}

		decision := Evaluate(voter, election)
		assert.True(t, decision.Eligible)
	})
}

func TestEvaluate_DepartmentMismatch(t *testing.T) {
	election := &electionmodels.Election{
		RestrictVoting: true,
		Colleges:       []string{"Engineering"},
	}
	voter := votermodels.VoterProfile{Department: "CS", YearLevel: "3rd Year"}

	decision := Evaluate(voter, election)

	assert.False(t, decision.Eligible)
	// Reason cites only the failed check, with actual and required values.
	assert.Contains(t, decision.Reason, "CS")
	assert.Contains(t, decision.Reason, "Engineering")
	assert.NotContains(t, decision.Reason, "year level")
}

func TestEvaluate_YearLevelMismatch(t *testing.T) {
	election := &electionmodels.Election{
		RestrictVoting:     true,
		Colleges:           []string{"CS"},
		EligibleYearLevels: []string{"1st Year", "2nd Year"},
	}
	voter := votermodels.VoterProfile{Department: "CS", YearLevel: "4th Year"}

	decision := Evaluate(voter, election)

	assert.False(t, decision.Eligible)
	assert.Contains(t, decision.Reason, "4th Year")
	assert.Contains(t, decision.Reason, "1st Year, 2nd Year")
	assert.NotContains(t, decision.Reason, "department")
}

func TestEvaluate_BothChecksFail(t *testing.T) {
	election := &electionmodels.Election{
		RestrictVoting:     true,
		Colleges:           []string{"Engineering", "Architecture"},
		EligibleYearLevels: []string{"1st Year"},
	}
	voter := votermodels.VoterProfile{Department: "CS", YearLevel: "3rd Year"}

	decision := Evaluate(voter, election)

	assert.False(t, decision.Eligible)
	assert.Contains(t, decision.Reason, "department")
	assert.Contains(t, decision.Reason, "year level")
	assert.Contains(t, decision.Reason, "Engineering, Architecture")
}

func TestEvaluate_EmptyProfileAttributes(t *testing.T) {
	election := &electionmodels.Election{
		RestrictVoting: true,
		Colleges:       []string{"Engineering"},
	}
	voter := votermodels.VoterProfile{}

	decision := Evaluate(voter, election)

	assert.False(t, decision.Eligible)
	assert.Contains(t, decision.Reason, "unset")
}
