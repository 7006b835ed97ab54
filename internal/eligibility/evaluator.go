// Package eligibility decides whether a voter may participate in an election.
//
// Evaluate is pure: callers fetch the profile and election, this package only
// applies the restriction rules. "Ineligible" is an expected outcome, not an
// error, so the result is a structured decision rather than an error value.
package eligibility

import (
	"fmt"
	"strings"

	electionmodels "univote/internal/election/models"
	votermodels "univote/internal/voter/models"
)

// Decision is the outcome of an eligibility evaluation. Reason is empty when
// eligible, otherwise a human-readable explanation naming each failed check
// with the voter's actual attributes and the election's required sets.
type Decision struct {
	Eligible bool
	Reason   string
}

// Evaluate applies the election's restriction rules to the voter profile.
//
// An election without restrictVoting is open to everyone. Otherwise the voter
// must pass both the department and the year-level check; either set is
// unrestricted when empty or when it contains its sentinel value.
func Evaluate(voter votermodels.VoterProfile, election *electionmodels.Election) Decision {
	if !election.RestrictVoting {
		return Decision{Eligible: true}
	}

	departmentOK := setAllows(election.Colleges, electionmodels.CollegeUniversityWide, voter.Department)
	yearOK := setAllows(election.EligibleYearLevels, electionmodels.YearLevelAll, voter.YearLevel)

	if departmentOK && yearOK {
		return Decision{Eligible: true}
	}

	var reasons []string
	if !departmentOK {
		reasons = append(reasons, fmt.Sprintf(
			"your department (%s) is not among the eligible colleges (%s)",
			orUnset(voter.Department), strings.Join(election.Colleges, ", ")))
	}
	if !yearOK {
		reasons = append(reasons, fmt.Sprintf(
			"your year level (%s) is not among the eligible year levels (%s)",
			orUnset(voter.YearLevel), strings.Join(election.EligibleYearLevels, ", ")))
	}

	return Decision{Reason: strings.Join(reasons, "; ")}
}

// setAllows reports whether the restriction set admits the value. An empty
// set and a set containing the sentinel are both unrestricted.
func setAllows(set []string, sentinel, value string) bool {
	if len(set) == 0 {
		return true
	}
	for _, member := range set {
		if member == sentinel || member == value {
			return true
		}
	}
	return false
}

func orUnset(value string) string {
	if value == "" {
		return "unset"
	}
	return value
}
