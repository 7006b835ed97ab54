package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "univote/pkg/domain-errors"
)

func TestParseElectionID(t *testing.T) {
	valid := "550e8400-e29b-41d4-a716-446655440000"

	t.Run("accepts a canonical UUID", func(t *testing.T) {
		parsed, err := ParseElectionID(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, parsed.String())
		assert.False(t, parsed.IsNil())
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := ParseElectionID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, err := ParseElectionID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects the nil UUID", func(t *testing.T) {
		_, err := ParseElectionID("00000000-0000-0000-0000-000000000000")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestParseRoundTrips(t *testing.T) {
	t.Run("candidate", func(t *testing.T) {
		original := NewCandidateID()
		parsed, err := ParseCandidateID(original.String())
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})

	t.Run("ballot", func(t *testing.T) {
		original := NewBallotID()
		parsed, err := ParseBallotID(original.String())
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})

	t.Run("user", func(t *testing.T) {
		original := NewUserID()
		parsed, err := ParseUserID(original.String())
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})
}

func TestNewIDsAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewElectionID()
		_, dup := seen[id.String()]
		require.False(t, dup, "generated a duplicate election ID")
		seen[id.String()] = struct{}{}
	}
}

func TestIDJSONMarshaling(t *testing.T) {
	type payload struct {
		ElectionID  ElectionID   `json:"election_id"`
		CandidateID *CandidateID `json:"candidate_id,omitempty"`
	}

	candidateID := NewCandidateID()
	original := payload{ElectionID: NewElectionID(), CandidateID: &candidateID}

	raw, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(raw), original.ElectionID.String())

	var decoded payload
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, original.ElectionID, decoded.ElectionID)
	require.NotNil(t, decoded.CandidateID)
	assert.Equal(t, candidateID, *decoded.CandidateID)
}

func TestIDUnmarshalRejectsGarbage(t *testing.T) {
	var id UserID
	err := json.Unmarshal([]byte(`"definitely-not-a-uuid"`), &id)
	assert.Error(t, err)
}
