// Package tally aggregates the vote ledger into per-position results.
//
// Tallies are always recomputed from the ledger; the optional cache only
// shortens the read path and is invalidated whenever the ledger changes.
package tally

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	ballotmodels "univote/internal/ballot/models"
	electionmodels "univote/internal/election/models"
	"univote/internal/platform/metrics"
	id "univote/pkg/domain"
	dErrors "univote/pkg/domain-errors"
)

// CandidateStanding is one candidate's count within a position, ordered by
// vote count descending. Percentage is of all selections for the position,
// abstentions included, rounded to the nearest integer.
type CandidateStanding struct {
	CandidateID id.CandidateID `json:"candidate_id"`
	Name        string         `json:"name"`
	VoteCount   int            `json:"vote_count"`
	Percentage  float64        `json:"percentage"`
}

// PositionTally is the aggregated outcome of one contested position. Winner
// is nil when no votes were cast or when the top count is shared.
type PositionTally struct {
	Position     string              `json:"position"`
	Candidates   []CandidateStanding `json:"candidates"`
	AbstainCount int                 `json:"abstain_count"`
	TotalVotes   int                 `json:"total_votes"`
	Winner       *id.CandidateID     `json:"winner"`
}

// Result is a full election tally, positions in ballot order.
type Result struct {
	ElectionID          id.ElectionID   `json:"election_id"`
	ComputedAt          time.Time       `json:"computed_at"`
	Positions           []PositionTally `json:"positions"`
	TotalUniqueVoters   int             `json:"total_unique_voters"`
	TotalEligibleVoters int             `json:"total_eligible_voters"`
	ParticipationRate   float64         `json:"participation_rate"`
}

// Turnout is the participation summary served on its own endpoint.
type Turnout struct {
	ElectionID          id.ElectionID `json:"election_id"`
	TotalUniqueVoters   int           `json:"total_unique_voters"`
	TotalEligibleVoters int           `json:"total_eligible_voters"`
	ParticipationRate   float64       `json:"participation_rate"`
}

// ElectionStore reads election configuration and candidates.
type ElectionStore interface {
	GetElection(ctx context.Context, electionID id.ElectionID) (*electionmodels.Election, error)
	ListCandidates(ctx context.Context, electionID id.ElectionID) ([]*electionmodels.Candidate, error)
}

// Ledger reads the vote ledger.
type Ledger interface {
	ListByElection(ctx context.Context, electionID id.ElectionID) ([]*ballotmodels.Entry, error)
	CountDistinctVoters(ctx context.Context, electionID id.ElectionID) (int, error)
}

// Cache stores computed tallies for the hot read path. A miss is
// (nil, false, nil); errors are reported so callers can fall through.
type Cache interface {
	Get(ctx context.Context, electionID id.ElectionID) (*Result, bool, error)
	Set(ctx context.Context, result *Result) error
	Invalidate(ctx context.Context, electionID id.ElectionID) error
}

// Service computes tallies from the ledger.
type Service struct {
	elections ElectionStore
	ledger    Ledger
	cache     Cache
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
}

// New constructs the tally service. cache may be nil when caching is
// disabled.
func New(elections ElectionStore, ledger Ledger, cache Cache, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		elections: elections,
		ledger:    ledger,
		cache:     cache,
		metrics:   m,
		logger:    logger,
		tracer:    otel.Tracer("univote/internal/tally"),
	}
}

// Compute aggregates the election's ledger into per-position results.
// Ledger read failures surface loudly; a tally must never silently render
// from partial data.
func (s *Service) Compute(ctx context.Context, electionID id.ElectionID) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "tally.compute")
	defer span.End()

	if s.cache != nil {
		cached, hit, err := s.cache.Get(ctx, electionID)
		if err != nil {
			s.logger.WarnContext(ctx, "tally cache read failed", "election_id", electionID.String(), "error", err)
		}
		if hit {
			if s.metrics != nil {
				s.metrics.TallyCacheHits.Inc()
			}
			return cached, nil
		}
		if s.metrics != nil {
			s.metrics.TallyCacheMisses.Inc()
		}
	}

	var (
		election     *electionmodels.Election
		candidates   []*electionmodels.Candidate
		entries      []*ballotmodels.Entry
		uniqueVoters int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		election, err = s.elections.GetElection(gctx, electionID)
		return err
	})
	g.Go(func() error {
		var err error
		candidates, err = s.elections.ListCandidates(gctx, electionID)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.ledger.ListByElection(gctx, electionID)
		return err
	})
	g.Go(func() error {
		var err error
		uniqueVoters, err = s.ledger.CountDistinctVoters(gctx, electionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not read ledger for tally")
	}
	if election == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "election not found")
	}

	result := aggregate(election, candidates, entries, uniqueVoters, time.Now().UTC())

	if s.metrics != nil {
		s.metrics.TalliesComputed.Inc()
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, result); err != nil {
			s.logger.WarnContext(ctx, "tally cache write failed", "election_id", electionID.String(), "error", err)
		}
	}
	return result, nil
}

// ComputeTurnout returns the participation summary without the per-position
// breakdown.
func (s *Service) ComputeTurnout(ctx context.Context, electionID id.ElectionID) (*Turnout, error) {
	election, err := s.elections.GetElection(ctx, electionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not load election")
	}
	if election == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "election not found")
	}
	uniqueVoters, err := s.ledger.CountDistinctVoters(ctx, electionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not count voters")
	}
	return &Turnout{
		ElectionID:          electionID,
		TotalUniqueVoters:   uniqueVoters,
		TotalEligibleVoters: election.TotalEligibleVoters,
		ParticipationRate:   percentage(uniqueVoters, election.TotalEligibleVoters),
	}, nil
}

func aggregate(
	election *electionmodels.Election,
	candidates []*electionmodels.Candidate,
	entries []*ballotmodels.Entry,
	uniqueVoters int,
	computedAt time.Time,
) *Result {
	counts := make(map[string]map[id.CandidateID]int)
	abstains := make(map[string]int)
	totals := make(map[string]int)
	for _, entry := range entries {
		totals[entry.Position]++
		if entry.CandidateID == nil {
			abstains[entry.Position]++
			continue
		}
		byCandidate := counts[entry.Position]
		if byCandidate == nil {
			byCandidate = make(map[id.CandidateID]int)
			counts[entry.Position] = byCandidate
		}
		byCandidate[*entry.CandidateID]++
	}

	positions := make([]PositionTally, 0, len(election.Positions))
	for _, position := range election.Positions {
		total := totals[position]

		standings := make([]CandidateStanding, 0)
		for _, candidate := range candidates {
			if candidate.Position != position {
				continue
			}
			count := counts[position][candidate.ID]
			standings = append(standings, CandidateStanding{
				CandidateID: candidate.ID,
				Name:        candidate.Name,
				VoteCount:   count,
				Percentage:  percentage(count, total),
			})
		}
		// Stable sort keeps registration order for equal counts.
		sort.SliceStable(standings, func(i, j int) bool {
			return standings[i].VoteCount > standings[j].VoteCount
		})

		positions = append(positions, PositionTally{
			Position:     position,
			Candidates:   standings,
			AbstainCount: abstains[position],
			TotalVotes:   total,
			Winner:       winnerOf(standings),
		})
	}

	return &Result{
		ElectionID:          election.ID,
		ComputedAt:          computedAt,
		Positions:           positions,
		TotalUniqueVoters:   uniqueVoters,
		TotalEligibleVoters: election.TotalEligibleVoters,
		ParticipationRate:   percentage(uniqueVoters, election.TotalEligibleVoters),
	}
}

// winnerOf declares a winner only for a strict, non-zero maximum. A shared
// top count is a tie and yields no winner.
func winnerOf(standings []CandidateStanding) *id.CandidateID {
	if len(standings) == 0 || standings[0].VoteCount == 0 {
		return nil
	}
	if len(standings) > 1 && standings[1].VoteCount == standings[0].VoteCount {
		return nil
	}
	winner := standings[0].CandidateID
	return &winner
}

// percentage rounds to the nearest whole percent; a zero denominator yields 0
// rather than NaN.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count) / float64(total) * 100)
}
