package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/techagentng/askx/config"
	"github.com/techagentng/askx/db"
	"github.com/techagentng/askx/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Transition is the change a vote request made to a voter's stance on a target.
type Transition string

const (
	TransitionCast    Transition = "cast"
	TransitionFlip    Transition = "flip"
	TransitionRetract Transition = "retract"
)

// Message is the human readable outcome returned to the client.
func (t Transition) Message() string {
	switch t {
	case TransitionCast:
		return "voted"
	case TransitionFlip:
		return "Vote Status Updated"
	case TransitionRetract:
		return "vote removed"
	}
	return ""
}

// VoteOutcome describes what CastVote changed.
type VoteOutcome struct {
	Document         *models.Vote
	Previous         *models.Vote
	Transition       Transition
	Delta            int
	AuthorID         string
	AuthorReputation int
	Tally            models.Tally
}

type VoteService interface {
	CastVote(ctx context.Context, req *models.VoteRequest) (*VoteOutcome, error)
	GetTally(ctx context.Context, filter models.VoteFilter) (*models.Tally, error)
	// Drain waits for background author notifications to finish, or for ctx.
	Drain(ctx context.Context) error
}

type voteService struct {
	Config    *config.Config
	voteRepo  db.VoteRepository
	prefsRepo db.PrefsRepository
	notifier  Notifier
	log       *zap.Logger

	pending sync.WaitGroup
}

func NewVoteService(voteRepo db.VoteRepository, prefsRepo db.PrefsRepository, notifier Notifier, conf *config.Config, log *zap.Logger) VoteService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &voteService{
		Config:    conf,
		voteRepo:  voteRepo,
		prefsRepo: prefsRepo,
		notifier:  notifier,
		log:       log,
	}
}

// reconcile decides how a requested status changes an existing vote.
// create reports whether a new vote record must be written; delta is the
// total change to the author's reputation.
func reconcile(existing *models.Vote, requested models.VoteStatus) (transition Transition, delta int, create bool) {
	if existing == nil {
		return TransitionCast, requested.Weight(), true
	}
	delta = -existing.VoteStatus.Weight()
	if existing.VoteStatus == requested {
		return TransitionRetract, delta, false
	}
	return TransitionFlip, delta - existing.VoteStatus.Weight(), true
}

func (s *voteService) CastVote(ctx context.Context, req *models.VoteRequest) (*VoteOutcome, error) {
	targetType := models.TargetType(req.Type)
	requested := models.VoteStatus(req.VoteStatus)
	outcome := &VoteOutcome{}

	err := s.voteRepo.Transaction(ctx, func(repo db.VoteRepository) error {
		authorID, err := repo.FindTargetAuthorID(ctx, targetType, req.TypeID)
		if err != nil {
			return err
		}
		existing, err := repo.FindVote(ctx, targetType, req.TypeID, req.VotedByID)
		if err != nil {
			return err
		}

		transition, delta, create := reconcile(existing, requested)
		if existing != nil {
			if err := repo.DeleteVote(ctx, existing.ID); err != nil {
				return err
			}
		}
		if create {
			vote := &models.Vote{
				Type:       targetType,
				TypeID:     req.TypeID,
				VotedByID:  req.VotedByID,
				VoteStatus: requested,
			}
			if err := repo.CreateVote(ctx, vote); err != nil {
				return err
			}
			outcome.Document = vote
		}

		reputation, err := repo.AdjustReputation(ctx, authorID, delta)
		if err != nil {
			return err
		}

		outcome.Previous = existing
		outcome.Transition = transition
		outcome.Delta = delta
		outcome.AuthorID = authorID
		outcome.AuthorReputation = reputation
		return nil
	})
	if err != nil {
		return nil, err
	}

	tally, err := s.GetTally(ctx, models.VoteFilter{Type: targetType, TypeID: req.TypeID})
	if err != nil {
		return nil, err
	}
	outcome.Tally = *tally

	s.log.Info("vote reconciled",
		zap.String("type", req.Type),
		zap.String("type_id", req.TypeID),
		zap.String("voted_by_id", req.VotedByID),
		zap.String("transition", string(outcome.Transition)),
		zap.Int("delta", outcome.Delta),
		zap.String("author_id", outcome.AuthorID),
		zap.Int("author_reputation", outcome.AuthorReputation),
	)

	if outcome.Transition != TransitionRetract {
		s.pending.Add(1)
		go func() {
			defer s.pending.Done()
			s.notifyAuthor(context.WithoutCancel(ctx), outcome)
		}()
	}
	return outcome, nil
}

// GetTally counts upvotes and downvotes concurrently. A non-empty
// filter.VotedByID narrows the count to one voter.
func (s *voteService) GetTally(ctx context.Context, filter models.VoteFilter) (*models.Tally, error) {
	var tally models.Tally
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f := filter
		f.VoteStatus = models.Upvoted
		n, err := s.voteRepo.CountVotes(gctx, f)
		tally.Upvotes = n
		return err
	})
	g.Go(func() error {
		f := filter
		f.VoteStatus = models.Downvoted
		n, err := s.voteRepo.CountVotes(gctx, f)
		tally.Downvotes = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	tally.VoteResult = tally.Upvotes - tally.Downvotes
	return &tally, nil
}

func (s *voteService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *voteService) notifyAuthor(ctx context.Context, outcome *VoteOutcome) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	prefs, err := s.prefsRepo.GetPrefs(ctx, outcome.AuthorID)
	if err != nil {
		s.log.Warn("loading author prefs for notification", zap.String("author_id", outcome.AuthorID), zap.Error(err))
		return
	}
	if prefs.DeviceToken == "" {
		return
	}

	vote := outcome.Document
	body := fmt.Sprintf("Your %s was %s. Reputation is now %d.", vote.Type, vote.VoteStatus, outcome.AuthorReputation)
	data := map[string]interface{}{
		"type":       vote.Type,
		"typeId":     vote.TypeID,
		"voteStatus": vote.VoteStatus,
		"reputation": outcome.AuthorReputation,
	}
	if err := s.notifier.Notify(ctx, prefs.DeviceToken, "New vote", body, data); err != nil {
		s.log.Warn("sending vote notification", zap.String("author_id", outcome.AuthorID), zap.Error(err))
	}
}
