// Package testutil provides an in-memory implementation of the repository
// interfaces for service and handler tests.
package testutil

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/askx/db"
	errs "github.com/techagentng/askx/errors"
	"github.com/techagentng/askx/models"
)

// MemoryStore implements every repository in package db on top of maps.
// Transactions are serialized and rolled back on error.
type MemoryStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	questions map[string]models.Question
	answers   map[string]models.Answer
	comments  map[string]models.Comment
	votes     map[string]models.Vote
	prefs     map[string]models.UserPrefs
	clock     time.Time

	// Fail makes the named method return the given error.
	Fail map[string]error
	// Calls counts invocations per method name.
	Calls map[string]int
}

var (
	_ db.VoteRepository     = (*MemoryStore)(nil)
	_ db.PrefsRepository    = (*MemoryStore)(nil)
	_ db.QuestionRepository = (*MemoryStore)(nil)
	_ db.AnswerRepository   = (*MemoryStore)(nil)
	_ db.CommentRepository  = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		questions: map[string]models.Question{},
		answers:   map[string]models.Answer{},
		comments:  map[string]models.Comment{},
		votes:     map[string]models.Vote{},
		prefs:     map[string]models.UserPrefs{},
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Fail:      map[string]error{},
		Calls:     map[string]int{},
	}
}

// enter records the call and returns the injected failure, if any.
// Callers must hold s.mu.
func (s *MemoryStore) enter(method string) error {
	s.Calls[method]++
	return s.Fail[method]
}

func (s *MemoryStore) stamp(m *models.Model) {
	s.clock = s.clock.Add(time.Second)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = s.clock
	m.UpdatedAt = s.clock
}

// CallCount returns how many times method was called.
func (s *MemoryStore) CallCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls[method]
}

// SetFailure makes method fail with err; a nil err clears it.
func (s *MemoryStore) SetFailure(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.Fail, method)
		return
	}
	s.Fail[method] = err
}

// SeedQuestion stores a question by authorID and returns it.
func (s *MemoryStore) SeedQuestion(authorID string) models.Question {
	q := models.Question{Title: "How does voting work?", Content: "details", AuthorID: authorID}
	s.mu.Lock()
	s.stamp(&q.Model)
	s.questions[q.ID] = q
	s.mu.Unlock()
	return q
}

// SeedAnswer stores an answer to questionID by authorID and returns it.
func (s *MemoryStore) SeedAnswer(questionID, authorID string) models.Answer {
	a := models.Answer{Content: "like this", AuthorID: authorID, QuestionID: questionID}
	s.mu.Lock()
	s.stamp(&a.Model)
	s.answers[a.ID] = a
	s.mu.Unlock()
	return a
}

// SetReputation overwrites a user's reputation.
func (s *MemoryStore) SetReputation(userID string, reputation int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.prefs[userID]
	p.UserID = userID
	p.Reputation = reputation
	s.prefs[userID] = p
}

// Reputation reads a user's reputation, zero when unknown.
func (s *MemoryStore) Reputation(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs[userID].Reputation
}

// DeviceToken reads the push token stored for a user.
func (s *MemoryStore) DeviceToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs[userID].DeviceToken
}

// Votes returns every stored vote.
func (s *MemoryStore) Votes() []models.Vote {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Vote, 0, len(s.votes))
	for _, v := range s.votes {
		out = append(out, v)
	}
	return out
}

func (s *MemoryStore) FindVote(_ context.Context, targetType models.TargetType, typeID, votedByID string) (*models.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("FindVote"); err != nil {
		return nil, err
	}
	for _, v := range s.votes {
		if v.Type == targetType && v.TypeID == typeID && v.VotedByID == votedByID {
			found := v
			return &found, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreateVote(_ context.Context, vote *models.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateVote"); err != nil {
		return err
	}
	for _, v := range s.votes {
		if v.Type == vote.Type && v.TypeID == vote.TypeID && v.VotedByID == vote.VotedByID {
			return errs.New("vote already recorded for this target", http.StatusConflict)
		}
	}
	s.stamp(&vote.Model)
	s.votes[vote.ID] = *vote
	return nil
}

func (s *MemoryStore) DeleteVote(_ context.Context, voteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteVote"); err != nil {
		return err
	}
	if _, ok := s.votes[voteID]; !ok {
		return errs.New("vote not found", http.StatusNotFound)
	}
	delete(s.votes, voteID)
	return nil
}

func (s *MemoryStore) CountVotes(_ context.Context, filter models.VoteFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CountVotes"); err != nil {
		return 0, err
	}
	var n int64
	for _, v := range s.votes {
		if v.Type != filter.Type || v.TypeID != filter.TypeID {
			continue
		}
		if filter.VoteStatus != "" && v.VoteStatus != filter.VoteStatus {
			continue
		}
		if filter.VotedByID != "" && v.VotedByID != filter.VotedByID {
			continue
		}
		n++
	}
	return n, nil
}

func (s *MemoryStore) FindTargetAuthorID(_ context.Context, targetType models.TargetType, typeID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("FindTargetAuthorID"); err != nil {
		return "", err
	}
	switch targetType {
	case models.TargetQuestion:
		if q, ok := s.questions[typeID]; ok {
			return q.AuthorID, nil
		}
	case models.TargetAnswer:
		if a, ok := s.answers[typeID]; ok {
			return a.AuthorID, nil
		}
	default:
		return "", errs.Newf(http.StatusBadRequest, "unknown vote target type %q", targetType)
	}
	return "", errs.Newf(http.StatusNotFound, "%s not found", targetType)
}

func (s *MemoryStore) AdjustReputation(_ context.Context, userID string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("AdjustReputation"); err != nil {
		return 0, err
	}
	p := s.prefs[userID]
	p.UserID = userID
	p.Reputation += delta
	s.prefs[userID] = p
	return p.Reputation, nil
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(repo db.VoteRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	votes := make(map[string]models.Vote, len(s.votes))
	for k, v := range s.votes {
		votes[k] = v
	}
	prefs := make(map[string]models.UserPrefs, len(s.prefs))
	for k, v := range s.prefs {
		prefs[k] = v
	}
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.votes = votes
		s.prefs = prefs
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *MemoryStore) GetPrefs(_ context.Context, userID string) (*models.UserPrefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetPrefs"); err != nil {
		return nil, err
	}
	p, ok := s.prefs[userID]
	if !ok {
		return &models.UserPrefs{UserID: userID}, nil
	}
	return &p, nil
}

func (s *MemoryStore) SetDeviceToken(_ context.Context, userID, token string) (*models.UserPrefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SetDeviceToken"); err != nil {
		return nil, err
	}
	p := s.prefs[userID]
	p.UserID = userID
	p.DeviceToken = token
	s.prefs[userID] = p
	return &p, nil
}

func (s *MemoryStore) CreateQuestion(_ context.Context, question *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateQuestion"); err != nil {
		return err
	}
	s.stamp(&question.Model)
	s.questions[question.ID] = *question
	return nil
}

func (s *MemoryStore) GetQuestionByID(_ context.Context, id string) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetQuestionByID"); err != nil {
		return nil, err
	}
	q, ok := s.questions[id]
	if !ok {
		return nil, errs.New("question not found", http.StatusNotFound)
	}
	return &q, nil
}

func (s *MemoryStore) ListQuestions(_ context.Context, page models.Page) ([]models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListQuestions"); err != nil {
		return nil, err
	}
	out := make([]models.Question, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, page), nil
}

func (s *MemoryStore) DeleteQuestion(_ context.Context, id string) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteQuestion"); err != nil {
		return err
	}
	q, ok := s.questions[id]
	if !ok {
		return errs.New("question not found", http.StatusNotFound)
	}
	for aid, a := range s.answers {
		if a.QuestionID == id {
			s.dropChildren(models.TargetAnswer, aid, a.AuthorID)
			delete(s.answers, aid)
		}
	}
	s.dropChildren(models.TargetQuestion, id, q.AuthorID)
	delete(s.questions, id)
	return nil
}

// dropChildren removes the votes and comments on one target and reverses
// the votes' net weight on authorID. Callers must hold s.mu.
func (s *MemoryStore) dropChildren(targetType models.TargetType, id, authorID string) {
	weight := 0
	for vid, v := range s.votes {
		if v.Type == targetType && v.TypeID == id {
			weight += v.VoteStatus.Weight()
			delete(s.votes, vid)
		}
	}
	if weight != 0 {
		p := s.prefs[authorID]
		p.UserID = authorID
		p.Reputation -= weight
		s.prefs[authorID] = p
	}
	for cid, c := range s.comments {
		if c.Type == targetType && c.TypeID == id {
			delete(s.comments, cid)
		}
	}
}

func (s *MemoryStore) CreateAnswer(_ context.Context, answer *models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateAnswer"); err != nil {
		return err
	}
	s.stamp(&answer.Model)
	s.answers[answer.ID] = *answer
	return nil
}

func (s *MemoryStore) GetAnswerByID(_ context.Context, id string) (*models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetAnswerByID"); err != nil {
		return nil, err
	}
	a, ok := s.answers[id]
	if !ok {
		return nil, errs.New("answer not found", http.StatusNotFound)
	}
	return &a, nil
}

func (s *MemoryStore) ListAnswersByQuestion(_ context.Context, questionID string, page models.Page) ([]models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListAnswersByQuestion"); err != nil {
		return nil, err
	}
	var out []models.Answer
	for _, a := range s.answers {
		if a.QuestionID == questionID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, page), nil
}

func (s *MemoryStore) DeleteAnswer(_ context.Context, id string) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteAnswer"); err != nil {
		return err
	}
	a, ok := s.answers[id]
	if !ok {
		return errs.New("answer not found", http.StatusNotFound)
	}
	s.dropChildren(models.TargetAnswer, id, a.AuthorID)
	delete(s.answers, id)
	return nil
}

func (s *MemoryStore) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateComment"); err != nil {
		return err
	}
	s.stamp(&comment.Model)
	s.comments[comment.ID] = *comment
	return nil
}

func (s *MemoryStore) ListComments(_ context.Context, targetType models.TargetType, typeID string, page models.Page) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListComments"); err != nil {
		return nil, err
	}
	var out []models.Comment
	for _, c := range s.comments {
		if c.Type == targetType && c.TypeID == typeID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, page), nil
}

func (s *MemoryStore) DeleteComment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteComment"); err != nil {
		return err
	}
	if _, ok := s.comments[id]; !ok {
		return errs.New("comment not found", http.StatusNotFound)
	}
	delete(s.comments, id)
	return nil
}

func paginate[T any](items []T, page models.Page) []T {
	page = page.Normalize()
	if page.Offset >= len(items) {
		return []T{}
	}
	end := page.Offset + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[page.Offset:end]
}
