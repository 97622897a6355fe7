package db

import (
	"context"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "github.com/techagentng/askx/errors"
	"github.com/techagentng/askx/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB connects to the database named by ASKX_TEST_POSTGRES_DSN.
func setupTestDB(t *testing.T) *GormDB {
	t.Helper()
	dsn := os.Getenv("ASKX_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("ASKX_TEST_POSTGRES_DSN not set")
	}
	db, err := openPostgres(dsn, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, migrate(db))
	return &GormDB{DB: db}
}

func seedQuestion(t *testing.T, g *GormDB, authorID string) *models.Question {
	t.Helper()
	q := &models.Question{Title: "How do I vote?", Content: "body", AuthorID: authorID}
	require.NoError(t, NewQuestionRepo(g).CreateQuestion(context.Background(), q))
	return q
}

func TestVoteRepoLedger(t *testing.T) {
	g := setupTestDB(t)
	ctx := context.Background()
	repo := NewVoteRepo(g)
	author := uuid.NewString()
	q := seedQuestion(t, g, author)
	voter := uuid.NewString()

	found, err := repo.FindVote(ctx, models.TargetQuestion, q.ID, voter)
	require.NoError(t, err)
	assert.Nil(t, found)

	vote := &models.Vote{Type: models.TargetQuestion, TypeID: q.ID, VotedByID: voter, VoteStatus: models.Upvoted}
	require.NoError(t, repo.CreateVote(ctx, vote))
	assert.NotEmpty(t, vote.ID)

	dup := &models.Vote{Type: models.TargetQuestion, TypeID: q.ID, VotedByID: voter, VoteStatus: models.Downvoted}
	err = repo.CreateVote(ctx, dup)
	assert.Equal(t, http.StatusConflict, errs.StatusOf(err))

	count, err := repo.CountVotes(ctx, models.VoteFilter{Type: models.TargetQuestion, TypeID: q.ID, VoteStatus: models.Upvoted})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	authorID, err := repo.FindTargetAuthorID(ctx, models.TargetQuestion, q.ID)
	require.NoError(t, err)
	assert.Equal(t, author, authorID)

	_, err = repo.FindTargetAuthorID(ctx, models.TargetAnswer, q.ID)
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))

	require.NoError(t, repo.DeleteVote(ctx, vote.ID))
	err = repo.DeleteVote(ctx, vote.ID)
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))
}

func TestAdjustReputationIsAtomic(t *testing.T) {
	g := setupTestDB(t)
	ctx := context.Background()
	repo := NewVoteRepo(g)
	author := uuid.NewString()

	rep, err := repo.AdjustReputation(ctx, author, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, rep)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AdjustReputation(ctx, author, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	prefs, err := NewPrefsRepo(g).GetPrefs(ctx, author)
	require.NoError(t, err)
	assert.Equal(t, 25, prefs.Reputation)
}

func TestDeleteQuestionCascades(t *testing.T) {
	g := setupTestDB(t)
	ctx := context.Background()
	asker, answerer := uuid.NewString(), uuid.NewString()
	q := seedQuestion(t, g, asker)
	a := &models.Answer{Content: "yes", AuthorID: answerer, QuestionID: q.ID}
	require.NoError(t, NewAnswerRepo(g).CreateAnswer(ctx, a))

	votes := NewVoteRepo(g)
	castVote := func(targetType models.TargetType, typeID, author string, status models.VoteStatus) {
		require.NoError(t, votes.CreateVote(ctx, &models.Vote{Type: targetType, TypeID: typeID, VotedByID: uuid.NewString(), VoteStatus: status}))
		_, err := votes.AdjustReputation(ctx, author, status.Weight())
		require.NoError(t, err)
	}
	castVote(models.TargetAnswer, a.ID, answerer, models.Upvoted)
	castVote(models.TargetAnswer, a.ID, answerer, models.Upvoted)
	castVote(models.TargetQuestion, q.ID, asker, models.Downvoted)
	require.NoError(t, NewCommentRepo(g).CreateComment(ctx, &models.Comment{Content: "c", AuthorID: "v", Type: models.TargetAnswer, TypeID: a.ID}))

	require.NoError(t, NewQuestionRepo(g).DeleteQuestion(ctx, q.ID))

	_, err := NewAnswerRepo(g).GetAnswerByID(ctx, a.ID)
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))
	n, err := votes.CountVotes(ctx, models.VoteFilter{Type: models.TargetAnswer, TypeID: a.ID})
	require.NoError(t, err)
	assert.Zero(t, n)
	comments, err := NewCommentRepo(g).ListComments(ctx, models.TargetAnswer, a.ID, models.Page{})
	require.NoError(t, err)
	assert.Empty(t, comments)

	prefs := NewPrefsRepo(g)
	for _, author := range []string{asker, answerer} {
		p, err := prefs.GetPrefs(ctx, author)
		require.NoError(t, err)
		assert.Zero(t, p.Reputation, author)
	}

	err = NewQuestionRepo(g).DeleteQuestion(ctx, q.ID)
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))
}

func TestDeleteAnswerRevokesReputation(t *testing.T) {
	g := setupTestDB(t)
	ctx := context.Background()
	q := seedQuestion(t, g, uuid.NewString())
	answerer := uuid.NewString()
	a := &models.Answer{Content: "yes", AuthorID: answerer, QuestionID: q.ID}
	require.NoError(t, NewAnswerRepo(g).CreateAnswer(ctx, a))

	votes := NewVoteRepo(g)
	require.NoError(t, votes.CreateVote(ctx, &models.Vote{Type: models.TargetAnswer, TypeID: a.ID, VotedByID: "v", VoteStatus: models.Downvoted}))
	_, err := votes.AdjustReputation(ctx, answerer, 7)
	require.NoError(t, err)

	require.NoError(t, NewAnswerRepo(g).DeleteAnswer(ctx, a.ID))

	p, err := NewPrefsRepo(g).GetPrefs(ctx, answerer)
	require.NoError(t, err)
	assert.Equal(t, 8, p.Reputation)
}
