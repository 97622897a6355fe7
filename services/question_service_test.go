package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/askx/config"
	errs "github.com/techagentng/askx/errors"
	"github.com/techagentng/askx/models"
	"github.com/techagentng/askx/testutil"
)

func TestQuestionLifecycle(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := NewQuestionService(store, store, &config.Config{})
	ctx := context.Background()

	q, err := svc.AskQuestion(ctx, &models.CreateQuestionRequest{Title: "Why Go?", Content: "curious", AuthorID: "u1"})
	require.NoError(t, err)
	assert.NotEmpty(t, q.ID)

	got, err := svc.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "Why Go?", got.Title)

	a, err := svc.AnswerQuestion(ctx, q.ID, &models.CreateAnswerRequest{Content: "because", AuthorID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, q.ID, a.QuestionID)

	answers, err := svc.ListAnswers(ctx, q.ID, models.Page{})
	require.NoError(t, err)
	require.Len(t, answers, 1)

	require.NoError(t, svc.DeleteQuestion(ctx, q.ID))
	_, err = svc.GetQuestion(ctx, q.ID)
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))
	_, err = store.GetAnswerByID(ctx, a.ID)
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))
}

func TestAnswerUnknownQuestion(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := NewQuestionService(store, store, &config.Config{})

	_, err := svc.AnswerQuestion(context.Background(), "missing", &models.CreateAnswerRequest{Content: "x", AuthorID: "u"})
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))
	assert.Zero(t, store.CallCount("CreateAnswer"))
}

func TestListQuestionsNewestFirst(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := NewQuestionService(store, store, &config.Config{})
	first := store.SeedQuestion("a")
	second := store.SeedQuestion("b")

	list, err := svc.ListQuestions(context.Background(), models.Page{Limit: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	list, err = svc.ListQuestions(context.Background(), models.Page{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)
}

func TestCommentOnTargets(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := NewCommentService(store, store, store, &config.Config{})
	ctx := context.Background()
	q := store.SeedQuestion("a")
	ans := store.SeedAnswer(q.ID, "b")

	c, err := svc.AddComment(ctx, &models.CreateCommentRequest{Content: "nice", AuthorID: "c", Type: "answer", TypeID: ans.ID})
	require.NoError(t, err)
	assert.Equal(t, models.TargetAnswer, c.Type)

	_, err = svc.AddComment(ctx, &models.CreateCommentRequest{Content: "?", AuthorID: "c", Type: "question", TypeID: "missing"})
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))

	_, err = svc.AddComment(ctx, &models.CreateCommentRequest{Content: "?", AuthorID: "c", Type: "post", TypeID: q.ID})
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))

	comments, err := svc.ListComments(ctx, models.TargetAnswer, ans.ID, models.Page{})
	require.NoError(t, err)
	require.Len(t, comments, 1)

	require.NoError(t, svc.DeleteComment(ctx, c.ID))
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(svc.DeleteComment(ctx, c.ID)))
}

func TestPrefsServiceNeverWritesReputation(t *testing.T) {
	store := testutil.NewMemoryStore()
	store.SetReputation("u", 12)
	svc := NewPrefsService(store, &config.Config{})
	ctx := context.Background()

	prefs, err := svc.UpdatePrefs(ctx, "u", &models.UpdatePrefsRequest{DeviceToken: "tok"})
	require.NoError(t, err)
	assert.True(t, prefs.HasDeviceToken)
	assert.Equal(t, 12, prefs.Reputation)
	stored, err := store.GetPrefs(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "tok", stored.DeviceToken)

	rep, err := svc.GetReputation(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, models.ReputationResponse{UserID: "u", Reputation: 12}, *rep)

	rep, err = svc.GetReputation(ctx, "stranger")
	require.NoError(t, err)
	assert.Zero(t, rep.Reputation)
}
