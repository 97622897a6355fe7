package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/askx/models"
)

func TestQuestionAndAnswerRoutes(t *testing.T) {
	_, store, h := newTestServer(t, nil)

	w, env := doJSON(t, h, http.MethodPost, "/api/questions", gin.H{
		"title": "  How do votes work? ", "content": "Explain reputation.", "authorId": "asker",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var q models.Question
	require.NoError(t, json.Unmarshal(env.Data, &q))
	assert.Equal(t, "How do votes work?", q.Title)

	w, env = doJSON(t, h, http.MethodPost, "/api/questions/"+q.ID+"/answers", gin.H{
		"content": "Up adds one.", "authorId": "answerer",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var a models.Answer
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.Equal(t, q.ID, a.QuestionID)

	w, _, _ = castVote(t, h, "voter", "upvoted", "answer", a.ID)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, store.Reputation("answerer"))

	w, env = doJSON(t, h, http.MethodGet, "/api/questions/"+q.ID+"/answers?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var answers []models.Answer
	require.NoError(t, json.Unmarshal(env.Data, &answers))
	assert.Len(t, answers, 1)

	w, env = doJSON(t, h, http.MethodGet, "/api/questions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var questions []models.Question
	require.NoError(t, json.Unmarshal(env.Data, &questions))
	assert.Len(t, questions, 1)

	w, _ = doJSON(t, h, http.MethodDelete, "/api/questions/"+q.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.Votes())

	w, env = doJSON(t, h, http.MethodGet, "/api/questions/"+q.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "question not found", env.Message)
}

func TestAskQuestionValidation(t *testing.T) {
	_, _, h := newTestServer(t, nil)

	w, env := doJSON(t, h, http.MethodPost, "/api/questions", gin.H{"title": "Hi", "authorId": "a"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "content is a required field")
	assert.Contains(t, env.Errors, "title must be at least 5 characters in length")
}

func TestAnswerMissingQuestion(t *testing.T) {
	_, _, h := newTestServer(t, nil)
	w, _ := doJSON(t, h, http.MethodPost, "/api/questions/nope/answers", gin.H{"content": "x", "authorId": "a"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentRoutes(t *testing.T) {
	_, store, h := newTestServer(t, nil)
	q := store.SeedQuestion("asker")

	w, env := doJSON(t, h, http.MethodPost, "/api/comments", gin.H{
		"content": "Good question", "authorId": "c1", "type": "question", "typeId": q.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var c models.Comment
	require.NoError(t, json.Unmarshal(env.Data, &c))

	w, env = doJSON(t, h, http.MethodGet, "/api/comments?type=question&typeId="+q.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var comments []models.Comment
	require.NoError(t, json.Unmarshal(env.Data, &comments))
	require.Len(t, comments, 1)
	assert.Equal(t, "Good question", comments[0].Content)

	w, _ = doJSON(t, h, http.MethodGet, "/api/comments?typeId="+q.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, h, http.MethodDelete, "/api/comments/"+c.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, h, http.MethodDelete, "/api/comments/"+c.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserRoutes(t *testing.T) {
	_, store, h := newTestServer(t, nil)
	store.SetReputation("u1", 42)

	w, env := doJSON(t, h, http.MethodGet, "/api/users/u1/reputation", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rep models.ReputationResponse
	require.NoError(t, json.Unmarshal(env.Data, &rep))
	assert.Equal(t, models.ReputationResponse{UserID: "u1", Reputation: 42}, rep)

	w, env = doJSON(t, h, http.MethodPut, "/api/users/u1/prefs", gin.H{"deviceToken": "secret-fcm-token", "reputation": 1000})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret-fcm-token")
	var prefs models.PrefsResponse
	require.NoError(t, json.Unmarshal(env.Data, &prefs))
	assert.True(t, prefs.HasDeviceToken)
	assert.Equal(t, 42, prefs.Reputation)

	w, env = doJSON(t, h, http.MethodGet, "/api/users/u1/prefs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret-fcm-token")
	assert.NotContains(t, w.Body.String(), "deviceToken")
	require.NoError(t, json.Unmarshal(env.Data, &prefs))
	assert.Equal(t, 42, prefs.Reputation)
	assert.True(t, prefs.HasDeviceToken)
	assert.Equal(t, "secret-fcm-token", store.DeviceToken("u1"))
}

func TestHealthz(t *testing.T) {
	_, _, h := newTestServer(t, nil)
	w, _ := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteQuestionRevokesReputation(t *testing.T) {
	_, store, h := newTestServer(t, nil)
	q := store.SeedQuestion("asker")
	a := store.SeedAnswer(q.ID, "answerer")
	store.SetReputation("asker", 10)
	store.SetReputation("answerer", 3)

	castVote(t, h, "v1", "upvoted", "question", q.ID)
	castVote(t, h, "v2", "upvoted", "question", q.ID)
	castVote(t, h, "v1", "downvoted", "answer", a.ID)
	require.Equal(t, 12, store.Reputation("asker"))
	require.Equal(t, 2, store.Reputation("answerer"))

	w, _ := doJSON(t, h, http.MethodDelete, "/api/questions/"+q.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, store.Votes())
	assert.Equal(t, 10, store.Reputation("asker"))
	assert.Equal(t, 3, store.Reputation("answerer"))
}

func TestDeleteAnswerRevokesReputation(t *testing.T) {
	_, store, h := newTestServer(t, nil)
	q := store.SeedQuestion("asker")
	a := store.SeedAnswer(q.ID, "answerer")

	castVote(t, h, "v1", "upvoted", "answer", a.ID)
	castVote(t, h, "v2", "upvoted", "answer", a.ID)
	castVote(t, h, "v3", "downvoted", "answer", a.ID)
	castVote(t, h, "v1", "upvoted", "question", q.ID)
	require.Equal(t, 1, store.Reputation("answerer"))

	w, _ := doJSON(t, h, http.MethodDelete, "/api/answers/"+a.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Zero(t, store.Reputation("answerer"))
	assert.Equal(t, 1, store.Reputation("asker"))
	require.Len(t, store.Votes(), 1)
	assert.Equal(t, models.TargetQuestion, store.Votes()[0].Type)
}
