package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/ginext"

	"mergington/internal/api/api"
	"mergington/internal/dto"
	"mergington/internal/model"
	"mergington/internal/repo"
	"mergington/internal/service"
)

type stubRepo struct {
	activities   []model.Activity
	participants map[int64][]model.Participant

	signupErr     error
	unregisterErr error

	signupActivity     string
	signupEmail        string
	unregisterActivity string
	unregisterEmail    string
	signupCalls        int
	unregisterCalls    int
}

func (s *stubRepo) GetAllActivities(ctx context.Context) ([]model.Activity, error) {
	return s.activities, nil
}

func (s *stubRepo) GetParticipantsByActivityID(ctx context.Context, activityID int64) ([]model.Participant, error) {
	participants, ok := s.participants[activityID]
	if !ok {
		return []model.Participant{}, nil
	}
	return participants, nil
}

func (s *stubRepo) SignupTx(ctx context.Context, activityName, email string) error {
	s.signupCalls++
	s.signupActivity = activityName
	s.signupEmail = email
	return s.signupErr
}

func (s *stubRepo) UnregisterTx(ctx context.Context, activityName, email string) error {
	s.unregisterCalls++
	s.unregisterActivity = activityName
	s.unregisterEmail = email
	return s.unregisterErr
}

func (s *stubRepo) SeedActivitiesTx(ctx context.Context, samples []model.SeedActivity) (bool, error) {
	return false, nil
}

func (s *stubRepo) MigrateUp(migrationsDir string) error   { return nil }
func (s *stubRepo) MigrateDown(migrationsDir string) error { return nil }

type stubPublisher struct {
	messages [][]byte
}

func (p *stubPublisher) Publish(message []byte) error {
	p.messages = append(p.messages, message)
	return nil
}

func newTestRouter(t *testing.T, r *stubRepo, pub service.Publisher) *ginext.Engine {
	t.Helper()
	log := zerolog.Nop()
	svc := service.NewService(r, &log, pub)
	return api.NewRouters(&api.Routers{Service: svc, StaticDir: t.TempDir()})
}

func doRequest(app *ginext.Engine, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func TestGetAllActivities(t *testing.T) {
	r := &stubRepo{
		activities: []model.Activity{
			{ID: 1, Name: "Chess Club", Description: "Learn chess", Schedule: "Fridays", MaxParticipants: 12},
			{ID: 2, Name: "Art Club", Description: "Painting", Schedule: "Thursdays", MaxParticipants: 15},
		},
		participants: map[int64][]model.Participant{
			1: {
				{ID: 1, ActivityID: 1, Email: "michael@mergington.edu"},
				{ID: 2, ActivityID: 1, Email: "daniel@mergington.edu"},
			},
		},
	}
	app := newTestRouter(t, r, nil)

	w := doRequest(app, http.MethodGet, "/activities")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]dto.ActivityDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)

	chess := resp["Chess Club"]
	assert.Equal(t, "Learn chess", chess.Description)
	assert.Equal(t, "Fridays", chess.Schedule)
	assert.Equal(t, 12, chess.MaxParticipants)
	assert.Equal(t, []string{"michael@mergington.edu", "daniel@mergington.edu"}, chess.Participants)

	art := resp["Art Club"]
	assert.Equal(t, 15, art.MaxParticipants)
	assert.Empty(t, art.Participants)
	assert.NotNil(t, art.Participants)
}

func TestSignupSuccess(t *testing.T) {
	r := &stubRepo{}
	pub := &stubPublisher{}
	app := newTestRouter(t, r, pub)

	w := doRequest(app, http.MethodPost, "/activities/Chess%20Club/signup?email=newstudent%40mergington.edu")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Signed up newstudent@mergington.edu for Chess Club", resp.Message)

	assert.Equal(t, 1, r.signupCalls)
	assert.Equal(t, "Chess Club", r.signupActivity)
	assert.Equal(t, "newstudent@mergington.edu", r.signupEmail)

	require.Len(t, pub.messages, 1)
	var msg dto.EnrollmentMessage
	require.NoError(t, json.Unmarshal(pub.messages[0], &msg))
	assert.Equal(t, "Chess Club", msg.Activity)
	assert.Equal(t, "newstudent@mergington.edu", msg.Email)
	assert.Equal(t, dto.ActionSignup, msg.Action)
}

func TestSignupActivityNotFound(t *testing.T) {
	r := &stubRepo{signupErr: repo.ErrActivityNotFound}
	app := newTestRouter(t, r, nil)

	w := doRequest(app, http.MethodPost, "/activities/Knitting/signup?email=a%40mergington.edu")
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.DetailActivityNotFound, resp.Detail)
}

func TestSignupDuplicate(t *testing.T) {
	r := &stubRepo{signupErr: repo.ErrAlreadySignedUp}
	app := newTestRouter(t, r, nil)

	w := doRequest(app, http.MethodPost, "/activities/Chess%20Club/signup?email=michael%40mergington.edu")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.DetailAlreadySignedUp, resp.Detail)
}

func TestSignupActivityFull(t *testing.T) {
	r := &stubRepo{signupErr: repo.ErrActivityFull}
	pub := &stubPublisher{}
	app := newTestRouter(t, r, pub)

	w := doRequest(app, http.MethodPost, "/activities/Math%20Club/signup?email=late%40mergington.edu")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.DetailActivityFull, resp.Detail)
	assert.Empty(t, pub.messages)
}

func TestSignupMissingEmail(t *testing.T) {
	r := &stubRepo{}
	app := newTestRouter(t, r, nil)

	w := doRequest(app, http.MethodPost, "/activities/Chess%20Club/signup")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, r.signupCalls)
}

func TestUnregisterSuccess(t *testing.T) {
	r := &stubRepo{}
	pub := &stubPublisher{}
	app := newTestRouter(t, r, pub)

	w := doRequest(app, http.MethodDelete, "/activities/Chess%20Club/unregister?email=michael%40mergington.edu")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Unregistered michael@mergington.edu from Chess Club", resp.Message)

	assert.Equal(t, 1, r.unregisterCalls)
	assert.Equal(t, "Chess Club", r.unregisterActivity)

	require.Len(t, pub.messages, 1)
	var msg dto.EnrollmentMessage
	require.NoError(t, json.Unmarshal(pub.messages[0], &msg))
	assert.Equal(t, dto.ActionUnregister, msg.Action)
}

func TestUnregisterNotSignedUp(t *testing.T) {
	r := &stubRepo{unregisterErr: repo.ErrNotSignedUp}
	app := newTestRouter(t, r, nil)

	w := doRequest(app, http.MethodDelete, "/activities/Chess%20Club/unregister?email=ghost%40mergington.edu")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.DetailNotSignedUp, resp.Detail)
}

func TestUnregisterActivityNotFound(t *testing.T) {
	r := &stubRepo{unregisterErr: repo.ErrActivityNotFound}
	app := newTestRouter(t, r, nil)

	w := doRequest(app, http.MethodDelete, "/activities/Knitting/unregister?email=a%40mergington.edu")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRootRedirectsToStaticIndex(t *testing.T) {
	app := newTestRouter(t, &stubRepo{}, nil)

	w := doRequest(app, http.MethodGet, "/")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/static/index.html", w.Header().Get("Location"))
}

func TestHealthz(t *testing.T) {
	app := newTestRouter(t, &stubRepo{}, nil)

	w := doRequest(app, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
