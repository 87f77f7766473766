package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujalbistaa/proposal/internal/catalog"
	"github.com/sujalbistaa/proposal/internal/models"
	"github.com/sujalbistaa/proposal/internal/notify"
	"github.com/sujalbistaa/proposal/internal/proposal"
	"github.com/sujalbistaa/proposal/internal/store"
	"github.com/sujalbistaa/proposal/internal/ws"
)

const testBaseURL = "https://pop.example"

var errDown = errors.New("store unavailable")

// flakyStore fails creates or writes on demand. With limitReads set, only
// readsLeft more Gets succeed.
type flakyStore struct {
	*store.MemoryStore
	failCreate bool
	failWrites bool
	limitReads bool
	readsLeft  int
}

func (f *flakyStore) Get(ctx context.Context, id string) (*models.Proposal, error) {
	if f.limitReads {
		if f.readsLeft == 0 {
			return nil, errDown
		}
		f.readsLeft--
	}
	return f.MemoryStore.Get(ctx, id)
}

// goDown fails every write and all but the next n reads.
func (f *flakyStore) goDown(n int) {
	f.failWrites = true
	f.limitReads = true
	f.readsLeft = n
}

func (f *flakyStore) Create(ctx context.Context, p *models.Proposal) error {
	if f.failCreate {
		return errDown
	}
	return f.MemoryStore.Create(ctx, p)
}

func (f *flakyStore) Update(ctx context.Context, id string, fl store.Fields) error {
	if f.failWrites {
		return errDown
	}
	return f.MemoryStore.Update(ctx, id, fl)
}

func (f *flakyStore) AppendGuess(ctx context.Context, id, guess string, correct bool) (*models.Proposal, error) {
	if f.failWrites {
		return nil, errDown
	}
	return f.MemoryStore.AppendGuess(ctx, id, guess, correct)
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (f *fakeNotifier) Dispatch(n notify.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
}

func (f *fakeNotifier) all() []notify.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.Notification(nil), f.sent...)
}

type testApp struct {
	router   *gin.Engine
	store    *flakyStore
	notifier *fakeNotifier
	now      time.Time
}

func (a *testApp) advance(d time.Duration) { a.now = a.now.Add(d) }

func newTestApp(t *testing.T, adminToken string) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := &testApp{
		store:    &flakyStore{MemoryStore: store.NewMemoryStore()},
		notifier: &fakeNotifier{},
		now:      time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC),
	}
	seq := 0
	svc := proposal.New(app.store,
		proposal.WithClock(func() time.Time { return app.now }),
		proposal.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id%06d", seq)
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := ws.NewHub(zerolog.Nop())
	go hub.Run(ctx)

	env := &Env{
		Proposals: svc,
		Catalog:   catalog.Default(),
		Notifier:  app.notifier,
		Hub:       hub,
		BaseURL:   testBaseURL,
		Log:       zerolog.Nop(),
	}
	app.router = gin.New()
	SetupRoutes(ctx, app.router, env, RouteOptions{AdminToken: adminToken})
	return app
}

func (a *testApp) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body) //nolint:errcheck
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (a *testApp) create(t *testing.T, body map[string]any) string {
	t.Helper()
	w := a.do(http.MethodPost, "/api/proposals", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["id"].(string)
}

func valentine() map[string]any {
	return map[string]any{
		"type":          "valentine",
		"proposerName":  "Alex",
		"proposerEmail": "alex@example.com",
		"recipientName": "Sam",
		"message":       "Be mine",
	}
}

func anonymous() map[string]any {
	return map[string]any{
		"type":          "girlfriend",
		"proposerName":  "Jordan Lee",
		"recipientName": "Sam",
		"message":       "Guess who",
		"isAnonymous":   true,
	}
}

func TestCreateProposal(t *testing.T) {
	app := newTestApp(t, "")

	w := app.do(http.MethodPost, "/api/proposals", valentine())
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	assert.Equal(t, "id000001", body["id"])
	assert.Equal(t, testBaseURL+"/p/id000001", body["revealLink"])
	assert.Equal(t, testBaseURL+"/status/id000001", body["statusLink"])

	w = app.do(http.MethodGet, "/api/proposals/id000001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode(t, w)
	assert.Equal(t, "Sam", view["recipientName"])
	assert.Equal(t, "Alex", view["proposerName"])
	assert.Equal(t, "romantic", view["template"])
	assert.Equal(t, "Will you be my Valentine?", view["config"].(map[string]any)["headline"])
}

func TestCreateProposalDefaultsUnknownType(t *testing.T) {
	app := newTestApp(t, "")
	body := valentine()
	body["type"] = "situationship"
	id := app.create(t, body)

	view := decode(t, app.do(http.MethodGet, "/api/proposals/"+id, nil))
	assert.Equal(t, "valentine", view["type"])
}

func TestCreateProposalValidation(t *testing.T) {
	app := newTestApp(t, "")

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing message", func(b map[string]any) { delete(b, "message") }},
		{"blank proposer", func(b map[string]any) { b["proposerName"] = "   " }},
		{"blank message", func(b map[string]any) { b["message"] = " \n " }},
		{"bad email", func(b map[string]any) { b["proposerEmail"] = "not-an-email" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := valentine()
			tt.mutate(body)
			w := app.do(http.MethodPost, "/api/proposals", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decode(t, w)["error"])
		})
	}
}

func TestCreateProposalStoreFailure(t *testing.T) {
	app := newTestApp(t, "")
	app.store.failCreate = true

	w := app.do(http.MethodPost, "/api/proposals", valentine())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Something went wrong. Please try again.", decode(t, w)["error"])
}

func TestCreateProposalRateLimited(t *testing.T) {
	app := newTestApp(t, "")
	for i := 0; i < rateLimitBurst; i++ {
		app.create(t, valentine())
	}
	w := app.do(http.MethodPost, "/api/proposals", valentine())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestGetProposalNotFoundAndExpired(t *testing.T) {
	app := newTestApp(t, "")
	id := app.create(t, valentine())

	w := app.do(http.MethodGet, "/api/proposals/nope0000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	app.advance(5*24*time.Hour + time.Second)
	w = app.do(http.MethodGet, "/api/proposals/"+id, nil)
	assert.Equal(t, http.StatusGone, w.Code)
	w = app.do(http.MethodGet, "/api/proposals/"+id+"/status", nil)
	assert.Equal(t, http.StatusGone, w.Code)
}

func TestStatusShowsTimeRemaining(t *testing.T) {
	app := newTestApp(t, "")
	id := app.create(t, valentine())

	app.advance(2 * time.Hour)
	status := decode(t, app.do(http.MethodGet, "/api/proposals/"+id+"/status", nil))
	assert.Equal(t, "4 days remaining", status["timeRemaining"])
	assert.Equal(t, "Alex", status["proposerName"])
	assert.Nil(t, status["response"])
	assert.Equal(t, testBaseURL+"/p/"+id, status["revealLink"])
}

func TestRespondRecordsAndNotifies(t *testing.T) {
	app := newTestApp(t, "")
	id := app.create(t, valentine())

	w := app.do(http.MethodPost, "/api/proposals/"+id+"/response", gin.H{"response": "yes"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["persisted"])

	status := decode(t, app.do(http.MethodGet, "/api/proposals/"+id+"/status", nil))
	assert.Equal(t, "yes", status["response"])
	assert.NotEmpty(t, status["respondedAt"])

	sent := app.notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "alex@example.com", sent[0].ToEmail)
	assert.Equal(t, "Valentine", sent[0].ProposalType)
	assert.Equal(t, models.ResponseYes, sent[0].Response)
	assert.Equal(t, testBaseURL+"/status/"+id, sent[0].StatusLink)
}

func TestRespondOverwrites(t *testing.T) {
	app := newTestApp(t, "")
	id := app.create(t, valentine())

	app.do(http.MethodPost, "/api/proposals/"+id+"/response", gin.H{"response": "yes"})
	app.do(http.MethodPost, "/api/proposals/"+id+"/response", gin.H{"response": "no"})

	status := decode(t, app.do(http.MethodGet, "/api/proposals/"+id+"/status", nil))
	assert.Equal(t, "no", status["response"])
}

func TestRespondRejectsUnknownAnswer(t *testing.T) {
	app := newTestApp(t, "")
	id := app.create(t, valentine())

	w := app.do(http.MethodPost, "/api/proposals/"+id+"/response", gin.H{"response": "maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, app.notifier.all())
}

func TestRespondDegradesWhenStoreFails(t *testing.T) {
	app := newTestApp(t, "")
	id := app.create(t, valentine())
	app.store.failWrites = true

	w := app.do(http.MethodPost, "/api/proposals/"+id+"/response", gin.H{"response": "yes"})
	require.Equal(t, http.StatusAccepted, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["persisted"])
	assert.Equal(t, "yes", body["response"])
	assert.Empty(t, app.notifier.all())

	status := decode(t, app.do(http.MethodGet, "/api/proposals/"+id+"/status", nil))
	assert.Nil(t, status["response"])
}

func TestAnonymousGuessing(t *testing.T) {
	app := newTestApp(t, "")
	id := app.create(t, anonymous())

	view := decode(t, app.do(http.MethodGet, "/api/proposals/"+id, nil))
	assert.Nil(t, view["proposerName"])
	assert.Equal(t, float64(3), view["guessesLeft"])

	w := app.do(http.MethodPost, "/api/proposals/"+id+"/guesses", gin.H{"guess": "Alex"})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode(t, w)
	assert.Equal(t, false, res["correct"])
	assert.Equal(t, float64(2), res["guessesLeft"])
	assert.Nil(t, res["proposerName"])

	w = app.do(http.MethodPost, "/api/proposals/"+id+"/guesses", gin.H{"guess": "jordan"})
	require.Equal(t, http.StatusOK, w.Code)
	res = decode(t, w)
	assert.Equal(t, true, res["correct"])
	assert.Equal(t, "Jordan Lee", res["proposerName"])

	view = decode(t, app.do(http.MethodGet, "/api/proposals/"+id, nil))
	assert.Equal(t, "Jordan Lee", view["proposerName"])

	status := decode(t, app.do(http.MethodGet, "/api/proposals/"+id+"/status", nil))
	assert.Equal(t, []any{"Alex", "jordan"}, status["guesses"])
	assert.Equal(t, true, status["guessedCorrectly"])
}

func TestGuessLimit(t *testing.T) {
	app := newTestApp(t, "")
	id := app.create(t, anonymous())

	for _, g := range []string{"Alex", "Sam", "Kim"} {
		w := app.do(http.MethodPost, "/api/proposals/"+id+"/guesses", gin.H{"guess": g})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := app.do(http.MethodPost, "/api/proposals/"+id+"/guesses", gin.H{"guess": "Jordan"})
	assert.Equal(t, http.StatusConflict, w.Code)

	status := decode(t, app.do(http.MethodGet, "/api/proposals/"+id+"/status", nil))
	assert.Equal(t, float64(3), status["guessesUsed"])
	assert.Equal(t, false, status["guessedCorrectly"])

	view := decode(t, app.do(http.MethodGet, "/api/proposals/"+id, nil))
	assert.Equal(t, "Jordan Lee", view["proposerName"], "out of guesses reveals the sender")
}

func TestGuessOnNamedProposal(t *testing.T) {
	app := newTestApp(t, "")
	id := app.create(t, valentine())

	w := app.do(http.MethodPost, "/api/proposals/"+id+"/guesses", gin.H{"guess": "Alex"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGuessDegradesWhenStoreFails(t *testing.T) {
	app := newTestApp(t, "")
	id := app.create(t, anonymous())
	app.store.failWrites = true

	w := app.do(http.MethodPost, "/api/proposals/"+id+"/guesses", gin.H{"guess": "Jordan"})
	require.Equal(t, http.StatusAccepted, w.Code)
	res := decode(t, w)
	assert.Equal(t, false, res["persisted"])
	assert.Equal(t, true, res["correct"])
	assert.Equal(t, float64(1), res["guessesUsed"])
}

func TestGuessDegradesDuringOutage(t *testing.T) {
	app := newTestApp(t, "")
	id := app.create(t, anonymous())
	app.store.goDown(1)

	w := app.do(http.MethodPost, "/api/proposals/"+id+"/guesses", gin.H{"guess": "Alex"})
	require.Equal(t, http.StatusAccepted, w.Code)
	res := decode(t, w)
	assert.Equal(t, false, res["persisted"])
	assert.Equal(t, float64(2), res["guessesLeft"])
}

func TestAdminPurge(t *testing.T) {
	app := newTestApp(t, "s3cret")
	app.create(t, valentine())
	app.advance(6 * 24 * time.Hour)
	fresh := app.create(t, valentine())

	w := app.do(http.MethodDelete, "/api/admin/expired", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(http.MethodDelete, "/api/admin/expired", nil, "X-Admin-Token", "wrong")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(http.MethodDelete, "/api/admin/expired", nil, "X-Admin-Token", "s3cret")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["deleted"])

	w = app.do(http.MethodGet, "/api/proposals/"+fresh, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminDisabledWithoutToken(t *testing.T) {
	app := newTestApp(t, "")
	w := app.do(http.MethodDelete, "/api/admin/expired", nil, "X-Admin-Token", "anything")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTypesAndHealth(t *testing.T) {
	app := newTestApp(t, "")

	types := decode(t, app.do(http.MethodGet, "/api/types", nil))
	assert.Len(t, types["types"], len(models.ProposalTypes))
	assert.NotEmpty(t, types["templates"])

	w := app.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
