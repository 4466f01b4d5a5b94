package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scad/internal/events"
	"scad/internal/platform/middleware"
	"scad/pkg/domain"
)

type stubFeed struct{ mock.Mock }

func (s *stubFeed) List(ctx context.Context, viewer domain.Address, after int64, limit int) ([]events.Event, error) {
	args := s.Called(viewer, after, limit)
	list, _ := args.Get(0).([]events.Event)
	return list, args.Error(1)
}

var viewer = domain.MustParseAddress("0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359")

func serve(t *testing.T, feed Service, target string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	New(feed, slog.New(slog.DiscardHandler)).Register(r)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(middleware.WithCaller(req.Context(), viewer))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListEvents(t *testing.T) {
	owner := domain.MustParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	now := time.Now().UTC()
	feed := new(stubFeed)
	feed.On("List", viewer, int64(4), 2).Return([]events.Event{
		{ID: uuid.New(), Sequence: 5, Type: events.TypeRegistered, Owner: owner,
			Registered: &events.Registered{Owner: owner, Identifier: "*******8901", OccurredAt: now}},
		{ID: uuid.New(), Sequence: 6, Type: events.TypeConsentChanged, Owner: owner,
			ConsentChanged: &events.ConsentChanged{Owner: owner, Reader: viewer, Granted: true, OccurredAt: now}},
	}, nil)

	rec := serve(t, feed, "/events?after=4&limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Events, 2)
	assert.Equal(t, int64(6), body.NextAfter)
	assert.Equal(t, "*******8901", body.Events[0].Identifier)
	require.NotNil(t, body.Events[0].IsCompany)
	assert.False(t, *body.Events[0].IsCompany)
	assert.Equal(t, viewer, body.Events[1].Reader)
	require.NotNil(t, body.Events[1].Granted)
	assert.True(t, *body.Events[1].Granted)
	feed.AssertExpectations(t)
}

func TestListEventsEmptyPageKeepsCursor(t *testing.T) {
	feed := new(stubFeed)
	feed.On("List", viewer, int64(9), 0).Return([]events.Event{}, nil)

	rec := serve(t, feed, "/events?after=9")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"events":[],"next_after":9}`, rec.Body.String())
}

func TestListEventsRejectsBadCursor(t *testing.T) {
	for _, q := range []string{"/events?after=-1", "/events?after=x", "/events?limit=-5"} {
		rec := serve(t, new(stubFeed), q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestListEventsStoreFailure(t *testing.T) {
	feed := new(stubFeed)
	feed.On("List", viewer, int64(0), 0).Return(nil, errors.New("db down"))

	rec := serve(t, feed, "/events")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}
