package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"scad/internal/access/handler/mocks"
	"scad/internal/platform/middleware"
	registrymodels "scad/internal/registry/models"
	"scad/pkg/domain"
	dErrors "scad/pkg/domain-errors"
)

var (
	alice = domain.MustParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	bob   = domain.MustParseAddress("0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359")
)

type AccessHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func TestAccessHandlerSuite(t *testing.T) {
	suite.Run(t, new(AccessHandlerSuite))
}

func (s *AccessHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.DiscardHandler)).Register(s.router)
}

func (s *AccessHandlerSuite) get(path string, caller domain.Address) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(middleware.WithCaller(req.Context(), caller))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *AccessHandlerSuite) assertStatusAndError(w *httptest.ResponseRecorder, status int, code string) {
	s.Equal(status, w.Code)
	var body map[string]string
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
	s.Equal(code, body["error"])
}

func (s *AccessHandlerSuite) TestViewOwn() {
	s.Run("registered", func() {
		s.service.EXPECT().ViewOwnRecord(gomock.Any(), alice).Return(&registrymodels.Record{
			Owner: alice, Identifier: "12345678000195", IsCompany: true,
			RegisteredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}, nil)

		w := s.get("/registry/me", alice)

		s.Equal(http.StatusOK, w.Code)
		var res OwnRecordResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&res))
		s.True(res.Registered)
		s.Require().NotNil(res.Record)
		s.Equal("12345678000195", res.Record.Identifier)
		s.Equal("organization", res.Record.Kind)
	})

	s.Run("not registered", func() {
		s.service.EXPECT().ViewOwnRecord(gomock.Any(), bob).Return(nil, nil)

		w := s.get("/registry/me", bob)

		s.Equal(http.StatusOK, w.Code)
		s.JSONEq(`{"registered":false}`, w.Body.String())
	})
}

func (s *AccessHandlerSuite) TestViewOf() {
	s.Run("allowed", func() {
		s.service.EXPECT().ViewRecordOf(gomock.Any(), bob, alice).Return(&registrymodels.Record{
			Owner: alice, Identifier: "12345678901",
		}, nil)

		w := s.get("/registry/"+alice.Checksum(), bob)

		s.Equal(http.StatusOK, w.Code)
		var res RecordResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&res))
		s.Equal(alice, res.Owner)
		s.Equal("person", res.Kind)
	})

	s.Run("denied", func() {
		s.service.EXPECT().ViewRecordOf(gomock.Any(), bob, alice).
			Return(nil, dErrors.New(dErrors.CodeAccessDenied, "no"))
		s.assertStatusAndError(s.get("/registry/"+alice.String(), bob), http.StatusForbidden, "access_denied")
	})

	s.Run("not registered", func() {
		s.service.EXPECT().ViewRecordOf(gomock.Any(), bob, alice).
			Return(nil, dErrors.New(dErrors.CodeNotRegistered, "absent"))
		s.assertStatusAndError(s.get("/registry/"+alice.String(), bob), http.StatusNotFound, "not_registered")
	})

	s.Run("malformed address", func() {
		s.assertStatusAndError(s.get("/registry/0x1234", bob), http.StatusBadRequest, "bad_request")
	})
}
