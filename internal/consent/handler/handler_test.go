package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"scad/internal/consent/handler/mocks"
	"scad/internal/platform/middleware"
	"scad/pkg/domain"
	dErrors "scad/pkg/domain-errors"
)

var (
	alice = domain.MustParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	bob   = domain.MustParseAddress("0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359")
)

type ConsentHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func TestConsentHandlerSuite(t *testing.T) {
	suite.Run(t, new(ConsentHandlerSuite))
}

func (s *ConsentHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.DiscardHandler)).Register(s.router)
}

func (s *ConsentHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ConsentHandlerSuite) do(method, path string, caller domain.Address, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if !caller.IsZero() {
		req = req.WithContext(middleware.WithCaller(req.Context(), caller))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ConsentHandlerSuite) assertStatusAndError(w *httptest.ResponseRecorder, status int, code string) {
	s.Equal(status, w.Code)
	var body map[string]string
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
	s.Equal(code, body["error"])
}

func (s *ConsentHandlerSuite) TestSetConsent() {
	s.service.EXPECT().SetConsent(gomock.Any(), alice, bob, false).Return(nil)

	w := s.do(http.MethodPut, "/consents/"+bob.Checksum(), alice, `{"granted":false}`)

	s.Equal(http.StatusOK, w.Code)
	var res SetConsentResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&res))
	s.Equal(bob, res.Reader)
	s.False(res.Granted)
}

func (s *ConsentHandlerSuite) TestSetConsent_ErrorMapping() {
	s.Run("granted is required", func() {
		w := s.do(http.MethodPut, "/consents/"+bob.String(), alice, `{}`)
		s.assertStatusAndError(w, http.StatusBadRequest, "validation_error")
	})
	s.Run("bad reader address", func() {
		w := s.do(http.MethodPut, "/consents/bob", alice, `{"granted":true}`)
		s.assertStatusAndError(w, http.StatusBadRequest, "bad_request")
	})
	s.Run("self consent", func() {
		s.service.EXPECT().SetConsent(gomock.Any(), alice, alice, true).
			Return(dErrors.New(dErrors.CodeSelfConsent, "self"))
		w := s.do(http.MethodPut, "/consents/"+alice.String(), alice, `{"granted":true}`)
		s.assertStatusAndError(w, http.StatusBadRequest, "self_consent")
	})
	s.Run("missing caller", func() {
		w := s.do(http.MethodPut, "/consents/"+bob.String(), "", `{"granted":true}`)
		s.assertStatusAndError(w, http.StatusInternalServerError, "internal_error")
	})
}

func (s *ConsentHandlerSuite) TestHasConsent() {
	s.service.EXPECT().HasConsent(gomock.Any(), alice, bob).Return(true, nil)

	w := s.do(http.MethodGet, "/consents/"+alice.String()+"/"+bob.String(), bob, "")

	s.Equal(http.StatusOK, w.Code)
	var res HasConsentResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&res))
	s.True(res.Granted)
}

func (s *ConsentHandlerSuite) TestHasConsent_Failure() {
	s.service.EXPECT().HasConsent(gomock.Any(), alice, bob).Return(false, errors.New("io"))

	w := s.do(http.MethodGet, "/consents/"+alice.String()+"/"+bob.String(), bob, "")
	s.assertStatusAndError(w, http.StatusInternalServerError, "internal_error")
}

func (s *ConsentHandlerSuite) TestListReaders() {
	s.service.EXPECT().ListReaders(gomock.Any(), alice).Return([]domain.Address{bob}, nil)

	w := s.do(http.MethodGet, "/consents", alice, "")

	s.Equal(http.StatusOK, w.Code)
	var res ListReadersResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&res))
	s.Equal(alice, res.Owner)
	s.Equal([]domain.Address{bob}, res.Readers)
}
