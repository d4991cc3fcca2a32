package patrons_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"libranexus/internal/library"
	"libranexus/internal/patrons"
	"libranexus/internal/patrons/mocks"
)

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	r := chi.NewRouter()
	patrons.NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r, svc
}

func serve(h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, &buf))
	return w
}

func TestHandleAddPatron(t *testing.T) {
	router, svc := newTestRouter(t)
	req := patrons.AddPatronRequest{Email: "a@example.org", PIN: "1234"}
	svc.EXPECT().AddPatron(gomock.Any(), req).Return(&patrons.Party{PartyID: "p1", Email: "a@example.org"}, nil)

	w := serve(router, http.MethodPost, "/patrons", req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "credential")

	var resp patrons.PatronResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "p1", resp.Patron.PartyID)
}

func TestHandleLogin(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.EXPECT().Authenticate(gomock.Any(), "a@example.org", "1234").Return(&patrons.Party{PartyID: "p1"}, nil)
	svc.EXPECT().Authenticate(gomock.Any(), "a@example.org", "0000").Return(nil, library.AccessDenied("invalid email or pin"))
	svc.EXPECT().Authenticate(gomock.Any(), "a@example.org", "1111").Return(nil, library.Unavailable("rate_limited", true, "slow down"))

	w := serve(router, http.MethodPost, "/patrons/login", patrons.LoginRequest{Email: "a@example.org", PIN: "1234"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodPost, "/patrons/login", patrons.LoginRequest{Email: "a@example.org", PIN: "0000"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(router, http.MethodPost, "/patrons/login", patrons.LoginRequest{Email: "a@example.org", PIN: "1111"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestHandleFindPatrons(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.EXPECT().FindPatronByEmail(gomock.Any(), "a@example.org").Return([]*patrons.Party{{PartyID: "p1"}}, nil)

	w := serve(router, http.MethodGet, "/patrons?email=a@example.org", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp patrons.PatronsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Patrons, 1)

	w = serve(router, http.MethodGet, "/patrons", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpdatePatronDropsCredential(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.EXPECT().UpdatePatron(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, p *patrons.Party) (*patrons.Party, error) {
			assert.Nil(t, p.Credential)
			assert.Equal(t, "p1", p.PartyID)
			return p, nil
		})

	body := patrons.Party{Email: "a@example.org", Credential: &patrons.Credential{Hash: "x", Salt: "y"}}
	w := serve(router, http.MethodPut, "/patrons/p1", body)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleGetAndRemovePatron(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.EXPECT().FindPatronByID(gomock.Any(), "p1").Return(&patrons.Party{PartyID: "p1"}, nil)
	svc.EXPECT().RemovePatron(gomock.Any(), "p1").Return(nil)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/patrons/p1", nil).Code)
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/patrons/p1", nil).Code)
}
