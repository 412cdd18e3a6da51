package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rorogames/fishing-backend/internal/config"
	"github.com/rorogames/fishing-backend/internal/identity"
	"github.com/rorogames/fishing-backend/internal/repository"
	"github.com/rorogames/fishing-backend/internal/utils"
)

func testConfig() config.Config {
	return config.Config{
		Env:          "test",
		Port:         "0",
		JWTSecret:    "test-secret",
		AccessTTLMin: 60,
		BcryptCost:   4,
	}
}

func newAuthHandler(t *testing.T, provider identity.Provider) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAuthHandler(testConfig(), repository.NewUserRepo(db), provider), mock
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec
}

func userRow(id uint64, pseudo, hash string, balance int64) *sqlmock.Rows {
	var h interface{}
	if hash != "" {
		h = hash
	}
	return sqlmock.NewRows([]string{"id", "pseudo", "email", "password_hash", "external_id", "balance", "created_at"}).
		AddRow(id, pseudo, nil, h, nil, balance, time.Now().UTC())
}

func TestRegisterCreatesAccountAndIssuesToken(t *testing.T) {
	h, mock := newAuthHandler(t, nil)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("roro", "", sqlmock.AnyArg()).
		WillReturnRows(userRow(1, "roro", "hash", 0))

	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
		`{"pseudo":"roro","password":"hunter2"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		User struct {
			ID      uint64 `json:"id"`
			Pseudo  string `json:"pseudo"`
			Balance int64  `json:"balance"`
		} `json:"user"`
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(1), resp.User.ID)
	assert.Equal(t, "roro", resp.User.Pseudo)
	assert.NotEmpty(t, resp.Access.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicatePseudo(t *testing.T) {
	h, mock := newAuthHandler(t, nil)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("x", "", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_pseudo_key"})

	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
		`{"pseudo":"x","password":"pw"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRequiresPseudoAndPassword(t *testing.T) {
	h, _ := newAuthHandler(t, nil)
	rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register", `{"pseudo":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginSucceedsWithCorrectPassword(t *testing.T) {
	h, mock := newAuthHandler(t, nil)

	hash, err := utils.HashPassword("hunter2", 4)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE pseudo").
		WithArgs("roro").
		WillReturnRows(userRow(1, "roro", hash, 100))

	rec := doJSON(t, h.Login, http.MethodPost, "/v1/auth/login",
		`{"pseudo":"roro","password":"hunter2"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"balance":100`)
}

func TestLoginRejectionsAreUniform(t *testing.T) {
	// Unknown pseudo, wrong password and external-only accounts must be
	// indistinguishable in the response.
	hash, err := utils.HashPassword("hunter2", 4)
	require.NoError(t, err)

	cases := []struct {
		name string
		rows *sqlmock.Rows
		errv error
	}{
		{name: "unknown pseudo", errv: sql.ErrNoRows},
		{name: "wrong password", rows: userRow(1, "roro", hash, 0)},
		{name: "external-only account", rows: userRow(1, "roro", "", 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, mock := newAuthHandler(t, nil)
			exp := mock.ExpectQuery("SELECT (.+) FROM users WHERE pseudo").WithArgs("roro")
			if tc.errv != nil {
				exp.WillReturnError(tc.errv)
			} else {
				exp.WillReturnRows(tc.rows)
			}

			rec := doJSON(t, h.Login, http.MethodPost, "/v1/auth/login",
				`{"pseudo":"roro","password":"nope"}`)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())
		})
	}
}

type stubProvider struct {
	profile identity.Profile
	err     error
}

func (s stubProvider) Resolve(_ context.Context, _ string) (identity.Profile, error) {
	return s.profile, s.err
}

func TestExternalLoginFindsExistingAccount(t *testing.T) {
	h, mock := newAuthHandler(t, stubProvider{
		profile: identity.Profile{ExternalID: "ext-123", Pseudo: "roro"},
	})

	mock.ExpectQuery("SELECT (.+) FROM users WHERE external_id").
		WithArgs("ext-123").
		WillReturnRows(userRow(5, "roro", "", 40))

	rec := doJSON(t, h.External, http.MethodPost, "/v1/auth/external",
		`{"provider_token":"tok"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":5`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExternalLoginRejectsBadToken(t *testing.T) {
	h, _ := newAuthHandler(t, stubProvider{err: identity.ErrTokenRejected})

	rec := doJSON(t, h.External, http.MethodPost, "/v1/auth/external",
		`{"provider_token":"bad"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExternalLoginDisabledWithoutProvider(t *testing.T) {
	h, _ := newAuthHandler(t, nil)

	rec := doJSON(t, h.External, http.MethodPost, "/v1/auth/external",
		`{"provider_token":"tok"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
