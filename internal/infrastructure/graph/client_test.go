package graph

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rdfstore/internal/shared/errors"
	"rdfstore/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestGraphClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &Client{
		httpClient: server.Client(),
		baseURL:    server.URL,
		userDomain: "example.ac.uk",
		logger:     testLogger(),
	}
}

func TestGetProfile_MapsExtensionAttributes(t *testing.T) {
	client := newTestGraphClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/u1@example.ac.uk", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("$select"), "onPremisesExtensionAttributes")

		json.NewEncoder(w).Encode(map[string]any{
			"displayName": "User One",
			"givenName":   "User",
			"surname":     "One",
			"mail":        "u1@example.ac.uk",
			"department":  "Engineering",
			"companyName": "Faculty of Engineering",
			"jobTitle":    "Research Fellow",
			"userType":    "Member",
			"onPremisesExtensionAttributes": map[string]any{
				"extensionAttribute5":  "Live",
				"extensionAttribute6":  "Staff",
				"extensionAttribute14": "Academic",
			},
		})
	}))

	profile, err := client.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.Username)
	assert.Equal(t, "User One", profile.Name)
	assert.Equal(t, "Faculty of Engineering", profile.Faculty)
	assert.Equal(t, "Live", profile.RecordStatus)
	assert.Equal(t, "Staff", profile.EntityType)
	assert.Equal(t, "Academic", profile.JobFamily)
}

func TestGetProfile_UnknownUserIsPermanent(t *testing.T) {
	client := newTestGraphClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetProfile(context.Background(), "ghost")
	assert.True(t, errors.IsIdentityResolutionError(err))
}

func TestGetProfile_ServerErrorIsTransient(t *testing.T) {
	client := newTestGraphClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := client.GetProfile(context.Background(), "u1")
	assert.True(t, errors.IsExternalServiceUnavailable(err))
}

type staticUIDLookup struct {
	uid uint
	err error
}

func (s staticUIDLookup) LookupUID(ctx context.Context, username string) (uint, error) {
	return s.uid, s.err
}

func TestResolver_CombinesGraphAndDirectory(t *testing.T) {
	client := newTestGraphClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"displayName": "User One",
			"mail":        "u1@example.ac.uk",
			"department":  "Engineering",
			"userType":    "Member",
			"onPremisesExtensionAttributes": map[string]any{
				"extensionAttribute5": "Live",
				"extensionAttribute6": "Staff",
			},
		})
	}))

	resolver := NewResolver(client, staticUIDLookup{uid: 40001}, testLogger())

	profile, err := resolver.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, uint(40001), profile.UID)
	assert.Equal(t, "User One", profile.Name)
}

func TestResolver_MissingPosixAccountFails(t *testing.T) {
	client := newTestGraphClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"displayName": "User One"})
	}))

	resolver := NewResolver(client, staticUIDLookup{
		err: errors.NewIdentityResolutionError("u1", "no posix account in the directory"),
	}, testLogger())

	_, err := resolver.Resolve(context.Background(), "u1")
	assert.True(t, errors.IsIdentityResolutionError(err))
}
