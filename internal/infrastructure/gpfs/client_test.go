package gpfs

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rdfstore/internal/shared/config"
	"rdfstore/internal/shared/errors"
	"rdfstore/internal/shared/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(&config.GPFSConfig{
		APIURL:            server.URL,
		Username:          "admin",
		Password:          "secret",
		Filesystem:        "rdf",
		ParentFileset:     "root",
		JobTimeoutSeconds: 5,
		VerifyTLS:         true,
	}, logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil))))
	client.pollInterval = time.Millisecond
	client.pollMax = 5 * time.Millisecond
	return client, server
}

// handleMethod registers a handler for a single HTTP method; Go 1.21's
// ServeMux has no method patterns, so the method check is explicit.
func handleMethod(mux *http.ServeMux, method, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	})
}

func jobBody(jobID int64, status string) map[string]any {
	return map[string]any{
		"jobs": []map[string]any{
			{"jobId": jobID, "status": status},
		},
	}
}

func TestCreateFileset_PollsJobsUntilCompleted(t *testing.T) {
	var polls atomic.Int64

	mux := http.NewServeMux()
	handleMethod(mux, http.MethodPost, "/filesystems/rdf/filesets", func(w http.ResponseWriter, r *http.Request) {
		username, password, _ := r.BasicAuth()
		assert.Equal(t, "admin", username)
		assert.Equal(t, "secret", password)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "rdf-1001", body["filesetName"])
		assert.Equal(t, "root:rdf-1001", body["owner"])
		assert.Equal(t, "root", body["parentFileset"])

		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(jobBody(100, "RUNNING"))
	})
	handleMethod(mux, http.MethodPost, "/filesystems/rdf/quotas", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "setQuota", body["operationType"])
		assert.Equal(t, "rdf-1001", body["objectName"])
		// 500 GB expressed in KiB
		assert.EqualValues(t, 488281250, body["blockHardLimit"])

		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(jobBody(101, "RUNNING"))
	})
	handleMethod(mux, http.MethodGet, "/jobs/100", func(w http.ResponseWriter, r *http.Request) {
		status := "RUNNING"
		if polls.Add(1) >= 3 {
			status = "COMPLETED"
		}
		json.NewEncoder(w).Encode(jobBody(100, status))
	})
	handleMethod(mux, http.MethodGet, "/jobs/101", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jobBody(101, "COMPLETED"))
	})

	client, _ := newTestClient(t, mux)

	err := client.CreateFileset(context.Background(), "rdf-1001", "rdf-1001", 500_000_000_000)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, polls.Load(), int64(3))
}

func TestCreateFileset_JobFailureSurfaces(t *testing.T) {
	mux := http.NewServeMux()
	handleMethod(mux, http.MethodPost, "/filesystems/rdf/filesets", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(jobBody(200, "RUNNING"))
	})
	handleMethod(mux, http.MethodGet, "/jobs/200", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"jobs": []map[string]any{
				{
					"jobId":  200,
					"status": "FAILED",
					"result": map[string]any{"exitCode": 1, "stderr": []string{"fileset exists"}},
				},
			},
		})
	})

	client, _ := newTestClient(t, mux)

	err := client.CreateFileset(context.Background(), "rdf-1001", "rdf-1001", 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fileset exists")
}

func TestCreateFileset_QuotaFailureRemovesFileset(t *testing.T) {
	var deleted atomic.Bool

	mux := http.NewServeMux()
	handleMethod(mux, http.MethodPost, "/filesystems/rdf/filesets", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(jobBody(400, "COMPLETED"))
	})
	handleMethod(mux, http.MethodPost, "/filesystems/rdf/quotas", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(jobBody(401, "RUNNING"))
	})
	handleMethod(mux, http.MethodDelete, "/filesystems/rdf/filesets/rdf-1001", func(w http.ResponseWriter, r *http.Request) {
		deleted.Store(true)
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(jobBody(402, "COMPLETED"))
	})
	handleMethod(mux, http.MethodGet, "/jobs/400", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jobBody(400, "COMPLETED"))
	})
	handleMethod(mux, http.MethodGet, "/jobs/401", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"jobs": []map[string]any{
				{
					"jobId":  401,
					"status": "FAILED",
					"result": map[string]any{"exitCode": 1, "stderr": []string{"quota rejected"}},
				},
			},
		})
	})
	handleMethod(mux, http.MethodGet, "/jobs/402", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jobBody(402, "COMPLETED"))
	})

	client, _ := newTestClient(t, mux)

	err := client.CreateFileset(context.Background(), "rdf-1001", "rdf-1001", 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota rejected")
	assert.True(t, deleted.Load(), "fileset left behind after quota failure")
}

func TestDeleteFileset(t *testing.T) {
	mux := http.NewServeMux()
	handleMethod(mux, http.MethodDelete, "/filesystems/rdf/filesets/rdf-1001", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(jobBody(300, "COMPLETED"))
	})
	handleMethod(mux, http.MethodGet, "/jobs/300", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jobBody(300, "COMPLETED"))
	})

	client, _ := newTestClient(t, mux)
	require.NoError(t, client.DeleteFileset(context.Background(), "rdf-1001"))
}

func TestGetUsage_ConvertsKibibytes(t *testing.T) {
	mux := http.NewServeMux()
	handleMethod(mux, http.MethodGet, "/filesystems/rdf/quotas", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "objectName=rdf-1001", r.URL.Query().Get("filter"))
		json.NewEncoder(w).Encode(map[string]any{
			"quotas": []map[string]any{
				{"blockUsage": 1024, "blockLimit": 2048},
			},
		})
	})

	client, _ := newTestClient(t, mux)

	usage, err := client.GetUsage(context.Background(), "rdf-1001")
	require.NoError(t, err)
	assert.Equal(t, int64(1024*1024), usage.UsedBytes)
	assert.Equal(t, int64(2048*1024), usage.QuotaBytes)
}

func TestServerErrorIsTransient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	client, _ := newTestClient(t, mux)

	_, err := client.GetUsage(context.Background(), "rdf-1001")
	assert.True(t, errors.IsExternalServiceUnavailable(err))
}
