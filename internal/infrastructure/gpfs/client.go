// Package gpfs implements the filesystem client against the IBM Spectrum
// Scale management REST API.
package gpfs

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"rdfstore/internal/application/storage/usecases"
	"rdfstore/internal/shared/config"
	"rdfstore/internal/shared/errors"
	"rdfstore/internal/shared/logger"
)

const kibibyte = int64(1024)

// Client talks to the GPFS management API. Mutations are asynchronous on the
// GPFS side: the API answers with a job ID and the client polls the job until
// it completes, fails or the configured timeout passes. Callers therefore see
// the usual synchronous error contract.
type Client struct {
	baseURL       string
	username      string
	password      string
	filesystem    string
	parentFileset string
	jobTimeout    time.Duration
	httpClient    *http.Client
	logger        logger.Interface

	// pollInterval is the starting poll delay; it doubles up to pollMax.
	pollInterval time.Duration
	pollMax      time.Duration
}

func NewClient(cfg *config.GPFSConfig, logger logger.Interface) *Client {
	jobTimeout := time.Duration(cfg.JobTimeoutSeconds) * time.Second
	if jobTimeout <= 0 {
		jobTimeout = 5 * time.Minute
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !cfg.VerifyTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		baseURL:       cfg.APIURL,
		username:      cfg.Username,
		password:      cfg.Password,
		filesystem:    cfg.Filesystem,
		parentFileset: cfg.ParentFileset,
		jobTimeout:    jobTimeout,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		logger:       logger,
		pollInterval: 2 * time.Second,
		pollMax:      30 * time.Second,
	}
}

type jobResponse struct {
	Jobs []struct {
		JobID  int64  `json:"jobId"`
		Status string `json:"status"`
		Result struct {
			ErrorCode int      `json:"exitCode"`
			Stderr    []string `json:"stderr"`
		} `json:"result"`
	} `json:"jobs"`
}

type quotaResponse struct {
	Quotas []struct {
		BlockUsage int64 `json:"blockUsage"`
		BlockLimit int64 `json:"blockLimit"`
	} `json:"quotas"`
}

// CreateFileset creates an independent fileset owned by the given group and
// applies the block quota to it.
func (c *Client) CreateFileset(ctx context.Context, ownerGroup, name string, quotaBytes int64) error {
	body := map[string]any{
		"filesetName": name,
		"owner":       "root:" + ownerGroup,
		"permissions": "2770",
		"inodeSpace":  "new",
	}
	if c.parentFileset != "" {
		body["parentFileset"] = c.parentFileset
	}

	path := fmt.Sprintf("/filesystems/%s/filesets", url.PathEscape(c.filesystem))
	if err := c.mutate(ctx, http.MethodPost, path, body); err != nil {
		return fmt.Errorf("failed to create fileset %s: %w", name, err)
	}

	if err := c.setQuota(ctx, name, quotaBytes); err != nil {
		// The fileset exists at this point. Remove it again so callers can
		// treat CreateFileset as all-or-nothing.
		if delErr := c.DeleteFileset(ctx, name); delErr != nil {
			c.logger.Errorw("failed to remove fileset after quota failure, manual cleanup required",
				"fileset", name, "error", delErr)
		}
		return fmt.Errorf("failed to set quota on fileset %s: %w", name, err)
	}

	c.logger.Infow("fileset created", "fileset", name, "owner_group", ownerGroup, "quota_bytes", quotaBytes)
	return nil
}

// DeleteFileset unlinks and removes the fileset.
func (c *Client) DeleteFileset(ctx context.Context, name string) error {
	path := fmt.Sprintf("/filesystems/%s/filesets/%s",
		url.PathEscape(c.filesystem), url.PathEscape(name))
	if err := c.mutate(ctx, http.MethodDelete, path, nil); err != nil {
		return fmt.Errorf("failed to delete fileset %s: %w", name, err)
	}

	c.logger.Infow("fileset deleted", "fileset", name)
	return nil
}

// GetUsage reads the fileset's current block usage and limit. GPFS reports
// both in kibibytes.
func (c *Client) GetUsage(ctx context.Context, name string) (usecases.FilesetUsage, error) {
	path := fmt.Sprintf("/filesystems/%s/quotas?filter=objectName=%s",
		url.PathEscape(c.filesystem), url.QueryEscape(name))

	var quotas quotaResponse
	if err := c.get(ctx, path, &quotas); err != nil {
		return usecases.FilesetUsage{}, fmt.Errorf("failed to read quota for fileset %s: %w", name, err)
	}
	if len(quotas.Quotas) == 0 {
		return usecases.FilesetUsage{}, fmt.Errorf("no quota entry for fileset %s", name)
	}

	return usecases.FilesetUsage{
		UsedBytes:  quotas.Quotas[0].BlockUsage * kibibyte,
		QuotaBytes: quotas.Quotas[0].BlockLimit * kibibyte,
	}, nil
}

func (c *Client) setQuota(ctx context.Context, fileset string, quotaBytes int64) error {
	limitKiB := (quotaBytes + kibibyte - 1) / kibibyte
	body := map[string]any{
		"operationType":  "setQuota",
		"quotaType":      "FILESET",
		"objectName":     fileset,
		"blockSoftLimit": limitKiB,
		"blockHardLimit": limitKiB,
	}
	path := fmt.Sprintf("/filesystems/%s/quotas", url.PathEscape(c.filesystem))
	return c.mutate(ctx, http.MethodPost, path, body)
}

// mutate fires the request and waits for the resulting GPFS job.
func (c *Client) mutate(ctx context.Context, method, path string, body any) error {
	var job jobResponse
	if err := c.do(ctx, method, path, body, &job); err != nil {
		return err
	}
	if len(job.Jobs) == 0 {
		return fmt.Errorf("gpfs api accepted the request without a job id")
	}
	return c.waitForJob(ctx, job.Jobs[0].JobID)
}

// waitForJob polls the job until it leaves the RUNNING state. The poll delay
// doubles each round so slow filesystem operations do not hammer the API.
func (c *Client) waitForJob(ctx context.Context, jobID int64) error {
	deadline := time.Now().Add(c.jobTimeout)
	delay := c.pollInterval

	for {
		var job jobResponse
		if err := c.get(ctx, fmt.Sprintf("/jobs/%d", jobID), &job); err != nil {
			return err
		}
		if len(job.Jobs) == 0 {
			return fmt.Errorf("gpfs job %d disappeared", jobID)
		}

		switch job.Jobs[0].Status {
		case "COMPLETED":
			return nil
		case "FAILED":
			return fmt.Errorf("gpfs job %d failed: %v", jobID, job.Jobs[0].Result.Stderr)
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("gpfs job %d did not finish within %s", jobID, c.jobTimeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		if delay *= 2; delay > c.pollMax {
			delay = c.pollMax
		}
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewExternalServiceUnavailable("gpfs", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return errors.NewExternalServiceUnavailable("gpfs",
			fmt.Errorf("%s %s returned %d", method, path, resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
