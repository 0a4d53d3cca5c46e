// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/coursedesk/internal/api"
)

type readinessBody struct {
	Success bool `json:"success"`
	Data    struct {
		Status string `json:"status"`
		Checks []struct {
			Name  string `json:"name"`
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		} `json:"checks"`
	} `json:"data"`
}

func probe(t *testing.T, handler http.HandlerFunc) (int, readinessBody) {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

	var body readinessBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

func healthy(context.Context) error { return nil }

/*
TestReadiness reports every configured dependency and degrades on the first failure.
*/
func TestReadiness(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("ready", func(t *testing.T) {
		_, readiness := api.NewHealthHandlers(api.HealthDependencies{
			CheckDatabase:    healthy,
			CheckCache:       healthy,
			CheckObjectStore: healthy,
		}, logger)

		status, body := probe(t, readiness)
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, body.Success)
		assert.Equal(t, "ready", body.Data.Status)
		assert.Len(t, body.Data.Checks, 3)
	})

	t.Run("degraded", func(t *testing.T) {
		_, readiness := api.NewHealthHandlers(api.HealthDependencies{
			CheckDatabase:    healthy,
			CheckObjectStore: func(context.Context) error { return errors.New("bucket missing") },
		}, logger)

		status, body := probe(t, readiness)
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.False(t, body.Success)
		assert.Equal(t, "degraded", body.Data.Status)
		require.Len(t, body.Data.Checks, 2)
		assert.Equal(t, "object_store", body.Data.Checks[1].Name)
		assert.Equal(t, "bucket missing", body.Data.Checks[1].Error)
	})
}

func TestLiveness(t *testing.T) {
	liveness, _ := api.NewHealthHandlers(api.HealthDependencies{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"success":true,"data":{"status":"ok"}}`, recorder.Body.String())
}
