package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semsim-be/internal/pkg/serverutils"
	"semsim-be/pkg/store"
)

type stubService struct {
	submitID  string
	submitErr error

	groups [][]string
	status store.ProcessingStatus
	found  bool

	lastElements  string
	lastThreshold *float64
}

func (s *stubService) Submit(ctx context.Context, xmlContent string, elements string, threshold *float64) (string, error) {
	s.lastElements = elements
	s.lastThreshold = threshold
	return s.submitID, s.submitErr
}

func (s *stubService) GetStatus(sessionID string) (store.ProcessingStatus, bool) {
	return s.status, s.found
}

func (s *stubService) GetResults(sessionID string) ([][]string, store.ProcessingStatus, bool) {
	return s.groups, s.status, s.found
}

func newTestApp(svc *stubService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewSimilarityController(svc).RegisterRoutes(api)
	return app
}

func submitRequest(query string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/similarity/v1"+query, strings.NewReader("<doc><p>hi</p></doc>"))
	req.Header.Set("Content-Type", "application/xml")
	return req
}

func resultsRequest(sessionID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/similarity/v1/results", nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	}
	return req
}

func TestSubmitAccepted(t *testing.T) {
	svc := &stubService{submitID: "abc-123"}
	app := newTestApp(svc)

	resp, err := app.Test(submitRequest(""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	// Default element selector when none is given.
	assert.Equal(t, "p", svc.lastElements)
	assert.Nil(t, svc.lastThreshold)

	var cookie string
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookieName {
			cookie = c.Value
			assert.True(t, c.HttpOnly)
		}
	}
	assert.Equal(t, "abc-123", cookie)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "abc-123")
}

func TestSubmitPassesElementsAndThreshold(t *testing.T) {
	svc := &stubService{submitID: "abc-123"}
	app := newTestApp(svc)

	resp, err := app.Test(submitRequest("?elements=paragraph%20note&threshold=0.9"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	assert.Equal(t, "paragraph note", svc.lastElements)
	require.NotNil(t, svc.lastThreshold)
	assert.Equal(t, 0.9, *svc.lastThreshold)
}

func TestSubmitRejectsUnparsableThreshold(t *testing.T) {
	app := newTestApp(&stubService{})

	resp, err := app.Test(submitRequest("?threshold=high"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitRejectsOutOfRangeThreshold(t *testing.T) {
	app := newTestApp(&stubService{})

	for _, query := range []string{"?threshold=0", "?threshold=-1", "?threshold=1.5"} {
		resp, err := app.Test(submitRequest(query))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "query %s", query)
	}
}

func TestSubmitServiceErrorIsBadRequest(t *testing.T) {
	svc := &stubService{submitErr: errors.New("invalid elements parameter")}
	app := newTestApp(svc)

	resp, err := app.Test(submitRequest(""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "invalid elements parameter")
}

func TestResultsRequireCookie(t *testing.T) {
	app := newTestApp(&stubService{})

	resp, err := app.Test(resultsRequest(""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestResultsUnknownSession(t *testing.T) {
	app := newTestApp(&stubService{found: false})

	resp, err := app.Test(resultsRequest("gone"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestResultsStillProcessing(t *testing.T) {
	app := newTestApp(&stubService{found: true, status: store.StatusProcessing})

	resp, err := app.Test(resultsRequest("abc-123"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
}

func TestResultsCompleted(t *testing.T) {
	groups := [][]string{{"cats are great", "cats are wonderful"}}
	app := newTestApp(&stubService{found: true, status: store.StatusCompleted, groups: groups})

	resp, err := app.Test(resultsRequest("abc-123"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got [][]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, groups, got)
}

func TestResultsCompletedWithoutGroups(t *testing.T) {
	app := newTestApp(&stubService{found: true, status: store.StatusCompleted})

	resp, err := app.Test(resultsRequest("abc-123"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "no similarity groups")
}

func TestResultsProcessingError(t *testing.T) {
	app := newTestApp(&stubService{found: true, status: store.StatusError})

	resp, err := app.Test(resultsRequest("abc-123"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestResultsNoFragments(t *testing.T) {
	app := newTestApp(&stubService{found: true, status: store.StatusNoFragmentsExtracted})

	resp, err := app.Test(resultsRequest("abc-123"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "elements")
}
