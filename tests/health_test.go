//go:build integration
// +build integration

package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPI_Health(t *testing.T) {
	resp, body := makeRequest(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	parseJSONResponse(t, body, &response)
	assert.Equal(t, "ok", response["message"])
}
