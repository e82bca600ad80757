//go:build integration
// +build integration

package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPI_Conversations_CRUD(t *testing.T) {
	token := createAuthenticatedTestUser(t)

	// Create a conversation with an explicit title
	resp, body := makeAuthenticatedRequest(t, http.MethodPost, "/api/protected/conversations",
		map[string]interface{}{"title": "Venta de zapatos"}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", string(body))

	var createResp struct {
		Conversation struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"conversation"`
	}
	parseJSONResponse(t, body, &createResp)
	require.NotEmpty(t, createResp.Conversation.ID)
	assert.Equal(t, "Venta de zapatos", createResp.Conversation.Title)

	// An empty title falls back to the default
	resp, body = makeAuthenticatedRequest(t, http.MethodPost, "/api/protected/conversations",
		map[string]interface{}{}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", string(body))
	var defaultResp struct {
		Conversation struct {
			Title string `json:"title"`
		} `json:"conversation"`
	}
	parseJSONResponse(t, body, &defaultResp)
	assert.Equal(t, "Nueva conversación", defaultResp.Conversation.Title)

	// Both show up in the listing
	resp, body = makeAuthenticatedRequest(t, http.MethodGet, "/api/protected/conversations", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", string(body))
	var listResp struct {
		Conversations []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"conversations"`
	}
	parseJSONResponse(t, body, &listResp)
	assert.Len(t, listResp.Conversations, 2)

	// Delete one and confirm it is gone
	deletePath := fmt.Sprintf("/api/protected/conversations/%s", createResp.Conversation.ID)
	resp, body = makeAuthenticatedRequest(t, http.MethodDelete, deletePath, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", string(body))

	resp, _ = makeAuthenticatedRequest(t, http.MethodDelete, deletePath, nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_Conversations_Messages(t *testing.T) {
	token := createAuthenticatedTestUser(t)

	resp, body := makeAuthenticatedRequest(t, http.MethodPost, "/api/protected/conversations",
		map[string]interface{}{"title": "Con mensajes"}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", string(body))

	var createResp struct {
		Conversation struct {
			ID string `json:"id"`
		} `json:"conversation"`
	}
	parseJSONResponse(t, body, &createResp)
	messagesPath := fmt.Sprintf("/api/protected/conversations/%s/messages", createResp.Conversation.ID)

	// An unknown role is rejected
	resp, _ = makeAuthenticatedRequest(t, http.MethodPost, messagesPath,
		map[string]interface{}{"role": "system", "content": "hola"}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for _, m := range []map[string]interface{}{
		{"role": "user", "content": "Quiero vender más"},
		{"role": "assistant", "content": "Cuéntame qué vendes"},
	} {
		resp, body = makeAuthenticatedRequest(t, http.MethodPost, messagesPath, m, token)
		require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", string(body))
	}

	resp, body = makeAuthenticatedRequest(t, http.MethodGet, messagesPath, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", string(body))

	var listResp struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	parseJSONResponse(t, body, &listResp)
	require.Len(t, listResp.Messages, 2)
	assert.Equal(t, "user", listResp.Messages[0].Role)
	assert.Equal(t, "assistant", listResp.Messages[1].Role)

	// A different user cannot see the conversation
	otherToken := createAuthenticatedTestUser(t)
	resp, _ = makeAuthenticatedRequest(t, http.MethodGet, messagesPath, nil, otherToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
