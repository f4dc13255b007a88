//go:build integration

package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartQuote(t *testing.T) {
	_, token := registerPatient(t)

	plan := makeRequest(http.MethodPut, "/profiles/me/plan", map[string]string{"plan_tier": "classic"}, token)
	require.True(t, plan.IsSuccess(), plan.Message)

	list := makeRequest(http.MethodGet, "/medicines", nil, token)
	require.True(t, list.IsSuccess(), list.Message)
	if list.RawData == "[]" {
		t.Skip("medicine catalog is empty")
	}

	quote := makeRequest(http.MethodPost, "/cart/quote", map[string]interface{}{
		"items": []map[string]interface{}{
			{"medicine_id": "00000000-0000-0000-0000-000000000000", "quantity": 1},
		},
	}, token)
	assert.Equal(t, http.StatusBadRequest, quote.Code)

	zero := makeRequest(http.MethodPost, "/cart/quote", map[string]interface{}{"items": []interface{}{}}, token)
	assert.Equal(t, http.StatusBadRequest, zero.Code)
}
