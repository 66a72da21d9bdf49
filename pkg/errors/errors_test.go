package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	err := FromError(fmt.Errorf("boom"))
	require.NotNil(t, err)
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}

func TestCloneKeepsIdentity(t *testing.T) {
	cloned := Clone(ErrValidation, "carnet is required")
	assert.Equal(t, "carnet is required", cloned.Message)
	assert.ErrorIs(t, cloned, ErrValidation)
	assert.NotErrorIs(t, cloned, ErrNotFound)
}

func TestRejectionStatusMapping(t *testing.T) {
	notFound := Rejection(http.StatusNotFound, "Product not found")
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, "Product not found", notFound.Message)
	assert.True(t, IsCollaboratorFailure(notFound))

	serverErr := Rejection(http.StatusInternalServerError, "")
	assert.Equal(t, http.StatusBadGateway, serverErr.Status)
	assert.Contains(t, serverErr.Message, "500")
}

func TestIsCollaboratorFailure(t *testing.T) {
	wrapped := fmt.Errorf("toggle: %w", Wrap(fmt.Errorf("dial tcp"), ErrNetworkFailure.Code, ErrNetworkFailure.Status, "request failed"))
	assert.True(t, IsCollaboratorFailure(wrapped))
	assert.False(t, IsCollaboratorFailure(ErrValidation))
}
