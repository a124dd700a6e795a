package storefront

import (
	"errors"
	"testing"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlow_OrderPath(t *testing.T) {
	f := NewFlow()
	assert.Equal(t, StateOrderEntry, f.State())

	require.NoError(t, f.Transition(StateSubmitting))
	require.NoError(t, f.Transition(StateSubmitted))
	assert.Error(t, f.Transition(StateSubmitting), "submitted orders need a new order first")
	require.NoError(t, f.Transition(StateOrderEntry))
}

func TestFlow_ErrorPath(t *testing.T) {
	f := NewFlow()
	require.NoError(t, f.Transition(StateSubmitting))
	require.NoError(t, f.Transition(StateSubmissionError))
	require.NoError(t, f.Transition(StateSubmitting))
}

func TestFlow_AdminGate(t *testing.T) {
	f := NewFlow()

	assert.Error(t, f.Transition(StateAdminView))
	err := f.EnterAdmin(false)
	assert.True(t, errors.Is(err, shared.ErrUnauthorized))
	assert.Equal(t, StateOrderEntry, f.State())

	require.NoError(t, f.EnterAdmin(true))
	assert.Equal(t, StateAdminView, f.State())
	assert.Error(t, f.Transition(StateSubmitting))
	require.NoError(t, f.Transition(StateOrderEntry))
}

func TestResumeAdminFlow(t *testing.T) {
	f := ResumeAdminFlow()
	assert.Equal(t, StateAdminView, f.State())
	assert.Error(t, f.Transition(StateSubmitting))
	require.NoError(t, f.Transition(StateOrderEntry))
	assert.Equal(t, StateOrderEntry, f.State())
}
