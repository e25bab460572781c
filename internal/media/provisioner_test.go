package media

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenProvisioner_Validation(t *testing.T) {
	_, err := NewTokenProvisioner("", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenProvisioner("secret", 0)
	assert.Error(t, err)
}

func TestProvisionAndVerify(t *testing.T) {
	prov, err := NewTokenProvisioner("secret", time.Hour)
	require.NoError(t, err)

	credential, err := prov.Provision(context.Background(), "lobby", "p-1")
	require.NoError(t, err)
	require.NotEmpty(t, credential)

	roomID, participantID, err := prov.Verify(credential)
	require.NoError(t, err)
	assert.Equal(t, "lobby", roomID)
	assert.Equal(t, "p-1", participantID)
}

func TestProvision_EmptyIdentifiers(t *testing.T) {
	prov, err := NewTokenProvisioner("secret", time.Hour)
	require.NoError(t, err)

	_, err = prov.Provision(context.Background(), "", "p-1")
	assert.Error(t, err)

	_, err = prov.Provision(context.Background(), "lobby", "")
	assert.Error(t, err)
}

func TestProvision_CancelledContext(t *testing.T) {
	prov, err := NewTokenProvisioner("secret", time.Hour)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = prov.Provision(ctx, "lobby", "p-1")
	assert.Error(t, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	prov, err := NewTokenProvisioner("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewTokenProvisioner("different", time.Hour)
	require.NoError(t, err)

	credential, err := prov.Provision(context.Background(), "lobby", "p-1")
	require.NoError(t, err)

	_, _, err = other.Verify(credential)
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	prov, err := NewTokenProvisioner("secret", time.Minute)
	require.NoError(t, err)

	issued := time.Now()
	prov.now = func() time.Time { return issued }
	credential, err := prov.Provision(context.Background(), "lobby", "p-1")
	require.NoError(t, err)

	prov.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, _, err = prov.Verify(credential)
	assert.Error(t, err)
}
