package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/contriview/pkg/models/domain"
	"github.com/de-tools/contriview/pkg/services/registry"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRegistry struct{}

func (failingRegistry) ListAccounts(context.Context) ([]domain.TrackedAccount, error) {
	return nil, errors.New("accounts file unreadable")
}

func (failingRegistry) GetAccount(context.Context, string) (domain.TrackedAccount, error) {
	return domain.TrackedAccount{}, errors.New("accounts file unreadable")
}

func TestLogTrackedAccounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".contriviewcfg")
	require.NoError(t, os.WriteFile(path, []byte("[work]\nusername = octo-corp\n"), 0o600))
	reg, err := registry.NewRegistry(path)
	require.NoError(t, err)

	var logs bytes.Buffer
	ctx := zerolog.New(&logs).WithContext(context.Background())

	logTrackedAccounts(ctx, reg)

	assert.Contains(t, logs.String(), "Tracking `work` as `octo-corp`")
}

func TestLogTrackedAccounts_RegistryFailure(t *testing.T) {
	var logs bytes.Buffer
	ctx := zerolog.New(&logs).WithContext(context.Background())

	logTrackedAccounts(ctx, failingRegistry{})

	assert.Contains(t, logs.String(), `"level":"error"`)
	assert.Contains(t, logs.String(), "accounts file unreadable")
	assert.Contains(t, logs.String(), "failed to list tracked accounts")
}
