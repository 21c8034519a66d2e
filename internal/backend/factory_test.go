package backend

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contas/internal/config"
	"contas/internal/core"
	"contas/internal/log"
)

func quietLogger() *log.Logger {
	return log.New(log.Config{Output: &bytes.Buffer{}})
}

func TestCreateSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(quietLogger())

	res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "db", "accounting.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Close() })

	assert.Nil(t, res.Publisher)
	require.NoError(t, res.Pinger.Ping(ctx))
	assert.Equal(t, core.Spending, res.Entries(core.Spending).Domain())
	assert.Equal(t, core.Bill, res.Entries(core.Bill).Domain())
	assert.Nil(t, res.Entries(core.Domain("x")))

	_, err = res.Spending.Insert(ctx, core.Draft{Date: core.NewDate(2024, 1, 1), Category: "Food", Amount: 1})
	require.NoError(t, err)
}

func TestCreateMemoryBackend(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend})
	require.NoError(t, err)
	assert.NoError(t, res.Close())
	assert.NotNil(t, res.Spending)
	assert.NotNil(t, res.Bills)
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	f := NewFactory(quietLogger())

	_, err := f.CreateBackend(context.Background(), Config{Type: "sheets"})
	assert.Error(t, err)

	_, err = f.CreateBackend(context.Background(), Config{Type: SQLiteBackend})
	assert.Error(t, err)
}

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:    "sqlite",
		SQLiteDBPath:   "./data/x.db",
		AMQPURL:        "amqp://localhost/",
		AMQPExchange:   "contas",
		AMQPRoutingKey: "entries",
	})
	require.NoError(t, err)
	assert.Equal(t, SQLiteBackend, cfg.Type)
	assert.Equal(t, "entries", cfg.AMQPRoutingKey)
	assert.NoError(t, cfg.Validate())

	_, err = FromAppConfig(&config.Config{DataBackend: "postgres"})
	assert.Error(t, err)
}

func TestConfigValidateAMQP(t *testing.T) {
	cfg := Config{Type: MemoryBackend, AMQPURL: "amqp://localhost/"}
	assert.Error(t, cfg.Validate())
}

func TestGetBackendTypeStrings(t *testing.T) {
	assert.Equal(t, []string{"sqlite", "memory"}, GetBackendTypeStrings())
}
