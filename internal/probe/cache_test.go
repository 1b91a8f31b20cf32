package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/section3-pro/compliance-backend/config"
	"github.com/section3-pro/compliance-backend/types"
	"github.com/stretchr/testify/assert"
)

func TestCacheProbe_NotConfigured(t *testing.T) {
	result := NewCacheProbe(nil).Check(context.Background(), config.Defaults())

	assert.Equal(t, types.ProbeStatusNotConfigured, result.Status)
}

func TestCacheProbe_Ping(t *testing.T) {
	cfg := config.Defaults()
	cfg.Redis.Address = "localhost:6379"

	t.Run("healthy", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectPing().SetVal("PONG")
		p := NewCacheProbe(client)
		p.Clock = newStepClock(5 * time.Millisecond)

		result := p.Check(context.Background(), cfg)

		assert.Equal(t, types.ProbeStatusHealthy, result.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ping fails", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectPing().SetErr(errors.New("connection refused"))

		result := NewCacheProbe(client).Check(context.Background(), cfg)

		assert.Equal(t, types.ProbeStatusUnhealthy, result.Status)
		assert.Equal(t, "connection refused", result.Error)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
