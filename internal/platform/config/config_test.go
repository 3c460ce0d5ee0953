package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 5*time.Second, cfg.PersistenceTimeout)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadConfig_Validation(t *testing.T) {
	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("PGSQL_URL", "")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "sqlite")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("production needs a secret", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("IS_PRODUCTION", "true")
		t.Setenv("JWT_SECRET", "")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("bad timeout falls back", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("PERSISTENCE_TIMEOUT", "soon")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, cfg.PersistenceTimeout)
	})
}
