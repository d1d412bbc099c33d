package mailer_test

import (
	"testing"

	apperrors "github.com/formrelay/formrelay-api/pkg/errors"
	"github.com/formrelay/formrelay-api/pkg/logger"
	"github.com/formrelay/formrelay-api/pkg/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

func TestConfig_MissingFields(t *testing.T) {
	tests := []struct {
		name     string
		cfg      mailer.Config
		expected []string
	}{
		{
			name:     "all missing",
			cfg:      mailer.Config{},
			expected: []string{"EMAIL_HOST", "EMAIL_PORT", "EMAIL_USER", "EMAIL_PASS"},
		},
		{
			name:     "password missing",
			cfg:      mailer.Config{Host: "smtp.gmail.com", Port: 587, User: "relay@gmail.com"},
			expected: []string{"EMAIL_PASS"},
		},
		{
			name: "complete",
			cfg:  mailer.Config{Host: "smtp.gmail.com", Port: 587, User: "relay@gmail.com", Pass: "app-password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.MissingFields())
		})
	}
}

func TestProvider_Client_IncompleteConfig(t *testing.T) {
	p := mailer.NewProvider(mailer.Config{Host: "smtp.gmail.com"})

	client, err := p.Client()
	require.Error(t, err)
	assert.Nil(t, client)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	assert.Contains(t, err.Error(), "EMAIL_PORT")
	assert.Contains(t, err.Error(), "EMAIL_USER")
	assert.Contains(t, err.Error(), "EMAIL_PASS")
	assert.NotContains(t, err.Error(), "EMAIL_HOST")
}

func TestProvider_Client_Idempotent(t *testing.T) {
	p := mailer.NewProvider(mailer.Config{
		Host: "smtp.gmail.com",
		Port: 587,
		User: "relay@gmail.com",
		Pass: "app-password",
	})

	first, err := p.Client()
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := p.Client()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestProvider_Sender(t *testing.T) {
	p := mailer.NewProvider(mailer.Config{User: "relay@gmail.com"})
	assert.Equal(t, "relay@gmail.com", p.Sender())
}
