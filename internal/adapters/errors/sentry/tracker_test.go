package sentry

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"

	"startrade/internal/adapters/config"
	"startrade/pkg/errors"
)

func TestNew_RequiresDSN(t *testing.T) {
	_, err := New(config.ErrorTrackingConfig{}, "dev")
	assert.ErrorIs(t, err, errors.ErrNotConfigured)
}

func TestConvertLevel(t *testing.T) {
	assert.Equal(t, sentry.LevelWarning, convertLevel(errors.LevelWarning))
	assert.Equal(t, sentry.LevelFatal, convertLevel(errors.LevelFatal))
	assert.Equal(t, sentry.LevelInfo, convertLevel("bogus"))
}
