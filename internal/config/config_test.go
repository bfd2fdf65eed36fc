package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("BITROOM_COOKIE", "JSESSIONID=abc")
	t.Setenv("BITROOM_TEL", " 13806491023 ")
	t.Setenv("BITROOM_APPLICANT", "Boltzmann")
	t.Setenv("BITROOM_BASE_URL", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "http://stu.bit.edu.cn", cfg.BaseURL)
	assert.Equal(t, "JSESSIONID=abc", cfg.Cookie)
	assert.Equal(t, "13806491023", cfg.Tel)
	require.NoError(t, cfg.RequireContact())
}

func TestFromEnvRequiresCookie(t *testing.T) {
	t.Setenv("BITROOM_COOKIE", "")
	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BITROOM_COOKIE")
}

func TestRequireContact(t *testing.T) {
	err := Config{Applicant: "Boltzmann"}.RequireContact()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BITROOM_TEL")

	err = Config{Tel: "13806491023"}.RequireContact()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BITROOM_APPLICANT")
}
