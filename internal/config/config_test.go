package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_DefaultsAndYAML(t *testing.T) {
	p := writeYAML(t, `
storage:
  driver: memory
jwt:
  secret: "0123456789abcdef0123456789abcdef"
`)
	c, err := Load(p)
	require.NoError(t, err)

	require.Equal(t, ":8000", c.Server.Addr)
	require.Equal(t, 15*time.Minute, c.Auth.Reset.TTL)
	ttl, err := c.SessionTTL()
	require.NoError(t, err)
	require.Equal(t, 60*time.Minute, ttl)
	require.Equal(t, []string{"openid", "email", "profile"}, c.Providers.Google.Scopes)
	require.False(t, c.Auth.UnifyLoginErrors)
}

func TestLoad_EnvOverrides(t *testing.T) {
	p := writeYAML(t, `
storage:
  driver: memory
jwt:
  secret: "from-yaml"
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("AUTH_UNIFY_LOGIN_ERRORS", "true")
	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	c, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, "from-env", c.JWT.Secret)
	require.True(t, c.Auth.UnifyLoginErrors)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, c.Server.CORSAllowedOrigins)
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]string{
		"missing secret": `
storage:
  driver: memory
`,
		"postgres without dsn": `
jwt:
  secret: x
`,
		"single use without revocation": `
storage:
  driver: memory
jwt:
  secret: x
auth:
  reset:
    single_use: true
`,
		"bad ttl": `
storage:
  driver: memory
jwt:
  secret: x
  session_ttl: forever
`,
		"short secret in prod": `
app:
  app_env: prod
storage:
  driver: memory
jwt:
  secret: short
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeYAML(t, body))
			require.Error(t, err)
		})
	}
}

func TestLoad_ProdDisablesDebugLinks(t *testing.T) {
	p := writeYAML(t, `
app:
  app_env: prod
storage:
  driver: memory
jwt:
  secret: "0123456789abcdef0123456789abcdef"
email:
  debug_echo_links: true
`)
	c, err := Load(p)
	require.NoError(t, err)
	require.False(t, c.Email.DebugEchoLinks)
}
