package dbauth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcptools/hcp/internal/hcp"
)

const credentials = `[default]
MYSQL_HOST = db.example.com

[reader]
MYSQL_USER = dbreader
MYSQL_PASSWORD = "magic-password-1234"
MYSQL_DATABASE = database1

[writer]
include = secrets.ini
MYSQL_DATABASE = database1

[partial]
MYSQL_USER = nobody
`

const secrets = `[writer]
MYSQL_HOST = primary.example.com
MYSQL_USER = dbwriter
MYSQL_PASSWORD = other-password
`

func readCredentials(t *testing.T) *hcp.Config {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{"db.ini": credentials, "secrets.ini": secrets} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}
	cfg, err := (&hcp.Loader{}).Read(filepath.Join(dir, "db.ini"))
	require.NoError(t, err)
	return cfg
}

func TestFromConfig(t *testing.T) {
	cfg := readCredentials(t)

	tests := []struct {
		section  string
		expected Auth
	}{
		{
			section: "reader",
			expected: Auth{
				Host:     "db.example.com",
				User:     "dbreader",
				Password: "magic-password-1234",
				Database: "database1",
			},
		},
		{
			section: "writer",
			expected: Auth{
				Host:     "primary.example.com",
				User:     "dbwriter",
				Password: "other-password",
				Database: "database1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			auth, err := FromConfig(cfg, tt.section)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, auth)
		})
	}
}

func TestFromConfig_PasswordWithSpecialCharacters(t *testing.T) {
	dir := t.TempDir()
	content := "[special]\n" +
		"MYSQL_HOST = db.example.com\n" +
		"MYSQL_USER = admin\n" +
		"MYSQL_PASSWORD = p;a#s=s\n" +
		"MYSQL_DATABASE = db=1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "special.ini"), []byte(content), 0600))
	cfg, err := (&hcp.Loader{}).Read(filepath.Join(dir, "special.ini"))
	require.NoError(t, err)

	auth, err := FromConfig(cfg, "special")
	require.NoError(t, err)
	assert.Equal(t, Auth{Host: "db.example.com", User: "admin", Password: "p;a#s=s", Database: "db=1"}, auth)
}

func TestFromConfig_Incomplete(t *testing.T) {
	cfg := readCredentials(t)

	_, err := FromConfig(cfg, "partial")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncomplete))

	var incomplete *IncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []string{Password, Database}, incomplete.Missing)
	assert.Equal(t, []string{"mysql_host", "mysql_user"}, incomplete.Found)
	assert.Contains(t, err.Error(), "only options found: mysql_host, mysql_user")
}

func TestFromConfig_MissingSection(t *testing.T) {
	cfg := readCredentials(t)

	_, err := FromConfig(cfg, "archive")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrIncomplete))
}

func TestAuth_String(t *testing.T) {
	auth := Auth{Host: "h", User: "u", Password: "secret", Database: "d"}
	assert.NotContains(t, auth.String(), "secret")
	assert.Equal(t, []string{
		"MYSQL_HOST=h",
		"MYSQL_USER=u",
		"MYSQL_PASSWORD=secret",
		"MYSQL_DATABASE=d",
	}, auth.Env())
}
