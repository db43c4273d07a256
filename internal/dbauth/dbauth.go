// Package dbauth reads MySQL credentials from a section of a resolved
// configuration.
package dbauth

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"git.sr.ht/~spc/go-ini"
	"github.com/go-playground/validator/v10"

	"github.com/hcptools/hcp/internal/hcp"
)

// Option names a credential section must define.
const (
	Host     = "MYSQL_HOST"
	User     = "MYSQL_USER"
	Password = "MYSQL_PASSWORD"
	Database = "MYSQL_DATABASE"
)

var validate = validator.New()

// ErrIncomplete is returned when a section lacks one of the required
// options.
var ErrIncomplete = errors.New("incomplete database credentials")

// Auth holds the credentials of one MySQL database.
type Auth struct {
	Host     string `ini:"mysql_host" validate:"required"`
	User     string `ini:"mysql_user" validate:"required"`
	Password string `ini:"mysql_password" validate:"required"`
	Database string `ini:"mysql_database" validate:"required"`
}

// String describes a without its password.
func (a Auth) String() string {
	return fmt.Sprintf("<Auth: host=%s user=%s database=%s>", a.Host, a.User, a.Database)
}

// Env returns a as shell assignments, in the order Host, User, Password,
// Database.
func (a Auth) Env() []string {
	return []string{
		Host + "=" + a.Host,
		User + "=" + a.User,
		Password + "=" + a.Password,
		Database + "=" + a.Database,
	}
}

// IncompleteError lists the options a section does define when it lacks
// one of the credentials.
type IncompleteError struct {
	Section string
	Missing []string
	Found   []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("section [%s] must have %s, %s, %s and %s options; missing %s; only options found: %s",
		e.Section, Host, User, Password, Database,
		strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

func (e *IncompleteError) Is(target error) bool { return target == ErrIncomplete }

// FromConfig reads the credentials in section of cfg. Values inherited from
// the default section count.
func FromConfig(cfg *hcp.Config, section string) (Auth, error) {
	var auth Auth
	if !cfg.HasSection(section) {
		return auth, fmt.Errorf("no section [%s] in %s", section, cfg.Path())
	}

	// go-ini only reads "key=value" lines without padding around "=".
	var b strings.Builder
	for _, name := range []string{Host, User, Password, Database} {
		if value, ok := cfg.Get(section, name); ok && value != "" {
			fmt.Fprintf(&b, "%s=%s\n", strings.ToLower(name), value)
		}
	}
	if err := ini.Unmarshal([]byte(b.String()), &auth); err != nil {
		return auth, fmt.Errorf("failed to decode section [%s]: %w", section, err)
	}

	if err := validate.Struct(auth); err != nil {
		var invalid validator.ValidationErrors
		if !errors.As(err, &invalid) {
			return auth, fmt.Errorf("failed to validate section [%s]: %w", section, err)
		}
		missing := make([]string, 0, len(invalid))
		for _, fe := range invalid {
			missing = append(missing, "MYSQL_"+strings.ToUpper(fe.Field()))
		}
		found := cfg.Options(section)
		sort.Strings(found)
		return auth, &IncompleteError{Section: section, Missing: missing, Found: found}
	}
	return auth, nil
}
