package db

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/lib/pq"
)

// Addr is a database address split into what the driver needs: a
// keyword/value DSN plus the credentials that were embedded in the URL.
type Addr struct {
	DSN      string
	User     string
	Password string

	redacted string
}

var passwordKV = regexp.MustCompile(`password=('(?:[^'\\]|\\.)*'|\S+)`)

// ParseAddr accepts postgres:// or postgresql:// URLs of the form
// [user[:password]@]host:port/db[?params]. Credentials are moved out of the
// URL and re-attached as separate keywords. With a non-empty keyFormat an
// sslkey parameter that names a .key file is pointed at <file>.<keyFormat>.
// Anything that is not a URL is treated as a ready keyword/value DSN.
func ParseAddr(raw, keyFormat string) (Addr, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Addr{}, errors.New("database address is empty")
	}

	if !strings.HasPrefix(raw, "postgres://") && !strings.HasPrefix(raw, "postgresql://") {
		if strings.Contains(raw, "://") {
			return Addr{}, fmt.Errorf("unsupported database address scheme in %q", strings.SplitN(raw, "://", 2)[0]+"://")
		}
		return Addr{DSN: raw, redacted: passwordKV.ReplaceAllString(raw, "password=xxxxx")}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Addr{}, fmt.Errorf("parse database url: %w", err)
	}
	if u.Host == "" {
		return Addr{}, errors.New("database url has no host")
	}

	var a Addr
	if u.User != nil {
		a.User = u.User.Username()
		a.Password, _ = u.User.Password()
		u.User = nil
	}

	if keyFormat != "" {
		q := u.Query()
		if key := q.Get("sslkey"); strings.HasSuffix(key, ".key") {
			q.Set("sslkey", key+"."+strings.TrimPrefix(keyFormat, "."))
			u.RawQuery = q.Encode()
		}
	}

	dsn, err := pq.ParseURL(u.String())
	if err != nil {
		return Addr{}, fmt.Errorf("convert database url: %w", err)
	}
	if a.User != "" {
		dsn += " user=" + quoteValue(a.User)
	}
	if a.Password != "" {
		dsn += " password=" + quoteValue(a.Password)
	}
	a.DSN = strings.TrimSpace(dsn)

	if a.User != "" {
		u.User = url.User(a.User)
	}
	a.redacted = u.String()

	return a, nil
}

// Redacted renders the address without the password, for logs.
func (a Addr) Redacted() string {
	return a.redacted
}

func quoteValue(v string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
}
