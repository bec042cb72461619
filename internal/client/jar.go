package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultCookieFile returns the per-user file holding persistent cookies.
func DefaultCookieFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "passkeep", "cookies.json"), nil
}

type savedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires"`
}

// cookieFile keeps the cookies that carry an expiry across processes, keyed
// by server host. Session cookies stay in memory only, as in a browser.
type cookieFile struct {
	path string
	now  func() time.Time

	mu     sync.Mutex
	byHost map[string][]savedCookie
}

func openCookieFile(path string) (*cookieFile, error) {
	f := &cookieFile{path: path, now: time.Now, byHost: map[string][]savedCookie{}}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cookie file: %w", err)
	}
	if err := json.Unmarshal(b, &f.byHost); err != nil {
		// A damaged file only loses the remembered cookies.
		f.byHost = map[string][]savedCookie{}
	}
	return f, nil
}

// restore loads the unexpired cookies for u into jar.
func (f *cookieFile) restore(jar http.CookieJar, u *url.URL) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	var cookies []*http.Cookie
	for _, c := range f.byHost[u.Host] {
		if c.Expires.After(now) {
			cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/", Expires: c.Expires})
		}
	}
	if len(cookies) > 0 {
		jar.SetCookies(u, cookies)
	}
}

// record applies the Set-Cookie headers of one response and rewrites the
// file when anything persistent changed.
func (f *cookieFile) record(u *url.URL, set []*http.Cookie) error {
	if len(set) == 0 {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	saved := f.byHost[u.Host]
	changed := false
	for _, c := range set {
		var expires time.Time
		switch {
		case c.MaxAge > 0:
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		case c.MaxAge < 0:
			expires = now
		case !c.Expires.IsZero():
			expires = c.Expires
		}

		next := saved[:0:0]
		for _, s := range saved {
			if s.Name != c.Name {
				next = append(next, s)
			} else {
				changed = true
			}
		}
		if expires.After(now) {
			next = append(next, savedCookie{Name: c.Name, Value: c.Value, Expires: expires})
			changed = true
		}
		saved = next
	}
	if !changed {
		return nil
	}
	f.byHost[u.Host] = saved
	return f.save()
}

func (f *cookieFile) save() error {
	b, err := json.Marshal(f.byHost)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating cookie dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("writing cookie file: %w", err)
	}
	return os.Rename(tmp, f.path)
}
