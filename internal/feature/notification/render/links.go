package render

import (
	"log/slog"
	"net/url"
	"strings"
)

// Links builds URLs into the client application.
type Links struct {
	base string
}

// NewLinks returns a link builder for the client app base URL.
func NewLinks(base string) Links {
	return Links{base: strings.TrimSpace(base)}
}

// BuildURL returns base+path with a token query parameter.
func (l Links) BuildURL(path, token string) string {
	u, ok := l.parse()
	if !ok {
		return strings.TrimSuffix(l.base, "/") + path + "?token=" + url.QueryEscape(token)
	}
	u.Path = path
	q := url.Values{}
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// ClientURL returns base+path.
func (l Links) ClientURL(path string) string {
	u, ok := l.parse()
	if !ok {
		return strings.TrimSuffix(l.base, "/") + path
	}
	u.Path = path
	u.RawQuery = ""
	return u.String()
}

// parse は絶対URLでなければ警告を出してfalseを返します。メール生成は失敗させません。
func (l Links) parse() (*url.URL, bool) {
	u, err := url.Parse(l.base)
	if err != nil || !u.IsAbs() || u.Host == "" {
		slog.Warn("unable to build URL from client app URL", "clientAppUrl", l.base, "error", err)
		return nil, false
	}
	return u, true
}
