// Package web holds the server-rendered pages.
package web

import (
	"embed"
	"html/template"
	"net/url"

	"harbor-control/internal/dto"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates parses every page with Funcs available.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templatesFS, "templates/*.html")
}

// Funcs helpers available to the templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"listURL": ListURL,
		"flipDir": FlipDir,
		"add":     func(a, b int) int { return a + b },
	}
}

// ListURL re-encodes p onto path, with key/value pairs overriding it.
// Setting page drops day, otherwise the jump would win over the new page.
func ListURL(path string, p dto.ListParams, pairs ...string) string {
	v := url.Values{}
	set := func(key, val string) {
		if val == "" {
			v.Del(key)
			return
		}
		v.Set(key, val)
	}
	set("q", p.Q)
	set("sort", p.Sort)
	set("dir", p.Dir)
	set("mode", p.Mode)
	set("per", p.Per)
	set("page", p.Page)
	set("day", p.Day)

	for i := 0; i+1 < len(pairs); i += 2 {
		set(pairs[i], pairs[i+1])
		if pairs[i] == "page" {
			v.Del("day")
		}
	}

	if enc := v.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// FlipDir is the dir a column header links to: descending first, ascending
// when the list is already sorted descending by that column.
func FlipDir(sort, dir, key string) string {
	if sort == key && dir == dto.DirDesc {
		return dto.DirAsc
	}
	return dto.DirDesc
}
