// Package site renders the static game browser from combined console
// records: an index of consoles and a console page that filters and
// paginates in the browser.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"

	"eolgames/internal"
	"eolgames/internal/console"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

//go:embed assets/style.css assets/script.js
var assetsFS embed.FS

var pages = template.Must(template.New("site").ParseFS(templatesFS, "templates/*.tmpl"))

const DefaultTitle = "EOL Console Games"

type Options struct {
	Title    string
	PageSize int
}

type Summary struct {
	Consoles int
	Games    int
	Files    []string
}

type consolePayload struct {
	Games []internal.GameRecord `json:"games"`
	Count int                   `json:"count"`
}

type consoleCard struct {
	Slug  string
	Name  string
	Count string
	n     int
}

type pageView struct {
	Title        string
	PageSize     int
	ConsoleCount int
	TotalGames   string
	Consoles     []consoleCard
	Games        map[string]consolePayload
	Shortcuts    map[string][]string
}

// Build writes index.html, console.html, style.css and script.js into
// outDir. Existing files with those names are replaced.
func Build(outDir string, data map[string][]internal.GameRecord, opts Options) (Summary, error) {
	if len(data) == 0 {
		return Summary{}, fmt.Errorf("no console data to render")
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	view := pageView{
		Title:     opts.Title,
		PageSize:  opts.PageSize,
		Games:     map[string]consolePayload{},
		Shortcuts: Shortcuts(),
	}
	total := 0
	for slug, games := range data {
		if games == nil {
			games = []internal.GameRecord{}
		}
		view.Games[slug] = consolePayload{Games: games, Count: len(games)}
		view.Consoles = append(view.Consoles, consoleCard{
			Slug:  slug,
			Name:  console.DisplayName(slug),
			Count: humanize.Comma(int64(len(games))),
			n:     len(games),
		})
		total += len(games)
	}
	sort.Slice(view.Consoles, func(i, j int) bool {
		if view.Consoles[i].n != view.Consoles[j].n {
			return view.Consoles[i].n > view.Consoles[j].n
		}
		return view.Consoles[i].Slug < view.Consoles[j].Slug
	})
	view.ConsoleCount = len(view.Consoles)
	view.TotalGames = humanize.Comma(int64(total))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Summary{}, err
	}

	summary := Summary{Consoles: view.ConsoleCount, Games: total}
	for _, name := range []string{"index.html", "console.html"} {
		var buf bytes.Buffer
		if err := pages.ExecuteTemplate(&buf, name+".tmpl", view); err != nil {
			return summary, fmt.Errorf("render %s: %w", name, err)
		}
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return summary, err
		}
		summary.Files = append(summary.Files, path)
	}

	for _, name := range []string{"style.css", "script.js"} {
		blob, err := assetsFS.ReadFile("assets/" + name)
		if err != nil {
			return summary, err
		}
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, blob, 0o644); err != nil {
			return summary, err
		}
		summary.Files = append(summary.Files, path)
	}
	return summary, nil
}
