package site

import (
	"strings"

	"eolgames/internal"
	"eolgames/internal/util"
)

const DefaultPageSize = 50

// Common acronyms expanded before matching. Shared with the browser
// script through the console page.
var shortcuts = map[string][]string{
	"gta":             {"grand theft auto"},
	"cod":             {"call of duty"},
	"mw":              {"modern warfare"},
	"battlefield":     {"battlefield"},
	"bf":              {"battlefield"},
	"halo":            {"halo"},
	"mario":           {"mario"},
	"zelda":           {"legend of zelda", "zelda"},
	"pokemon":         {"pokemon", "pok\u00e9mon"},
	"ff":              {"final fantasy"},
	"mgs":             {"metal gear solid"},
	"assassins creed": {"assassins creed"},
	"resident evil":   {"resident evil"},
	"re":              {"resident evil"},
	"mk":              {"mortal kombat"},
	"sf":              {"street fighter"},
	"tekken":          {"tekken"},
	"persona":         {"persona"},
	"doom":            {"doom"},
	"witcher":         {"witcher"},
	"fallout":         {"fallout"},
	"skyrim":          {"skyrim"},
	"dark souls":      {"dark souls"},
	"cs":              {"counter-strike"},
	"rockstar":        {"rockstar"},
	"bethesda":        {"bethesda"},
	"nintendo":        {"nintendo"},
	"sony":            {"sony"},
	"microsoft":       {"microsoft"},
	"ea":              {"electronic arts"},
	"activision":      {"activision"},
	"ubisoft":         {"ubisoft"},
	"capcom":          {"capcom"},
	"konami":          {"konami"},
	"square":          {"square"},
	"square enix":     {"square enix"},
	"namco":           {"namco"},
	"bandai":          {"bandai"},
	"sega":            {"sega"},
	"atari":           {"atari"},
	"thq":             {"thq"},
}

// Shortcuts returns a copy of the shortcut table.
func Shortcuts() map[string][]string {
	out := make(map[string][]string, len(shortcuts))
	for k, v := range shortcuts {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func ExpandQuery(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if terms, ok := shortcuts[q]; ok {
		return append([]string(nil), terms...)
	}
	return []string{q}
}

// Filter keeps games whose title, developer or publisher contains any
// expanded query term, ignoring case and accents. An empty query keeps
// everything.
func Filter(games []internal.GameRecord, query string) []internal.GameRecord {
	if strings.TrimSpace(query) == "" {
		return games
	}
	var terms []string
	for _, t := range ExpandQuery(query) {
		if k := util.FoldKey(t); k != "" {
			terms = append(terms, k)
		}
	}

	out := make([]internal.GameRecord, 0)
	for _, g := range games {
		fields := []string{
			util.FoldKey(g[internal.FieldTitle]),
			util.FoldKey(g[internal.FieldDeveloper]),
			util.FoldKey(g[internal.FieldPublisher]),
		}
		if matchesAny(fields, terms) {
			out = append(out, g)
		}
	}
	return out
}

func matchesAny(fields, terms []string) bool {
	for _, t := range terms {
		for _, f := range fields {
			if f != "" && strings.Contains(f, t) {
				return true
			}
		}
	}
	return false
}

type PageInfo struct {
	Page  int
	Pages int
	Start int
	End   int
	Total int
}

// Pages are 1-based and clamped.
func Paginate(games []internal.GameRecord, page, size int) ([]internal.GameRecord, PageInfo) {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(games)
	pages := (total + size - 1) / size
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	if start > end {
		start = end
	}
	return games[start:end], PageInfo{Page: page, Pages: pages, Start: start, End: end, Total: total}
}

func Release(g internal.GameRecord) string {
	for _, f := range []internal.Field{internal.FieldJPRelease, internal.FieldNARelease, internal.FieldPALRelease, internal.FieldFirstReleased} {
		if v := g[f]; v != "" {
			return v
		}
	}
	return ""
}
