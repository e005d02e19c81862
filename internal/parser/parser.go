// Package parser turns free-text task input into structured task fields.
//
// Markers: "#tag", "@project", "+theme". A marker only counts at the start
// of the input or after whitespace, and the whole word after it must be a
// valid token, or the word stays literal ("a@b.com", "C++", "#foo.bar").
// Tag tokens are ASCII letters, digits, "_" and "-", like stored tags.
// Project and theme tokens also accept non-ASCII letters and digits.
//
// Extraction runs in fixed passes over a working copy of the text; each pass
// removes what it consumed before the next pass looks:
//
//	priority -> points -> tags -> project -> themes -> due date -> title
//
// Only the first date expression is considered. An ISO date (2024-12-25)
// keeps its year; a numeric date glued to a preceding number is not a date.
//
// Parsing never fails. Fragments that do not resolve (an unknown project,
// an impossible date) leave the corresponding field empty.
package parser

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"taskhub/internal/model"
)

const (
	TagMarker     = '#'
	ProjectMarker = '@'
	ThemeMarker   = '+'
)

var (
	priorityPattern = regexp.MustCompile(`(?i)\bp[01]\b`)
	pointsPattern   = regexp.MustCompile(`(?i)\b(?:pts?|points?):\s*(\d+)\b`)
	tagPattern      = markerPattern(TagMarker)
	projectPattern  = markerPattern(ProjectMarker)
	themePattern    = markerPattern(ThemeMarker)
	tomorrowPattern = regexp.MustCompile(`(?i)\btomorrow\b`)
	todayPattern    = regexp.MustCompile(`(?i)\btoday\b`)
	datePattern     = regexp.MustCompile(`(?i)\b(\d{4})-(\d{1,2})-(\d{1,2})\b|\b(\d{1,2})[/-](\d{1,2})(?:[/-](\d{2,4}))?\b|\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)([a-z]*)\s+(\d{1,2})\b`)

	tagToken  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	nameToken = regexp.MustCompile(`^[\p{L}\p{N}_-]+$`)
)

// markerPattern matches a marker and the whole word after it. Group 1 is
// the marker with its token, group 2 the token.
func markerPattern(marker rune) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|\s)(` + regexp.QuoteMeta(string(marker)) + `(\S+))`)
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// Draft is the parsed, not yet persisted form of a task.
type Draft struct {
	Title    string
	Priority model.Priority
	Project  string
	Themes   []string
	Tags     []string
	DueDate  *time.Time
	Points   *int // nil when the text names no points
}

// Task builds a new open task from the draft.
func (d Draft) Task(now time.Time) model.Task {
	t := model.NewTask(d.Title, now)
	t.Priority = d.Priority
	t.Project = d.Project
	t.Themes = slices.Clone(d.Themes)
	if len(d.Tags) > 0 {
		t.Tags = slices.Clone(d.Tags)
	}
	if d.DueDate != nil {
		due := *d.DueDate
		t.DueDate = &due
	}
	if d.Points != nil {
		p := *d.Points
		t.Points = &p
	}
	return t
}

// Parse extracts task fields from text using the current time for relative
// dates.
func Parse(text string, projects []string, themes map[string][]string) Draft {
	return ParseAt(time.Now(), text, projects, themes)
}

// ParseAt is Parse with an explicit reference time. "today" resolves to now,
// "tomorrow" to now plus one calendar day, and explicit dates to local
// midnight in now's location, defaulting to now's year.
func ParseAt(now time.Time, text string, projects []string, themes map[string][]string) Draft {
	d := Draft{
		Priority: model.P1,
		Themes:   []string{},
		Tags:     []string{},
	}

	if loc := priorityPattern.FindStringIndex(text); loc != nil {
		d.Priority = model.Priority(strings.ToUpper(text[loc[0]:loc[1]]))
		text = cut(text, loc)
	}

	if m := pointsPattern.FindStringSubmatchIndex(text); m != nil {
		if p, err := strconv.Atoi(text[m[2]:m[3]]); err == nil {
			d.Points = &p
			text = cut(text, m[0:2])
		}
	}

	var tagSpans [][]int
	for _, m := range tagPattern.FindAllStringSubmatchIndex(text, -1) {
		if !tagToken.MatchString(text[m[4]:m[5]]) {
			continue
		}
		tagSpans = append(tagSpans, m[2:4])
		tag := strings.ToLower(text[m[4]:m[5]])
		if len(d.Tags) < model.MaxTagsPerTask && !slices.Contains(d.Tags, tag) {
			d.Tags = append(d.Tags, tag)
		}
	}
	text = cutAll(text, tagSpans)

	if m := firstToken(projectPattern, nameToken, text); m != nil {
		name := text[m[4]:m[5]]
		for _, p := range projects {
			if strings.EqualFold(p, name) {
				d.Project = p
				break
			}
		}
		text = cut(text, m[2:4])
	}

	if d.Project != "" {
		vocabulary := themes[d.Project]
		var themeSpans [][]int
		for _, m := range themePattern.FindAllStringSubmatchIndex(text, -1) {
			if !nameToken.MatchString(text[m[4]:m[5]]) {
				continue
			}
			themeSpans = append(themeSpans, m[2:4])
			token := strings.ToLower(text[m[4]:m[5]])
			for _, theme := range vocabulary {
				if strings.Contains(strings.ToLower(theme), token) {
					if !slices.Contains(d.Themes, theme) {
						d.Themes = append(d.Themes, theme)
					}
					break
				}
			}
		}
		text = cutAll(text, themeSpans)
	}

	text = parseDue(&d, now, text)

	d.Title = strings.Join(strings.Fields(text), " ")
	return d
}

// firstToken returns the submatch indexes of the first marker whose token is
// valid, or nil.
func firstToken(marker, token *regexp.Regexp, text string) []int {
	for _, m := range marker.FindAllStringSubmatchIndex(text, -1) {
		if token.MatchString(text[m[4]:m[5]]) {
			return m
		}
	}
	return nil
}

// parseDue fills d.DueDate from the first date expression and returns the
// text without it. When that expression is not a real calendar date the due
// date stays empty and the text is returned unchanged.
func parseDue(d *Draft, now time.Time, text string) string {
	if loc := tomorrowPattern.FindStringIndex(text); loc != nil {
		due := now.AddDate(0, 0, 1)
		d.DueDate = &due
		return cut(text, loc)
	}
	if loc := todayPattern.FindStringIndex(text); loc != nil {
		due := now
		d.DueDate = &due
		return cut(text, loc)
	}

	m := datePattern.FindStringSubmatchIndex(text)
	if m == nil {
		return text
	}
	if due, ok := explicitDate(text, m, now); ok {
		d.DueDate = &due
		return cut(text, m[0:2])
	}
	return text
}

func explicitDate(text string, m []int, now time.Time) (time.Time, bool) {
	group := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return text[m[2*i]:m[2*i+1]]
	}

	var (
		year       = now.Year()
		month, day int
		ok         bool
	)
	switch {
	case group(1) != "":
		year, _ = strconv.Atoi(group(1))
		month, _ = strconv.Atoi(group(2))
		day, _ = strconv.Atoi(group(3))
		ok = true
	case group(4) != "":
		if gluedToNumber(text, m[0]) {
			return time.Time{}, false
		}
		month, _ = strconv.Atoi(group(4))
		day, _ = strconv.Atoi(group(5))
		year, ok = parseYear(group(6), year)
	default:
		month, ok = parseMonth(group(7) + group(8))
		day, _ = strconv.Atoi(group(9))
	}
	if !ok {
		return time.Time{}, false
	}
	return calendarDate(year, month, day, now.Location())
}

// gluedToNumber reports whether the match at start follows a digit and a
// date separator, as the tail of "12024-12-25" does.
func gluedToNumber(text string, start int) bool {
	return start >= 2 && (text[start-1] == '-' || text[start-1] == '/') &&
		text[start-2] >= '0' && text[start-2] <= '9'
}

func parseYear(s string, fallback int) (int, bool) {
	switch len(s) {
	case 0:
		return fallback, true
	case 2:
		y, _ := strconv.Atoi(s)
		return 2000 + y, true
	case 4:
		y, _ := strconv.Atoi(s)
		return y, true
	}
	return 0, false
}

// parseMonth accepts any prefix of a month name that is at least three
// letters long ("dec", "decem", "december").
func parseMonth(word string) (int, bool) {
	word = strings.ToLower(word)
	for i, name := range monthNames {
		if strings.HasPrefix(name, word) {
			return i + 1, true
		}
	}
	return 0, false
}

func calendarDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func cut(text string, span []int) string {
	return text[:span[0]] + " " + text[span[1]:]
}

// cutAll removes spans, which must be ordered and non-overlapping.
func cutAll(text string, spans [][]int) string {
	for i := len(spans) - 1; i >= 0; i-- {
		text = cut(text, spans[i])
	}
	return text
}
