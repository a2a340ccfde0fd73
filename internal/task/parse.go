package task

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ProgressHeader is the section heading that delimits a record's
// progress log. Only this section is ever rewritten by the logbook.
const ProgressHeader = "## Progress Log"

// DateFormat is the calendar-date layout used throughout task records.
const DateFormat = "2006-01-02"

var progressLineRe = regexp.MustCompile(`^[-*]\s+(\d{4}-\d{2}-\d{2})\s*:\s*(.*)$`)

type frontmatter struct {
	Title           string `yaml:"title"`
	Priority        string `yaml:"priority"`
	Status          string `yaml:"status"`
	DueDate         string `yaml:"due_date"`
	NextAction      string `yaml:"next_action"`
	NextActionDue   string `yaml:"next_action_due"`
	BlockedBy       string `yaml:"blocked_by"`
	BlockedType     string `yaml:"blocked_type"`
	BlockedExpected string `yaml:"blocked_expected"`
}

// Parse builds a Record from a task file's raw text. Parsing is
// best-effort: missing frontmatter fields stay empty, a record with no
// progress section yields an empty entry list, and progress bullets
// without a valid leading date are dropped.
func Parse(path, text string) Record {
	rec := Record{
		Path:   path,
		Status: StatusNotStarted,
		Raw:    text,
	}

	fm := parseFrontmatter(text)
	rec.Title = fm.Title
	rec.Priority = fm.Priority
	rec.Status = ParseStatus(fm.Status)
	rec.DueDate = fm.DueDate
	rec.NextAction = fm.NextAction
	rec.NextActionDue = fm.NextActionDue
	rec.BlockedBy = fm.BlockedBy
	rec.BlockedType = fm.BlockedType
	rec.BlockedExpected = fm.BlockedExpected

	if rec.Title == "" {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		rec.Title = strings.ReplaceAll(stem, "-", " ")
	}

	rec.Progress = parseProgressLog(text)
	return rec
}

func parseFrontmatter(text string) frontmatter {
	var fm frontmatter

	if !strings.HasPrefix(text, "---") {
		return fm
	}
	parts := strings.SplitN(text, "---", 3)
	if len(parts) < 3 {
		return fm
	}
	block := parts[1]

	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return parseFrontmatterLoose(block)
	}
	return fm
}

// parseFrontmatterLoose recovers fields from frontmatter that is not
// valid YAML, scanning line by line for key: value pairs.
func parseFrontmatterLoose(block string) frontmatter {
	fields := map[string]string{}
	for _, line := range strings.Split(block, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		if value == "null" {
			value = ""
		}
		fields[key] = value
	}

	return frontmatter{
		Title:           fields["title"],
		Priority:        fields["priority"],
		Status:          fields["status"],
		DueDate:         fields["due_date"],
		NextAction:      fields["next_action"],
		NextActionDue:   fields["next_action_due"],
		BlockedBy:       fields["blocked_by"],
		BlockedType:     fields["blocked_type"],
		BlockedExpected: fields["blocked_expected"],
	}
}

func parseProgressLog(text string) []ProgressEntry {
	section, ok := progressSection(text)
	if !ok {
		return nil
	}

	var entries []ProgressEntry
	for _, line := range strings.Split(section, "\n") {
		m := progressLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		date, err := time.Parse(DateFormat, m[1])
		if err != nil {
			continue
		}
		entries = append(entries, ProgressEntry{Date: date, Content: strings.TrimSpace(m[2])})
	}
	return entries
}

// progressSection returns the text between the progress header and the
// next section heading (or end of file).
func progressSection(text string) (string, bool) {
	idx := headerIndex(text)
	if idx < 0 {
		return "", false
	}
	body := text[idx+len(ProgressHeader):]
	if end := strings.Index(body, "\n## "); end >= 0 {
		body = body[:end]
	}
	return body, true
}

// headerIndex returns the offset of the progress header where it starts
// a line, so a mid-line mention or an h3 heading never counts as the
// section. Returns -1 when the record has no progress section.
func headerIndex(text string) int {
	from := 0
	for {
		i := strings.Index(text[from:], ProgressHeader)
		if i < 0 {
			return -1
		}
		i += from
		if i == 0 || text[i-1] == '\n' {
			return i
		}
		from = i + len(ProgressHeader)
	}
}
