package notion

import (
	"fmt"
	"strings"
	"time"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
)

// Database column names.
const (
	propQuestion       = "Question"
	propAnswer         = "Answer"
	propOptions        = "Options"
	propEntryID        = "EntryID"
	propCategory       = "Category"
	propType           = "Type"
	propColor          = "Color"
	propTimeOfDay      = "TimeOfDay"
	propDate           = "Date"
	propCreated        = "Created"
	propMediaKind      = "MediaKind"
	propMediaURL       = "MediaURL"
	propMediaSize      = "MediaSize"
	propMediaTimestamp = "MediaTimestamp"
)

// property is the union of the property value shapes this package uses.
type property struct {
	Title    []richText   `json:"title,omitempty"`
	RichText []richText   `json:"rich_text,omitempty"`
	Select   *selectValue `json:"select,omitempty"`
	Date     *dateValue   `json:"date,omitempty"`
	URL      *string      `json:"url,omitempty"`
	Number   *float64     `json:"number,omitempty"`
}

type richText struct {
	Text      textContent `json:"text"`
	PlainText string      `json:"plain_text,omitempty"`
}

type textContent struct {
	Content string `json:"content"`
}

type selectValue struct {
	Name string `json:"name"`
}

type dateValue struct {
	Start string `json:"start"`
}

func title(s string) property {
	return property{Title: []richText{{Text: textContent{Content: s}}}}
}

func text(s string) property {
	return property{RichText: []richText{{Text: textContent{Content: s}}}}
}

func choice(s string) property {
	return property{Select: &selectValue{Name: s}}
}

func date(s string) property {
	return property{Date: &dateValue{Start: s}}
}

// entryProperties maps e onto database columns. Empty select values are
// left out because Notion rejects a select with an empty name.
func entryProperties(e model.JournalEntry) map[string]property {
	props := map[string]property{
		propQuestion: title(e.Question),
		propAnswer:   text(e.Answer),
		propOptions:  text(strings.Join(e.Options, "\n")),
		propEntryID:  text(e.ID),
		propDate:     date(e.CreatedDate),
		propCreated:  date(e.CreatedAt.Format(time.RFC3339Nano)),
	}
	for name, v := range map[string]string{
		propCategory:  e.Category,
		propType:      string(e.Kind),
		propColor:     string(e.Color),
		propTimeOfDay: string(e.TimeOfDay),
	} {
		if v != "" {
			props[name] = choice(v)
		}
	}
	if m := e.Media; m != nil {
		props[propMediaKind] = choice(m.Kind)
		if m.URL != "" {
			url := m.URL
			props[propMediaURL] = property{URL: &url}
		}
		size := float64(m.SizeBytes)
		props[propMediaSize] = property{Number: &size}
		if !m.Timestamp.IsZero() {
			props[propMediaTimestamp] = date(m.Timestamp.Format(time.RFC3339Nano))
		}
	}
	return props
}

func (p property) plain() string {
	parts := p.Title
	if len(parts) == 0 {
		parts = p.RichText
	}
	var b strings.Builder
	for _, r := range parts {
		if r.PlainText != "" {
			b.WriteString(r.PlainText)
		} else {
			b.WriteString(r.Text.Content)
		}
	}
	return b.String()
}

func (p property) selected() string {
	if p.Select == nil {
		return ""
	}
	return p.Select.Name
}

func (p property) start() string {
	if p.Date == nil {
		return ""
	}
	return p.Date.Start
}

// pageEntry maps a database row back onto an entry. Rows created by hand
// in Notion may lack an EntryID; the page ID is used instead. A Created
// value that is neither a timestamp nor a date leaves CreatedAt zero and is
// reported as warn; the entry is still usable.
func pageEntry(p page) (e model.JournalEntry, warn error) {
	props := p.Properties
	e = model.JournalEntry{
		ID:          props[propEntryID].plain(),
		Question:    props[propQuestion].plain(),
		Answer:      props[propAnswer].plain(),
		Category:    props[propCategory].selected(),
		Kind:        model.QuestionKind(props[propType].selected()),
		Color:       model.Color(props[propColor].selected()),
		TimeOfDay:   model.TimeOfDay(props[propTimeOfDay].selected()),
		CreatedDate: props[propDate].start(),
	}
	if e.ID == "" {
		e.ID = p.ID
	}
	if opts := props[propOptions].plain(); opts != "" {
		e.Options = strings.Split(opts, "\n")
	}
	if len(e.CreatedDate) > len(model.DateLayout) {
		e.CreatedDate = e.CreatedDate[:len(model.DateLayout)]
	}
	if s := props[propCreated].start(); s != "" {
		e.CreatedAt, warn = parseCreated(s)
		if warn != nil {
			warn = fmt.Errorf("page %s: invalid %s %q: %w", p.ID, propCreated, s, warn)
		}
	}
	if kind := props[propMediaKind].selected(); kind != "" {
		m := &model.Media{Kind: kind}
		if u := props[propMediaURL].URL; u != nil {
			m.URL = *u
		}
		if n := props[propMediaSize].Number; n != nil {
			m.SizeBytes = int64(*n)
		}
		if s := props[propMediaTimestamp].start(); s != "" {
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				m.Timestamp = t
			}
		}
		e.Media = m
	}
	return e, warn
}

// parseCreated accepts a full timestamp or, for rows edited by hand in
// Notion, a bare date.
func parseCreated(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	if d, derr := time.Parse(model.DateLayout, s); derr == nil {
		return d, nil
	}
	return time.Time{}, err
}
