package importer

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the layout of the date token in a block start marker.
const DateLayout = "2006-01-02"

// Draft is a parsed block that has not been persisted yet.
type Draft struct {
	Date  string
	Title string
	Body  string
}

// Content renders the draft as entry content:
//
//	Date: <date>
//	Title: <title>
//	<body>
func (d Draft) Content() string {
	return fmt.Sprintf("Date: %s\nTitle: %s\n%s", d.Date, d.Title, d.Body)
}

// CreatedAt returns the date to send as the created_at override, or "" when
// the date does not name a real calendar day (2024-02-30).
func (d Draft) CreatedAt() string {
	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return ""
	}
	return d.Date
}

// ParseContent reads back a string produced by Draft.Content.
func ParseContent(content string) (Draft, bool) {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	dateLine, rest, ok := strings.Cut(content, "\n")
	if !ok {
		return Draft{}, false
	}
	date, ok := strings.CutPrefix(dateLine, "Date: ")
	if !ok {
		return Draft{}, false
	}

	titleLine, body, _ := strings.Cut(rest, "\n")
	title, ok := strings.CutPrefix(titleLine, "Title: ")
	if !ok {
		return Draft{}, false
	}

	return Draft{Date: date, Title: title, Body: strings.TrimSpace(body)}, true
}
