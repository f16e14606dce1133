package cliconfig

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/bft-labs/trackship/pkg/event"
)

// maxEventLine bounds a single JSON line in an events file.
const maxEventLine = 1 << 20

// EventLine is one line of a JSON-lines events file.
// Site and visitor IDs default to the values passed to ReadEvents.
type EventLine struct {
	SiteID     string `json:"site_id"`
	VisitorID  string `json:"visitor_id"`
	UserID     string `json:"user_id"`
	Timestamp  string `json:"timestamp"`
	URL        string `json:"url"`
	Referrer   string `json:"referrer"`
	ActionName string `json:"action_name"`
	Language   string `json:"lang"`

	Category string   `json:"category"`
	Action   string   `json:"action"`
	Name     string   `json:"name"`
	Value    *float64 `json:"value"`

	Search   string   `json:"search"`
	GoalID   int      `json:"goal_id"`
	Revenue  *float64 `json:"revenue"`
	NewVisit bool     `json:"new_visit"`

	Dimensions map[string]string `json:"dimensions"`
}

// LoadEvents reads a JSON-lines events file. A path of "-" reads stdin.
func LoadEvents(path, siteID, visitorID string) ([]event.Event, error) {
	if path == "-" {
		return ReadEvents(os.Stdin, siteID, visitorID)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadEvents(f, siteID, visitorID)
}

// ReadEvents decodes one event per non-blank line of r.
func ReadEvents(r io.Reader, siteID, visitorID string) ([]event.Event, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxEventLine)

	var events []event.Event
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var l EventLine
		if err := json.Unmarshal(line, &l); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		e, err := l.toEvent(siteID, visitorID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		events = append(events, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (l EventLine) toEvent(siteID, visitorID string) (event.Event, error) {
	if l.SiteID != "" {
		siteID = l.SiteID
	}
	if l.VisitorID != "" {
		visitorID = l.VisitorID
	}
	e := event.New(siteID, visitorID)
	if l.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, l.Timestamp)
		if err != nil {
			return e, fmt.Errorf("parse timestamp: %w", err)
		}
		e.Date = ts.UTC()
	}

	e.UserID = l.UserID
	e.URL = l.URL
	e.Referrer = l.Referrer
	e.ActionName = l.ActionName
	e.Language = l.Language
	e.Category = l.Category
	e.Action = l.Action
	e.Name = l.Name
	e.Value = l.Value
	e.SearchKeyword = l.Search
	e.GoalID = l.GoalID
	e.Revenue = l.Revenue
	e.NewVisit = l.NewVisit

	if len(l.Dimensions) > 0 {
		e.Dimensions = make(map[int]string, len(l.Dimensions))
		for k, v := range l.Dimensions {
			idx, err := strconv.Atoi(k)
			if err != nil {
				return e, fmt.Errorf("dimension key %q is not a number", k)
			}
			e.Dimensions[idx] = v
		}
	}
	return e, nil
}
