package event

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// dateLayout is the UTC timestamp format expected by the cdt parameter.
const dateLayout = "2006-01-02 15:04:05"

var (
	// ErrMissingSiteID is returned when an event has no site ID.
	ErrMissingSiteID = errors.New("event: site id is required")

	// ErrMissingVisitorID is returned when an event has no visitor ID.
	ErrMissingVisitorID = errors.New("event: visitor id is required")
)

// CustomVariable is a visit or page scoped name/value pair stored in a numbered slot.
type CustomVariable struct {
	Index int
	Name  string
	Value string
}

// Event is a single tracked occurrence.
// Zero-valued optional fields are omitted from the encoded request.
type Event struct {
	SiteID    string
	VisitorID string
	UserID    string
	UUID      uuid.UUID
	Date      time.Time

	URL        string
	Referrer   string
	ActionName string
	Language   string
	ScreenSize string
	NewVisit   bool

	Category string
	Action   string
	Name     string
	Value    *float64

	SearchKeyword  string
	SearchCategory string
	SearchCount    *int

	GoalID  int
	Revenue *float64

	CustomVariables []CustomVariable
	Dimensions      map[int]string
}

// New returns an event for the given site and visitor, stamped with a fresh
// UUID and the current time.
func New(siteID, visitorID string) Event {
	return Event{
		SiteID:    siteID,
		VisitorID: visitorID,
		UUID:      uuid.New(),
		Date:      time.Now().UTC(),
	}
}

// NewVisitorID returns a random 16 character hexadecimal visitor ID.
func NewVisitorID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:16]
}

// Validate reports whether the event can be encoded.
func (e Event) Validate() error {
	if e.SiteID == "" {
		return ErrMissingSiteID
	}
	if e.VisitorID == "" {
		return ErrMissingVisitorID
	}
	if e.Value != nil && !finite(*e.Value) {
		return fmt.Errorf("event: value %v is not a finite number", *e.Value)
	}
	if e.Revenue != nil && !finite(*e.Revenue) {
		return fmt.Errorf("event: revenue %v is not a finite number", *e.Revenue)
	}
	for _, cv := range e.CustomVariables {
		if cv.Index <= 0 {
			return fmt.Errorf("event: custom variable %q has invalid index %d", cv.Name, cv.Index)
		}
	}
	for idx := range e.Dimensions {
		if idx <= 0 {
			return fmt.Errorf("event: invalid dimension index %d", idx)
		}
	}
	return nil
}

// QueryItem is one name/value pair of an encoded tracking request.
type QueryItem struct {
	Name  string
	Value string
}

// QueryItems returns the tracking API parameters for e in a stable order.
// idsite and rec always come first.
func (e Event) QueryItems() ([]QueryItem, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	items := []QueryItem{
		{"idsite", e.SiteID},
		{"rec", "1"},
		{"_id", e.VisitorID},
	}
	add := func(name, value string) {
		if value != "" {
			items = append(items, QueryItem{name, value})
		}
	}

	add("uid", e.UserID)
	if e.UUID != uuid.Nil {
		add("rand", e.UUID.String())
	}
	if !e.Date.IsZero() {
		add("cdt", e.Date.UTC().Format(dateLayout))
	}
	add("url", e.URL)
	add("urlref", e.Referrer)
	add("action_name", e.ActionName)
	add("lang", e.Language)
	add("res", e.ScreenSize)
	if e.NewVisit {
		add("new_visit", "1")
	}

	add("e_c", e.Category)
	add("e_a", e.Action)
	add("e_n", e.Name)
	if e.Value != nil {
		add("e_v", formatFloat(*e.Value))
	}

	add("search", e.SearchKeyword)
	add("search_cat", e.SearchCategory)
	if e.SearchCount != nil {
		add("search_count", strconv.Itoa(*e.SearchCount))
	}

	if e.GoalID > 0 {
		add("idgoal", strconv.Itoa(e.GoalID))
	}
	if e.Revenue != nil {
		add("revenue", formatFloat(*e.Revenue))
	}

	if len(e.CustomVariables) > 0 {
		cvar, err := encodeCustomVariables(e.CustomVariables)
		if err != nil {
			return nil, err
		}
		add("_cvar", cvar)
	}

	if len(e.Dimensions) > 0 {
		idx := make([]int, 0, len(e.Dimensions))
		for i := range e.Dimensions {
			idx = append(idx, i)
		}
		sort.Ints(idx)
		for _, i := range idx {
			add("dimension"+strconv.Itoa(i), e.Dimensions[i])
		}
	}

	return items, nil
}

// encodeCustomVariables renders slots as {"1":["name","value"],...}.
func encodeCustomVariables(vars []CustomVariable) (string, error) {
	m := make(map[string][2]string, len(vars))
	for _, cv := range vars {
		m[strconv.Itoa(cv.Index)] = [2]string{cv.Name, cv.Value}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode custom variables: %w", err)
	}
	return string(b), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
