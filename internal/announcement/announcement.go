package announcement

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/event-announcer/internal/config"
	"github.com/pfrederiksen/event-announcer/internal/language"
	"github.com/pfrederiksen/event-announcer/internal/timezone"
)

// Placeholder replaces text a provider failed to translate
const Placeholder = "_translation unavailable_"

// Field names, in the order they appear
const (
	FieldUTC         = "Date & Time (UTC)"
	FieldName        = "Event Name"
	FieldDescription = "Description"
)

// UTCLayout formats the start time in the UTC header field
const UTCLayout = "Monday, 2006-01-02 15:04 UTC"

// Submission is one user request to announce an event
type Submission struct {
	Name           string `json:"name" validate:"required,max=100"`
	Description    string `json:"description" validate:"required,max=300"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	Time           string `json:"time" validate:"required,datetime=15:04"`
	SourceLanguage string `json:"language" validate:"required,language"`
	ChannelID      string `json:"channel,omitempty"`
}

// Translation is the event name and description in one language
type Translation struct {
	Language    language.Language `json:"language"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Identity    bool              `json:"identity,omitempty"`
	Unavailable bool              `json:"unavailable,omitempty"`
}

// Field is one titled block of the rendered announcement
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Announcement is the finished, write-once result of a build
type Announcement struct {
	ID           uuid.UUID            `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Source       language.Language    `json:"source"`
	Start        time.Time            `json:"start"`
	Times        []timezone.LocalTime `json:"times"`
	Translations []Translation        `json:"translations"`
	Fields       []Field              `json:"fields"`
	ChannelID    string               `json:"channel,omitempty"`
}

// Translation returns the entry for a language code, if one was computed
func (a *Announcement) Translation(code string) (Translation, bool) {
	for _, tr := range a.Translations {
		if strings.EqualFold(tr.Language.Code, code) {
			return tr, true
		}
	}
	return Translation{}, false
}

// FailurePolicy decides what a failed translation does to the build
type FailurePolicy string

const (
	PolicyPlaceholder FailurePolicy = config.OnFailurePlaceholder
	PolicyOmit        FailurePolicy = config.OnFailureOmit
	PolicyAbort       FailurePolicy = config.OnFailureAbort
)

// ParsePolicy parses a policy name; empty means placeholder
func ParsePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyPlaceholder:
		return PolicyPlaceholder, nil
	case PolicyOmit:
		return PolicyOmit, nil
	case PolicyAbort:
		return PolicyAbort, nil
	default:
		return "", fmt.Errorf("unknown translation failure policy %q", s)
	}
}

// fields assembles the ordered output fields
func (a *Announcement) fields() []Field {
	fields := make([]Field, 0, len(a.Times)+3)

	fields = append(fields, Field{
		Name:  FieldUTC,
		Value: a.Start.Format(UTCLayout),
	})

	for _, lt := range a.Times {
		fields = append(fields, Field{
			Name:   lt.Zone.DisplayName,
			Value:  lt.String(),
			Inline: true,
		})
	}

	var names, descriptions []string
	for _, tr := range a.Translations {
		names = append(names, listingLine(tr.Language, tr.Name))
		descriptions = append(descriptions, listingLine(tr.Language, tr.Description))
	}

	fields = append(fields,
		Field{Name: FieldName, Value: strings.Join(names, "\n")},
		Field{Name: FieldDescription, Value: strings.Join(descriptions, "\n")},
	)

	return fields
}

// listingLine renders "**French** (français): text"
func listingLine(l language.Language, text string) string {
	native := l.NativeName()
	if native == "" {
		native = l.Name
	}
	return fmt.Sprintf("**%s** (%s): %s", l.Name, native, text)
}

func describe(src language.Language) string {
	return "Original language: " + src.Label()
}
