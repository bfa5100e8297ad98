// Package language holds the fixed table of announcement languages.
package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultCode is the source language used when a submission names none
const DefaultCode = "EN"

// Language is a supported announcement language
type Language struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// table order is the order languages are listed in an announcement
var table = []Language{
	{Code: "EN", Name: "English"},
	{Code: "FR", Name: "French"},
	{Code: "PT", Name: "Portuguese"},
	{Code: "DE", Name: "German"},
	{Code: "ES", Name: "Spanish"},
	{Code: "JA", Name: "Japanese"},
}

// All returns a copy of the language table
func All() []Language {
	out := make([]Language, len(table))
	copy(out, table)
	return out
}

// Codes returns the table's language codes in order
func Codes() []string {
	codes := make([]string, 0, len(table))
	for _, l := range table {
		codes = append(codes, l.Code)
	}
	return codes
}

// Lookup finds a table language by code, BCP 47 tag or English name.
// "fr", "FR", "fr-CA" and "French" all resolve to French.
func Lookup(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Language{}, false
	}

	for _, l := range table {
		if strings.EqualFold(l.Code, s) || strings.EqualFold(l.Name, s) {
			return l, true
		}
	}

	tag, err := xlanguage.Parse(s)
	if err != nil {
		return Language{}, false
	}
	base, _ := tag.Base()
	code := strings.ToUpper(base.String())
	for _, l := range table {
		if l.Code == code {
			return l, true
		}
	}

	return Language{}, false
}

// MustLookup is Lookup for codes known at compile time
func MustLookup(s string) Language {
	l, ok := Lookup(s)
	if !ok {
		panic("language: unsupported language " + s)
	}
	return l
}

// Tag returns the BCP 47 tag for the language
func (l Language) Tag() xlanguage.Tag {
	return xlanguage.Make(strings.ToLower(l.Code))
}

// NativeName returns the language's name in itself, e.g. "français"
func (l Language) NativeName() string {
	return display.Self.Name(l.Tag())
}

// Label returns "French (français)", or just the name when both agree
func (l Language) Label() string {
	native := l.NativeName()
	if native == "" || strings.EqualFold(native, l.Name) {
		return l.Name
	}
	return l.Name + " (" + native + ")"
}
