// Package notify delivers invitation email asynchronously, rendered in
// the invited user's preferred language.
package notify

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	defaultSubject = "You have been invited to a board"
	defaultBody    = "%s invited you to join the board %q."
)

// supportedLanguages are the locales with registered message catalogs.
// English is first so it wins as the matcher fallback.
var supportedLanguages = []language.Tag{
	language.English,
	language.German,
	language.French,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// PrinterFor returns a message printer for the closest supported match of
// a BCP 47 tag. Unknown or empty tags fall back to English.
func PrinterFor(tag string) *message.Printer {
	parsed, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		parsed = language.English
	}
	matched, _, _ := languageMatcher.Match(parsed)
	return message.NewPrinter(matched)
}

// Localizer is the minimal message-printer contract required by the
// renderer.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// Input describes one invitation to render.
type Input struct {
	BoardTitle  string
	InviterName string
}

// Output is the localized email copy for one invitation.
type Output struct {
	Subject string
	Body    string
}

// Render returns localized invitation copy.
func Render(loc Localizer, input Input) Output {
	inviter := strings.TrimSpace(input.InviterName)
	if inviter == "" {
		inviter = localizeWithFallback(loc, "invitation.created.inviter_unknown", "A board owner")
	}

	subject := localizeWithFallback(loc, "invitation.created.subject", defaultSubject)
	body := localize(loc, "invitation.created.body", inviter, input.BoardTitle)
	if body == "" || body == "invitation.created.body" {
		body = localize(nil, defaultBody, inviter, input.BoardTitle)
	}
	return Output{Subject: subject, Body: body}
}

func localize(loc Localizer, key message.Reference, args ...any) string {
	if loc == nil {
		return message.NewPrinter(language.English).Sprintf(key, args...)
	}
	return loc.Sprintf(key, args...)
}

func localizeWithFallback(loc Localizer, key string, fallback string) string {
	value := strings.TrimSpace(localize(loc, key))
	if value == "" || value == key {
		return fallback
	}
	return value
}
