package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, "invitation.created.subject", defaultSubject)
	message.SetString(lang, "invitation.created.body", defaultBody)
	message.SetString(lang, "invitation.created.inviter_unknown", "A board owner")
}
