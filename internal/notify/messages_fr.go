package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.French

	message.SetString(lang, "invitation.created.subject", "Vous avez été invité à un tableau")
	message.SetString(lang, "invitation.created.body", "%s vous a invité à rejoindre le tableau %q.")
	message.SetString(lang, "invitation.created.inviter_unknown", "Un propriétaire de tableau")
}
