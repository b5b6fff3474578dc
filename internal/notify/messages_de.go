package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.German

	message.SetString(lang, "invitation.created.subject", "Du wurdest zu einem Board eingeladen")
	message.SetString(lang, "invitation.created.body", "%s hat dich eingeladen, dem Board %q beizutreten.")
	message.SetString(lang, "invitation.created.inviter_unknown", "Ein Board-Inhaber")
}
