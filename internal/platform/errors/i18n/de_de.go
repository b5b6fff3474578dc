package i18n

func init() {
	register(&Catalog{
		locale: "de-DE",
		messages: map[Code]string{
			CodeInvalidBody: "Der Anfragetext konnte nicht verarbeitet werden",

			CodeBoardTitleEmpty:   "Der Board-Titel darf nicht leer sein",
			CodeBoardInvalidColor: "Die Board-Farbe muss ein Hex-Wert wie #FFFFFF sein",
			CodeBoardLimitReached: "Es können nicht mehr als {{.MaxBoards}} Boards erstellt oder beigetreten werden",

			CodeBoardMemberLimitReached: "Einem Board können nicht mehr als {{.MaxMembers}} Mitglieder hinzugefügt werden",

			CodeInviteTargetRequired:   "Entweder ein eingeladener Benutzer oder eine E-Mail-Adresse ist erforderlich",
			CodeInviteTargetConflict:   "Geben Sie entweder einen eingeladenen Benutzer oder eine E-Mail-Adresse an, nicht beides",
			CodeInviteAlreadyMember:    "Der Benutzer ist bereits Mitglied dieses Boards",
			CodeInviteAlreadyPending:   "Eine Einladung für diesen Benutzer zu diesem Board existiert bereits",
			CodeInviteAlreadyProcessed: "Diese Einladung wurde bereits bearbeitet",

			CodeUserEmailAmbiguous: "Mehrere Benutzer mit der E-Mail-Adresse gefunden: {{.Email}}",
			CodeUserEmailUnknown:   "Kein Benutzer mit der E-Mail-Adresse gefunden: {{.Email}}",
			CodeUserInvalidLocale:  "Nicht unterstützte Sprache: {{.Locale}}",

			CodeListTitleEmpty: "Der Listentitel darf nicht leer sein",

			CodeTaskTitleEmpty:    "Der Aufgabentitel darf nicht leer sein",
			CodeTaskListMismatch:  "Aufgaben können nur zwischen Listen desselben Boards verschoben werden",
			CodeTaskNotAssignable: "Nur Board-Mitglieder können Aufgaben zugewiesen werden",

			CodeUnauthenticated: "Anmeldung erforderlich",
			CodeForbidden:       "Sie haben keine Berechtigung für diese Aktion",

			CodeNotFound: "Ressource nicht gefunden",
		},
	})
}
