package i18n

func init() {
	register(&Catalog{
		locale: "fr-FR",
		messages: map[Code]string{
			CodeInvalidBody: "Le corps de la requête n'a pas pu être analysé",

			CodeBoardTitleEmpty:   "Le titre du tableau ne peut pas être vide",
			CodeBoardInvalidColor: "La couleur du tableau doit être une valeur hexadécimale comme #FFFFFF",
			CodeBoardLimitReached: "Impossible de créer ou de rejoindre plus de {{.MaxBoards}} tableaux",

			CodeBoardMemberLimitReached: "Impossible d'ajouter plus de {{.MaxMembers}} membres à un tableau",

			CodeInviteTargetRequired:   "Un utilisateur invité ou une adresse e-mail est requis",
			CodeInviteTargetConflict:   "Fournissez soit un utilisateur invité, soit une adresse e-mail, pas les deux",
			CodeInviteAlreadyMember:    "L'utilisateur est déjà membre de ce tableau",
			CodeInviteAlreadyPending:   "Une invitation pour cet utilisateur à ce tableau existe déjà",
			CodeInviteAlreadyProcessed: "Cette invitation a déjà été traitée",

			CodeUserEmailAmbiguous: "Plusieurs utilisateurs trouvés avec l'adresse e-mail : {{.Email}}",
			CodeUserEmailUnknown:   "Aucun utilisateur trouvé avec l'adresse e-mail : {{.Email}}",
			CodeUserInvalidLocale:  "Langue non prise en charge : {{.Locale}}",

			CodeListTitleEmpty: "Le titre de la liste ne peut pas être vide",

			CodeTaskTitleEmpty:    "Le titre de la tâche ne peut pas être vide",
			CodeTaskListMismatch:  "Les tâches ne peuvent être déplacées qu'entre les listes d'un même tableau",
			CodeTaskNotAssignable: "Seuls les membres du tableau peuvent être assignés aux tâches",

			CodeUnauthenticated: "Authentification requise",
			CodeForbidden:       "Vous n'avez pas la permission d'effectuer cette action",

			CodeNotFound: "Ressource introuvable",
		},
	})
}
