// Package user maintains the account directory: profile fields and the
// preferred language used for localized delivery.
package user

import (
	"strings"
	"time"

	"golang.org/x/text/language"

	apperrors "github.com/quadroapp/quadro/internal/platform/errors"
	"github.com/quadroapp/quadro/internal/storage"
)

const maxNameLength = 64

// DefaultLanguage is assigned to accounts that never chose one. The
// preferred language is always an explicit field, never inferred from
// other profile data.
const DefaultLanguage = "en"

// User is one account known to the service.
type User struct {
	ID                string
	Name              string
	Email             string
	PreferredLanguage string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func fromRecord(record storage.UserRecord) User {
	return User{
		ID:                record.ID,
		Name:              record.Name,
		Email:             record.Email,
		PreferredLanguage: record.PreferredLanguage,
		CreatedAt:         record.CreatedAt,
		UpdatedAt:         record.UpdatedAt,
	}
}

// normalizeLanguage validates a BCP 47 language tag, defaulting when empty.
func normalizeLanguage(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return DefaultLanguage, nil
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return "", apperrors.WithMetadata(apperrors.CodeUserInvalidLocale, "preferred language is not a valid language tag", map[string]string{
			"Locale": tag,
		})
	}
	return parsed.String(), nil
}
