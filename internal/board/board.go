// Package board holds the board domain: entities, validation, access
// policy, and capacity limits.
package board

import (
	"strings"
	"time"

	apperrors "github.com/quadroapp/quadro/internal/platform/errors"
	"github.com/quadroapp/quadro/internal/storage"
)

const (
	maxTitleLength = 128

	// DefaultColor is applied when a board is created without one.
	DefaultColor = "#FFFFFF"
)

// Board is one task board owned by a single user.
type Board struct {
	ID        string
	Title     string
	OwnerID   string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Member is one non-owner participant of a board.
type Member struct {
	BoardID string
	UserID  string
	AddedAt time.Time
}

func fromRecord(record storage.BoardRecord) Board {
	return Board{
		ID:        record.ID,
		Title:     record.Title,
		OwnerID:   record.OwnerID,
		Color:     record.Color,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func memberFromRecord(record storage.MemberRecord) Member {
	return Member{
		BoardID: record.BoardID,
		UserID:  record.UserID,
		AddedAt: record.AddedAt,
	}
}

// normalizeTitle trims and validates a board title.
func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperrors.New(apperrors.CodeBoardTitleEmpty, "board title is required")
	}
	if len([]rune(title)) > maxTitleLength {
		return "", apperrors.New(apperrors.CodeBoardTitleEmpty, "board title is too long")
	}
	return title, nil
}

// normalizeColor validates a #RRGGBB color, defaulting when empty.
func normalizeColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		return DefaultColor, nil
	}
	if !isHexColor(color) {
		return "", apperrors.WithMetadata(apperrors.CodeBoardInvalidColor, "board color must be a #RRGGBB value", map[string]string{
			"Color": color,
		})
	}
	return strings.ToUpper(color), nil
}

func isHexColor(color string) bool {
	if len(color) != 7 || color[0] != '#' {
		return false
	}
	for _, r := range color[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
