package board

import "github.com/quadroapp/quadro/internal/platform/config"

// Limits holds the capacity caps enforced on membership growth.
//
// MaxBoardMembers caps non-owner members per board. MaxUserBoards caps the
// distinct boards a user participates in, counting owned and joined boards
// once each. EnforceBoardCapAtInvite additionally rejects invitations to a
// full board at creation time; acceptance always re-checks both caps.
type Limits struct {
	MaxBoardMembers         int  `env:"QUADRO_MAX_BOARD_MEMBERS" envDefault:"10"`
	MaxUserBoards           int  `env:"QUADRO_MAX_USER_BOARDS" envDefault:"5"`
	EnforceBoardCapAtInvite bool `env:"QUADRO_ENFORCE_BOARD_CAP_AT_INVITE" envDefault:"true"`
}

// LoadLimitsFromEnv reads capacity limits from the environment.
func LoadLimitsFromEnv() (Limits, error) {
	var limits Limits
	if err := config.ParseEnv(&limits); err != nil {
		return Limits{}, err
	}
	return limits, nil
}
