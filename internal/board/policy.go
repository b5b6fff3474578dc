package board

// CanManage reports whether the user may administer the board: invite,
// update, or delete. Only the owner manages a board.
func CanManage(userID string, board Board) bool {
	return userID != "" && board.OwnerID == userID
}

// CanAccess reports whether the user may read the board and work with its
// lists and tasks. Owners always have access; everyone else needs a
// membership row, which the caller resolves.
func CanAccess(userID string, board Board, isMember bool) bool {
	if CanManage(userID, board) {
		return true
	}
	return userID != "" && isMember
}
