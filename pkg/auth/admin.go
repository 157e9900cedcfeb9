package auth

import "log/slog"

// adminChecker holds the process-wide admin allowlist. Allowlisted users get
// admin treatment everywhere, including group-scope commands.
type adminChecker struct {
	adminIDs []int64
}

func NewAdminChecker(adminIDs []int64) *adminChecker {
	slog.Info("configured admin IDs", "user_ids", adminIDs)

	return &adminChecker{adminIDs: adminIDs}
}

func (a *adminChecker) IsAdmin(userID int64) bool {
	for _, id := range a.adminIDs {
		if userID == id {
			return true
		}
	}
	return false
}
