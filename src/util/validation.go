package util

import (
	"regexp"
	"strings"

	"sysfinance-server/src/models"
)

// NormalizeLogin lowercases and trims a username or email address.
// Registration and login must both apply it so a user who signs up as
// "Alice" is found when logging in as "alice" (or "Alice").
func NormalizeLogin(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func ValidateEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

func ValidateUsername(username string) bool {
	return len(username) >= 3 && len(username) <= 30
}

func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile("[a-z]").MatchString(password)
	hasUpper := regexp.MustCompile("[A-Z]").MatchString(password)
	hasDigit := regexp.MustCompile("[0-9]").MatchString(password)
	hasSpecial := regexp.MustCompile(`[^A-Za-z0-9]`).MatchString(password)

	return hasLower && hasUpper && hasDigit && hasSpecial
}

func ValidateAccountName(name string) bool {
	return len(name) >= 2 && len(name) <= 100
}

func ValidateAccountKind(kind string) bool {
	switch kind {
	case models.AccountChecking, models.AccountSavings, models.AccountInvestment, models.AccountWallet:
		return true
	}
	return false
}

func ValidateTransactionKind(kind string) bool {
	return kind == models.TransactionIncome || kind == models.TransactionExpense
}

func ValidateRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleManager, models.RoleVisitor:
		return true
	}
	return false
}
