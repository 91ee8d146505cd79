package formaterror

import "strings"

// FormatError translates raw database error strings into user-facing field
// errors. Unique violations surface differently per driver ("duplicate key"
// on Postgres, "UNIQUE constraint failed" on sqlite).
func FormatError(err string) map[string]string {
	errorMessages := make(map[string]string)

	lowered := strings.ToLower(err)

	if strings.Contains(lowered, "username") {
		errorMessages["Taken_username"] = "Username Already Taken"
	}
	if strings.Contains(lowered, "email") {
		errorMessages["Taken_email"] = "Email Already Taken"
	}
	if strings.Contains(lowered, "hashedpassword") {
		errorMessages["Incorrect_password"] = "Incorrect Password"
	}
	if strings.Contains(lowered, "record not found") {
		errorMessages["No_record"] = "No Record Found"
	}
	if len(errorMessages) == 0 && IsUniqueViolation(err) {
		errorMessages["Duplicate"] = "Already Exists"
	}
	if len(errorMessages) > 0 {
		return errorMessages
	}
	return map[string]string{"Incorrect_details": "Incorrect Details"}
}

// IsUniqueViolation reports whether a database error was caused by a unique
// index or constraint, regardless of driver.
func IsUniqueViolation(err string) bool {
	lowered := strings.ToLower(err)
	return strings.Contains(lowered, "duplicate key") ||
		strings.Contains(lowered, "unique constraint") ||
		strings.Contains(lowered, "unique violation")
}
