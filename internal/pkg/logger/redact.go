package logger

import "strings"

// RedactName masks a member name for safe logging.
// "Jane Doe" → "Ja*** D***"; single short tokens are fully masked.
func RedactName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	for i, f := range fields {
		if len(f) > 2 {
			fields[i] = f[:2] + "***"
		} else {
			fields[i] = f[:1] + "***"
		}
	}
	return strings.Join(fields, " ")
}

// RedactPhone masks all but the last four digits of a phone number.
// "15551234567" → "*******4567"
func RedactPhone(phone string) string {
	if len(phone) <= 4 {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
