package account

const (
	IDLength  = 15
	PINLength = 4
)

// IsValidID reports whether id is exactly 15 ASCII digits.
func IsValidID(id string) bool {
	return isDigits(id, IDLength)
}

// IsValidPIN reports whether pin is exactly 4 ASCII digits.
func IsValidPIN(pin string) bool {
	return isDigits(pin, PINLength)
}

func isDigits(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
