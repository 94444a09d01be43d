package codec

import "github.com/ChatWorks/porto/internal/engineerr"

// ParseBool accepts exactly the literals "true" and "false"; any other
// spelling ("True", "1", "yes", ...) is rejected per §4.1.
func ParseBool(prop, raw string) (bool, error) {
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, engineerr.InvalidValuef(prop, raw, "not a boolean")
	}
}

// FormatBool is the inverse of ParseBool.
func FormatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
