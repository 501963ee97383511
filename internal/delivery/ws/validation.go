package ws

import (
	"regexp"
	"strings"

	"github.com/mmuslimabdulj/goat-call/internal/domain"
)

// nameRegex matches 1-64 characters with no control characters
var nameRegex = regexp.MustCompile(`^[^\x00-\x1f\x7f]{1,64}$`)

// IsValidName validates a username or room code as sent by clients
func IsValidName(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	return nameRegex.MatchString(name)
}

// IsValidUsername is IsValidName minus the reserved system author
func IsValidUsername(username string) bool {
	return IsValidName(username) && !strings.EqualFold(strings.TrimSpace(username), domain.SystemAuthor)
}
