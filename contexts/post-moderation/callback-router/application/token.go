package application

import (
	"strings"

	"spotted/contexts/post-moderation/callback-router/domain/entities"
	domainerrors "spotted/contexts/post-moderation/callback-router/domain/errors"
)

// DecodeToken splits callback data into a command tag and an optional
// argument. The argument is everything after the first comma.
func DecodeToken(data string) (entities.Token, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return entities.Token{}, domainerrors.ErrMalformedToken
	}
	command, arg, _ := strings.Cut(data, ",")
	if command == "" {
		return entities.Token{}, domainerrors.ErrMalformedToken
	}
	return entities.Token{Command: entities.Command(command), Arg: arg}, nil
}
