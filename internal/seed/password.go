package seed

import (
	"errors"
	"time"

	"github.com/dlclark/regexp2"
)

// At least 8 characters with one letter, one digit and one symbol.
const passwordPattern = `^(?=.*[A-Za-z])(?=.*\d)(?=.*[^A-Za-z\d]).{8,}$`

var (
	ErrWeakPassword = errors.New("the password must be at least 8 characters and contain 1 letter, 1 number and 1 symbol")

	passwordExp = func() *regexp2.Regexp {
		re := regexp2.MustCompile(passwordPattern, regexp2.None)
		re.MatchTimeout = 100 * time.Millisecond
		return re
	}()
)

func ValidatePassword(password string) error {
	ok, err := passwordExp.MatchString(password)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWeakPassword
	}

	return nil
}
