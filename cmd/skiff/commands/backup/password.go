package backup

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/skiffhq/skiff/internal/errors"
)

// passwordEnv lets scripts supply the password non-interactively.
const passwordEnv = "SKIFF_BACKUP_PASSWORD"

// readPassword reads a password without echo when stdin is a terminal,
// otherwise falls back to a plain line read so piped input works.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", errors.Wrap(err, "reading password")
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.Wrap(err, "reading password")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// resolveExportPassword obtains the encryption password from the
// environment or by prompting twice for confirmation.
func resolveExportPassword() (string, error) {
	if pw, ok := os.LookupEnv(passwordEnv); ok {
		return pw, nil
	}

	pw, err := readPassword("Encryption password: ")
	if err != nil {
		return "", err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if pw != confirm {
		return "", errors.New("passwords do not match")
	}
	return pw, nil
}

// resolveRestorePassword obtains the decryption password from the
// environment or by prompting once.
func resolveRestorePassword() (string, error) {
	if pw, ok := os.LookupEnv(passwordEnv); ok {
		return pw, nil
	}
	return readPassword("Backup password: ")
}
