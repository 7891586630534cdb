package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/kubev2v/password-saver/internal/models"
	srvErrors "github.com/kubev2v/password-saver/pkg/errors"
)

type CredentialManager interface {
	Add(ctx context.Context, entry models.Entry) error
	List(ctx context.Context, expr string) ([]models.Entry, error)
	Remove(ctx context.Context, site string) error
}

// SecretReader reads a password without echoing it.
type SecretReader func() (string, error)

type Option func(*Menu)

func WithSecretReader(r SecretReader) Option {
	return func(m *Menu) {
		m.readSecret = r
	}
}

// TerminalSecretReader returns a reader that disables echo on f, or nil
// when f is not a terminal.
func TerminalSecretReader(f *os.File) SecretReader {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	return func() (string, error) {
		b, err := term.ReadPassword(fd)
		return string(b), err
	}
}

type Menu struct {
	srv        CredentialManager
	in         *bufio.Reader
	out        io.Writer
	readSecret SecretReader

	title   *color.Color
	success *color.Color
	warning *color.Color
	failure *color.Color
}

func NewMenu(srv CredentialManager, in io.Reader, out io.Writer, opts ...Option) *Menu {
	m := &Menu{
		srv:     srv,
		in:      bufio.NewReader(in),
		out:     out,
		title:   color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Run shows the menu until the user quits or the input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.printMenu()

		answer, err := m.prompt("Choose an option:\n> ")
		if err != nil {
			return m.stop(err)
		}

		switch strings.ToUpper(answer) {
		case "A":
			err = m.add(ctx)
		case "L":
			m.list(ctx)
		case "?", "R":
			err = m.remove(ctx)
		case "Q":
			m.success.Fprintln(m.out, "Goodbye!")
			return nil
		default:
			m.failure.Fprintln(m.out, "Invalid option. Please try again.")
			fmt.Fprintln(m.out)
		}

		if err != nil {
			return m.stop(err)
		}
	}
}

func (m *Menu) printMenu() {
	m.title.Fprintln(m.out, "Password Manager")
	fmt.Fprint(m.out, `
Options:
    [A] Add a new password
    [L] List all passwords
    [?] Remove a password
    [Q] Quit

`)
}

func (m *Menu) add(ctx context.Context) error {
	site, err := m.prompt("Enter website address:\n> ")
	if err != nil {
		return err
	}
	username, err := m.prompt("What was the username you used?\n> ")
	if err != nil {
		return err
	}
	password, err := m.promptSecret("What is the password?\n> ")
	if err != nil {
		return err
	}

	if site == "" {
		m.warning.Fprintln(m.out, "Website address must not be empty.")
		fmt.Fprintln(m.out)
		return nil
	}

	if err := m.srv.Add(ctx, models.Entry{Site: site, Username: username, Secret: password}); err != nil {
		m.reportError(err)
		return nil
	}

	m.success.Fprintln(m.out, "Password saved successfully!")
	fmt.Fprintln(m.out)
	return nil
}

func (m *Menu) list(ctx context.Context) {
	entries, err := m.srv.List(ctx, "")
	if err != nil {
		m.reportError(err)
		return
	}

	if len(entries) == 0 {
		m.warning.Fprintln(m.out, "No passwords stored yet.")
		fmt.Fprintln(m.out)
		return
	}

	m.title.Fprintln(m.out, "Stored Passwords:")
	for _, e := range entries {
		fmt.Fprintf(m.out, "- %s: Username: %s, Password: %s\n", e.Site, e.Username, e.Secret)
	}
	fmt.Fprintln(m.out)
}

func (m *Menu) remove(ctx context.Context) error {
	site, err := m.prompt("Enter the website to delete its password:\n> ")
	if err != nil {
		return err
	}

	err = m.srv.Remove(ctx, site)
	switch {
	case err == nil:
		m.success.Fprintf(m.out, "Password for '%s' deleted successfully.\n", site)
	case srvErrors.IsResourceNotFoundError(err):
		m.warning.Fprintln(m.out, "No such website found.")
	default:
		m.reportError(err)
		return nil
	}
	fmt.Fprintln(m.out)
	return nil
}

func (m *Menu) reportError(err error) {
	zap.S().Named("menu").Errorw("operation failed", "error", err)
	m.failure.Fprintf(m.out, "Error: %v\n", err)
	fmt.Fprintln(m.out)
}

// stop ends the loop. End of input counts as quitting.
func (m *Menu) stop(err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(m.out)
		m.success.Fprintln(m.out, "Goodbye!")
		return nil
	}
	return err
}

func (m *Menu) prompt(text string) (string, error) {
	fmt.Fprint(m.out, text)
	return m.readLine()
}

func (m *Menu) promptSecret(text string) (string, error) {
	if m.readSecret == nil {
		return m.prompt(text)
	}
	fmt.Fprint(m.out, text)
	s, err := m.readSecret()
	fmt.Fprintln(m.out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// readLine returns the next trimmed line. A final line without a newline is
// returned before io.EOF.
func (m *Menu) readLine() (string, error) {
	line, err := m.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
