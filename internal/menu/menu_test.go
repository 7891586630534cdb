package menu_test

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/password-saver/internal/menu"
	"github.com/kubev2v/password-saver/internal/models"
	srvErrors "github.com/kubev2v/password-saver/pkg/errors"
)

type mockManager struct {
	entries map[string]models.Entry
	err     error
	added   []models.Entry
	removed []string
}

func newMockManager() *mockManager {
	return &mockManager{entries: map[string]models.Entry{}}
}

func (m *mockManager) Add(ctx context.Context, entry models.Entry) error {
	if m.err != nil {
		return m.err
	}
	m.added = append(m.added, entry)
	m.entries[entry.Site] = entry
	return nil
}

func (m *mockManager) List(ctx context.Context, expr string) ([]models.Entry, error) {
	if m.err != nil {
		return nil, m.err
	}
	list := make([]models.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Site < list[j].Site })
	return list, nil
}

func (m *mockManager) Remove(ctx context.Context, site string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.entries[site]; !ok {
		return srvErrors.NewEntryNotFoundError(site)
	}
	m.removed = append(m.removed, site)
	delete(m.entries, site)
	return nil
}

var _ = Describe("Menu", func() {
	var (
		mgr *mockManager
		out *bytes.Buffer
	)

	run := func(input string, opts ...menu.Option) error {
		m := menu.NewMenu(mgr, strings.NewReader(input), out, opts...)
		return m.Run(context.TODO())
	}

	BeforeEach(func() {
		mgr = newMockManager()
		out = &bytes.Buffer{}
	})

	It("should print the options and quit", func() {
		Expect(run("q\n")).To(Succeed())

		Expect(out.String()).To(ContainSubstring("Password Manager"))
		Expect(out.String()).To(ContainSubstring("[A] Add a new password"))
		Expect(out.String()).To(ContainSubstring("[?] Remove a password"))
		Expect(out.String()).To(ContainSubstring("Goodbye!"))
	})

	It("should treat end of input as quit", func() {
		Expect(run("")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Goodbye!"))
	})

	It("should reject unknown options and keep going", func() {
		Expect(run("x\nQ\n")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Invalid option. Please try again."))
		Expect(strings.Count(out.String(), "Password Manager")).To(Equal(2))
	})

	Context("add", func() {
		It("should trim and save the entry", func() {
			// Given
			input := "a\n  example.com  \n alice \n pw1 \nq\n"

			// When
			Expect(run(input)).To(Succeed())

			// Then
			Expect(mgr.added).To(Equal([]models.Entry{{Site: "example.com", Username: "alice", Secret: "pw1"}}))
			Expect(out.String()).To(ContainSubstring("Password saved successfully!"))
		})

		It("should refuse an empty site", func() {
			Expect(run("A\n   \nalice\npw\nQ\n")).To(Succeed())
			Expect(mgr.added).To(BeEmpty())
			Expect(out.String()).To(ContainSubstring("Website address must not be empty."))
		})

		It("should read the password with the secret reader", func() {
			secret := func() (string, error) { return " s3cret ", nil }

			Expect(run("A\nbank.com\nbob\nQ\n", menu.WithSecretReader(secret))).To(Succeed())
			Expect(mgr.added).To(Equal([]models.Entry{{Site: "bank.com", Username: "bob", Secret: "s3cret"}}))
			Expect(out.String()).NotTo(ContainSubstring("s3cret"))
		})

		It("should report storage errors and continue", func() {
			mgr.err = srvErrors.NewStorageLockedError("passwords.db")

			Expect(run("A\nbank.com\nbob\npw\nQ\n")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("Error: storage passwords.db is locked"))
			Expect(out.String()).To(ContainSubstring("Goodbye!"))
		})

		It("should quit when the input ends mid-prompt", func() {
			Expect(run("A\nbank.com\n")).To(Succeed())
			Expect(mgr.added).To(BeEmpty())
			Expect(out.String()).To(ContainSubstring("Goodbye!"))
		})
	})

	Context("list", func() {
		It("should say when the store is empty", func() {
			Expect(run("L\nQ\n")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("No passwords stored yet."))
		})

		It("should print every entry", func() {
			mgr.entries["bank.com"] = models.Entry{Site: "bank.com", Username: "bob", Secret: "hunter2"}
			mgr.entries["example.com"] = models.Entry{Site: "example.com", Username: "alice", Secret: "pw1"}

			Expect(run("l\nq\n")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("Stored Passwords:"))
			Expect(out.String()).To(ContainSubstring("- bank.com: Username: bob, Password: hunter2\n- example.com: Username: alice, Password: pw1\n"))
		})

		It("should report storage errors", func() {
			mgr.err = srvErrors.NewStorageUnavailableError("passwords.db", errors.New("permission denied"))

			Expect(run("L\nQ\n")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("permission denied"))
		})
	})

	Context("remove", func() {
		BeforeEach(func() {
			mgr.entries["example.com"] = models.Entry{Site: "example.com"}
		})

		It("should delete an existing site", func() {
			Expect(run("?\nexample.com\nQ\n")).To(Succeed())
			Expect(mgr.removed).To(Equal([]string{"example.com"}))
			Expect(out.String()).To(ContainSubstring("Password for 'example.com' deleted successfully."))
		})

		It("should accept R as an alias", func() {
			Expect(run("r\nexample.com\nQ\n")).To(Succeed())
			Expect(mgr.removed).To(Equal([]string{"example.com"}))
		})

		It("should report a blank site as absent", func() {
			Expect(run("?\n   \nQ\n")).To(Succeed())
			Expect(mgr.removed).To(BeEmpty())
			Expect(out.String()).To(ContainSubstring("No such website found."))
		})

		It("should report an absent site", func() {
			Expect(run("?\nbank.com\nQ\n")).To(Succeed())
			Expect(mgr.removed).To(BeEmpty())
			Expect(out.String()).To(ContainSubstring("No such website found."))
		})
	})

	It("should run the add, list, remove scenario", func() {
		input := strings.Join([]string{
			"A", "example.com", "alice", "pw1",
			"A", "bank.com", "bob", "hunter2",
			"L",
			"?", "example.com",
			"L",
			"Q",
		}, "\n") + "\n"

		Expect(run(input)).To(Succeed())
		Expect(mgr.entries).To(HaveLen(1))
		Expect(mgr.entries).To(HaveKey("bank.com"))
	})
})
