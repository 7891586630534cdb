package store_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/password-saver/internal/models"
	"github.com/kubev2v/password-saver/internal/store"
	srvErrors "github.com/kubev2v/password-saver/pkg/errors"
)

var _ = Describe("Store", func() {
	for _, driver := range drivers {
		Context("with driver "+driver, func() {
			var (
				ctx    context.Context
				tmpDir string
				path   string
			)

			BeforeEach(func() {
				ctx = context.Background()

				var err error
				tmpDir, err = os.MkdirTemp("", "password-saver-store-*")
				Expect(err).NotTo(HaveOccurred())
				path = filepath.Join(tmpDir, "passwords.db")
			})

			AfterEach(func() {
				if tmpDir != "" {
					os.RemoveAll(tmpDir)
				}
			})

			Context("Open", func() {
				It("should create the backing file when absent", func() {
					s, err := store.Open(ctx, path, store.WithDriver(driver))
					Expect(err).NotTo(HaveOccurred())
					defer s.Close()

					_, err = os.Stat(path)
					Expect(err).NotTo(HaveOccurred())

					entries, err := s.Entries().List(ctx, nil)
					Expect(err).NotTo(HaveOccurred())
					Expect(entries).To(BeEmpty())
				})

				It("should fail with StorageUnavailableError when the directory is missing", func() {
					missing := filepath.Join(tmpDir, "nested", "missing", "passwords.db")

					_, err := store.Open(ctx, missing, store.WithDriver(driver))
					Expect(err).To(HaveOccurred())
					Expect(srvErrors.IsStorageUnavailableError(err)).To(BeTrue())
				})

				It("should fail with StorageUnavailableError when the path is a directory", func() {
					dir := filepath.Join(tmpDir, "adir")
					Expect(os.Mkdir(dir, 0700)).To(Succeed())

					_, err := store.Open(ctx, dir, store.WithDriver(driver))
					Expect(err).To(HaveOccurred())
					Expect(srvErrors.IsStorageUnavailableError(err)).To(BeTrue())
				})

				It("should release the lock when opening fails", func() {
					dir := filepath.Join(tmpDir, "adir")
					Expect(os.Mkdir(dir, 0700)).To(Succeed())

					_, err := store.Open(ctx, dir, store.WithDriver(driver))
					Expect(srvErrors.IsStorageUnavailableError(err)).To(BeTrue())

					_, err = store.Open(ctx, dir, store.WithDriver(driver))
					Expect(srvErrors.IsStorageLockedError(err)).To(BeFalse())
				})
			})

			Context("Locking", func() {
				// Given an open handle on a path
				// When a second handle opens the same path
				// Then it should be rejected with StorageLockedError
				It("should reject a concurrent open", func() {
					first, err := store.Open(ctx, path, store.WithDriver(driver))
					Expect(err).NotTo(HaveOccurred())
					defer first.Close()

					_, err = store.Open(ctx, path, store.WithDriver(driver))
					Expect(err).To(HaveOccurred())
					Expect(srvErrors.IsStorageLockedError(err)).To(BeTrue())
				})

				It("should allow a new open after close", func() {
					first, err := store.Open(ctx, path, store.WithDriver(driver))
					Expect(err).NotTo(HaveOccurred())
					Expect(first.Close()).To(Succeed())

					second, err := store.Open(ctx, path, store.WithDriver(driver))
					Expect(err).NotTo(HaveOccurred())
					Expect(second.Close()).To(Succeed())
				})

				It("should tolerate a double close", func() {
					s, err := store.Open(ctx, path, store.WithDriver(driver))
					Expect(err).NotTo(HaveOccurred())
					Expect(s.Close()).To(Succeed())
					Expect(s.Close()).To(Succeed())
				})
			})

			Context("Durability", func() {
				// Given an entry put through a handle that is then closed
				// When a fresh handle opens the same path
				// Then the entry should still be there
				It("should survive close and reopen", func() {
					s, err := store.Open(ctx, path, store.WithDriver(driver))
					Expect(err).NotTo(HaveOccurred())
					Expect(s.Entries().Put(ctx, models.Entry{Site: "example.com", Username: "alice", Secret: "p@ss1"})).To(Succeed())
					Expect(s.Entries().Put(ctx, models.Entry{Site: "gone.com", Username: "bob", Secret: "x"})).To(Succeed())
					Expect(s.Entries().Delete(ctx, "gone.com")).To(Succeed())
					Expect(s.Close()).To(Succeed())

					reopened, err := store.Open(ctx, path, store.WithDriver(driver))
					Expect(err).NotTo(HaveOccurred())
					defer reopened.Close()

					got, err := reopened.Entries().Get(ctx, "example.com")
					Expect(err).NotTo(HaveOccurred())
					Expect(got.Username).To(Equal("alice"))
					Expect(got.Secret).To(Equal("p@ss1"))

					_, err = reopened.Entries().Get(ctx, "gone.com")
					Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
				})
			})
		})
	}

	Context("with sqlite and special characters in the path", func() {
		BeforeEach(func() {
			if runtime.GOOS == "windows" {
				Skip("? is not allowed in windows file names")
			}
		})

		// Given a data folder whose name contains URI query and fragment characters
		// When the store is opened there
		// Then the database file should live at exactly the configured path
		It("should create the database at the configured path", func() {
			ctx := context.Background()
			dir := filepath.Join(GinkgoT().TempDir(), "my?vault#1")
			Expect(os.Mkdir(dir, 0700)).To(Succeed())
			path := filepath.Join(dir, "q.db")

			s, err := store.Open(ctx, path, store.WithDriver(store.DriverSQLite))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Entries().Put(ctx, models.Entry{Site: "example.com", Username: "alice"})).To(Succeed())
			Expect(s.Close()).To(Succeed())

			_, err = os.Stat(path)
			Expect(err).NotTo(HaveOccurred())

			reopened, err := store.Open(ctx, path, store.WithDriver(store.DriverSQLite))
			Expect(err).NotTo(HaveOccurred())
			defer reopened.Close()

			got, err := reopened.Entries().Get(ctx, "example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Username).To(Equal("alice"))
		})

		It("should keep paths differing after a question mark apart", func() {
			ctx := context.Background()
			tmpDir := GinkgoT().TempDir()
			first := filepath.Join(tmpDir, "v?1", "q.db")
			second := filepath.Join(tmpDir, "v?2", "q.db")
			Expect(os.Mkdir(filepath.Dir(first), 0700)).To(Succeed())
			Expect(os.Mkdir(filepath.Dir(second), 0700)).To(Succeed())

			a, err := store.Open(ctx, first, store.WithDriver(store.DriverSQLite))
			Expect(err).NotTo(HaveOccurred())
			defer a.Close()
			Expect(a.Entries().Put(ctx, models.Entry{Site: "example.com"})).To(Succeed())

			b, err := store.Open(ctx, second, store.WithDriver(store.DriverSQLite))
			Expect(err).NotTo(HaveOccurred())
			defer b.Close()

			entries, err := b.Entries().List(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})
	})

	It("should reject an unknown driver", func() {
		tmpDir := GinkgoT().TempDir()

		_, err := store.Open(context.Background(), filepath.Join(tmpDir, "p.db"), store.WithDriver("bolt"))
		Expect(srvErrors.IsStorageUnavailableError(err)).To(BeTrue())
	})
})
