package refund

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		storage  *LocalStorage
		basePath string
	)

	BeforeEach(func() {
		basePath = filepath.Join(GinkgoT().TempDir(), "uploads")
		var err error
		storage, err = NewLocalStorage(basePath)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewLocalStorage", func() {
		It("creates the base directory", func() {
			info, err := os.Stat(basePath)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		})
	})

	Describe("Save", func() {
		When("saving succeeds", func() {
			It("returns the filename and writes the data", func() {
				path, err := storage.Save("receipt.jpg", []byte("image bytes"))
				Expect(err).NotTo(HaveOccurred())
				Expect(path).To(Equal("receipt.jpg"))

				data, err := os.ReadFile(filepath.Join(basePath, "receipt.jpg"))
				Expect(err).NotTo(HaveOccurred())
				Expect(string(data)).To(Equal("image bytes"))
			})
		})
	})

	Describe("Get", func() {
		When("the file exists", func() {
			BeforeEach(func() {
				_, err := storage.Save("receipt.jpg", []byte("image bytes"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("returns the file data", func() {
				data, err := storage.Get("receipt.jpg")
				Expect(err).NotTo(HaveOccurred())
				Expect(string(data)).To(Equal("image bytes"))
			})
		})

		When("the file does not exist", func() {
			It("returns an error", func() {
				_, err := storage.Get("missing.jpg")
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Delete", func() {
		When("the file exists", func() {
			BeforeEach(func() {
				_, err := storage.Save("receipt.jpg", []byte("image bytes"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("removes the file", func() {
				Expect(storage.Delete("receipt.jpg")).NotTo(HaveOccurred())
				_, err := os.Stat(filepath.Join(basePath, "receipt.jpg"))
				Expect(os.IsNotExist(err)).To(BeTrue())
			})
		})

		When("the file does not exist", func() {
			It("returns an error", func() {
				Expect(storage.Delete("missing.jpg")).To(HaveOccurred())
			})
		})
	})
})
