package store_test

import (
	"fmt"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/genesis-community/genesis/store"
)

var _ = Describe("Errors", func() {
	Describe("NewSecretNotFoundError", func() {
		It("carries the path in its message", func() {
			err := store.NewSecretNotFoundError("secret/my/path")
			Expect(err.Error()).To(ContainSubstring("secret/my/path"))
		})
	})

	Describe("NewKeyNotFoundError", func() {
		It("carries the path and key in its message", func() {
			err := store.NewKeyNotFoundError("secret/path", "mykey")
			Expect(err.Error()).To(Equal("no key `mykey` exists in secret `secret/path`"))
		})
	})

	Describe("IsSecretNotFound / IsKeyNotFound / IsNotFound", func() {
		It("classifies a whole-secret miss", func() {
			err := store.NewSecretNotFoundError("p")
			Expect(store.IsSecretNotFound(err)).To(BeTrue())
			Expect(store.IsKeyNotFound(err)).To(BeFalse())
			Expect(store.IsNotFound(err)).To(BeTrue())
		})

		It("classifies a key miss on an existing secret", func() {
			err := store.NewKeyNotFoundError("p", "k")
			Expect(store.IsKeyNotFound(err)).To(BeTrue())
			Expect(store.IsSecretNotFound(err)).To(BeFalse())
			Expect(store.IsNotFound(err)).To(BeTrue())
		})

		It("returns false for an unrelated error", func() {
			err := fmt.Errorf("some error")
			Expect(store.IsNotFound(err)).To(BeFalse())
		})

		It("returns false for nil", func() {
			Expect(store.IsNotFound(nil)).To(BeFalse())
		})
	})

	Describe("NewStoreError", func() {
		It("classifies into the requested kind and wraps the cause", func() {
			cause := fmt.Errorf("dial tcp: connection refused")
			err := store.NewStoreError(store.Unreachable, "could not reach the store", cause)
			Expect(store.IsUnreachable(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("connection refused"))
		})
	})
})
