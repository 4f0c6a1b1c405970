package store_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/genesis-community/genesis/store"
)

var _ = Describe("Path", func() {
	Describe("ParsePath", func() {
		It("splits a bare path with no key", func() {
			path, key := store.ParsePath("secret/foo")
			Expect(path).To(Equal("secret/foo"))
			Expect(key).To(Equal(""))
		})

		It("splits path:key", func() {
			path, key := store.ParsePath("secret/foo:bar")
			Expect(path).To(Equal("secret/foo"))
			Expect(key).To(Equal("bar"))
		})

		It("honors an escaped colon in the path segment", func() {
			path, key := store.ParsePath(`secret/f\:oo:bar`)
			Expect(path).To(Equal("secret/f:oo"))
			Expect(key).To(Equal("bar"))
		})
	})

	Describe("EncodePath / ParsePath round trip", func() {
		It("round-trips a path containing a colon", func() {
			encoded := store.EncodePath("secret/f:oo", "b:ar")
			path, key := store.ParsePath(encoded)
			Expect(path).To(Equal("secret/f:oo"))
			Expect(key).To(Equal("b:ar"))
		})
	})

	Describe("HasKey", func() {
		It("is true when a key is present", func() {
			Expect(store.HasKey("secret/foo:bar")).To(BeTrue())
		})

		It("is false for a bare path", func() {
			Expect(store.HasKey("secret/foo")).To(BeFalse())
		})
	})

	Describe("Canonicalize", func() {
		It("trims leading and trailing slashes", func() {
			Expect(store.Canonicalize("/secret/foo/")).To(Equal("secret/foo"))
		})

		It("collapses consecutive slashes", func() {
			Expect(store.Canonicalize("secret//foo///bar")).To(Equal("secret/foo/bar"))
		})
	})
})
