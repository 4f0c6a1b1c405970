package cmd

import (
	"io/ioutil"
	"os"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/genesis-community/genesis/app"
	"github.com/genesis-community/genesis/rc"
)

var _ = Describe("target commands", func() {
	var savedHome string
	var tmpHome string
	var r *app.Runner
	var opt *Options

	BeforeEach(func() {
		savedHome = os.Getenv("HOME")
		var err error
		tmpHome, err = ioutil.TempDir("", "cmd-target-test")
		Expect(err).ToNot(HaveOccurred())
		os.Setenv("HOME", tmpHome)

		r = app.NewRunner()
		opt = NewOptions()
		registerTargetCommands(r, opt)
	})

	AfterEach(func() {
		os.Setenv("HOME", savedHome)
		os.RemoveAll(tmpHome)
	})

	Describe("target", func() {
		It("records a new target and makes it current", func() {
			Expect(r.Execute("target", "https://store.example.com", "mystore")).To(Succeed())

			cfg := rc.Read()
			Expect(cfg.Current).To(Equal("mystore"))
			Expect(cfg.Targets["mystore"].URL).To(Equal("https://store.example.com"))
		})

		It("switches to an already-known target given just an alias", func() {
			Expect(r.Execute("target", "https://a.example.com", "a")).To(Succeed())
			Expect(r.Execute("target", "https://b.example.com", "b")).To(Succeed())

			Expect(r.Execute("target", "a")).To(Succeed())
			cfg := rc.Read()
			Expect(cfg.Current).To(Equal("a"))
		})

		It("errors switching to an unknown alias", func() {
			err := r.Execute("target", "nope")
			Expect(err).To(HaveOccurred())
		})

		It("reports no target selected when nothing has been targeted", func() {
			Expect(r.Execute("target")).To(Succeed())
		})
	})

	Describe("target delete", func() {
		It("removes a known target and clears current if it was selected", func() {
			Expect(r.Execute("target", "https://store.example.com", "mystore")).To(Succeed())
			Expect(r.Execute("target delete", "mystore")).To(Succeed())

			cfg := rc.Read()
			Expect(cfg.Targets).ToNot(HaveKey("mystore"))
			Expect(cfg.Current).To(Equal(""))
		})
	})

	Describe("targets", func() {
		It("lists every known target", func() {
			Expect(r.Execute("target", "https://a.example.com", "a")).To(Succeed())
			Expect(r.Execute("target", "https://b.example.com", "b")).To(Succeed())

			Expect(r.Execute("targets")).To(Succeed())
			cfg := rc.Read()
			Expect(cfg.Targets).To(HaveLen(2))
		})
	})
})
