package report_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/genesis-community/genesis/report"
)

var _ = Describe("BufferSink", func() {
	It("records events in call order", func() {
		b := report.NewBufferSink(nil, nil)
		b.Init(3)
		b.StartItem(report.Item{Path: "a/ca", Action: "add"})
		b.DoneItem(report.Item{Path: "a/ca", Action: "add"}, nil)
		b.Completed(1, 0, 0)

		Expect(b.Paths()).To(Equal([]string{"a/ca"}))
		Expect(b.Events).To(HaveLen(4))
		Expect(b.Events[0].Kind).To(Equal(report.Init))
		Expect(b.Events[3].Kind).To(Equal(report.Completed))
	})

	It("answers scripted prompts in order and errors once exhausted", func() {
		b := report.NewBufferSink([]string{"yes"}, []rune{'y'})

		answer, err := b.Prompt("proceed?")
		Expect(err).NotTo(HaveOccurred())
		Expect(answer).To(Equal("yes"))

		_, err = b.Prompt("again?")
		Expect(err).To(Equal(report.ErrNoTTY))

		key, err := b.InlinePrompt("y/n/q")
		Expect(err).NotTo(HaveOccurred())
		Expect(key).To(Equal('y'))
	})
})
