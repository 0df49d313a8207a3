package server

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("checkKey", func() {
	It("accepts an ordinary key", func() {
		Expect(checkKey([]byte("hello"))).NotTo(HaveOccurred())
	})

	It("rejects an empty key", func() {
		Expect(checkKey(nil)).To(HaveOccurred())
	})

	It("rejects a key over the size limit", func() {
		Expect(checkKey(bytes.Repeat([]byte("a"), MaxKeySize+1))).To(HaveOccurred())
	})

	It("rejects a key containing whitespace", func() {
		Expect(checkKey([]byte("has space"))).To(HaveOccurred())
	})
})

var _ = Describe("reader", func() {
	It("splits a command line into a verb and fields", func() {
		r := newReader(strings.NewReader("ADD k1 owner 3\r\n"))
		command, fields, clientErr, err := r.readCommand()
		Expect(clientErr).NotTo(HaveOccurred())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(command)).To(Equal("ADD"))
		Expect(len(fields)).To(Equal(3))
	})

	It("flags a line missing the CRLF separator", func() {
		r := newReader(strings.NewReader("GET k1\n"))
		_, _, clientErr, _ := r.readCommand()
		Expect(clientErr).To(HaveOccurred())
	})

	It("reads a data block and its trailing separator", func() {
		r := newReader(strings.NewReader("abc\r\n"))
		data, clientErr, err := r.readDataBlock(3)
		Expect(clientErr).NotTo(HaveOccurred())
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte("abc")))
	})
})
