package config

import (
	. "github.com/onsi/ginkgo"
	gm "github.com/onsi/gomega"

	"github.com/kvarena/pagecache/arena"
	"github.com/kvarena/pagecache/policy"
)

var _ = Describe("Merge", func() {
	It("keeps the default when the override field is zero", func() {
		def := Default()
		override := &Config{Port: 9999}
		Merge(def, override)
		gm.Expect(def.Port).To(gm.Equal(9999))
		gm.Expect(def.Host).To(gm.Equal(""))
		gm.Expect(def.ArenaSize).To(gm.Equal("64m"))
	})
})

var _ = Describe("Parse", func() {
	It("converts a human-readable arena size to a whole page count", func() {
		conf := Default()
		conf.ArenaSize = "1m"
		p, err := Parse(conf)
		gm.Expect(err).NotTo(gm.HaveOccurred())
		// humanize.ParseBytes reads "m" as an SI megabyte.
		gm.Expect(p.TotalPages).To(gm.Equal(arena.RequiredPages(1000 * 1000)))
	})

	It("joins host and port into an address", func() {
		conf := Default()
		conf.Host = "127.0.0.1"
		conf.Port = 11311
		p, err := Parse(conf)
		gm.Expect(err).NotTo(gm.HaveOccurred())
		gm.Expect(p.Addr).To(gm.Equal("127.0.0.1:11311"))
	})

	It("resolves a known eviction policy", func() {
		conf := Default()
		conf.EvictionPolicy = "SIEVE"
		p, err := Parse(conf)
		gm.Expect(err).NotTo(gm.HaveOccurred())
		gm.Expect(p.EvictionPolicy).To(gm.Equal(policy.SIEVE))
	})

	It("rejects an unknown eviction policy", func() {
		conf := Default()
		conf.EvictionPolicy = "bogus"
		_, err := Parse(conf)
		gm.Expect(err).To(gm.HaveOccurred())
	})

	It("rejects a malformed size literal", func() {
		conf := Default()
		conf.ArenaSize = "not-a-size"
		_, err := Parse(conf)
		gm.Expect(err).To(gm.HaveOccurred())
	})
})
