// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("IP lists", func() {

	It("is usable as zero value", func() {
		var l IPList
		Expect(l.IsEmpty()).To(BeTrue())
		Expect(l.Len()).To(BeZero())
		l.Push(MustIP("1.0.0.1"))
		Expect(l.IsEmpty()).To(BeFalse())
		Expect(l.Len()).To(Equal(1))
	})

	It("keeps insertion order and duplicates", func() {
		var l IPList
		l.Push(MustIP("9.9.9.9"))
		l.Push(MustIP("1.0.0.1"))
		l.Push(MustIP("9.9.9.9"))
		Expect(l.Addrs()).To(Equal([]string{"9.9.9.9", "1.0.0.1", "9.9.9.9"}))
	})

	It("parses lists of address literals", func() {
		l := Successful(ParseIPList("1.1.1.1", "2606:4700:4700::1111", "192.0.2.1"))
		Expect(l.Len()).To(Equal(3))
		Expect(l.At(0)).To(Equal(MustIP("1.1.1.1")))
		Expect(l.All()).To(HaveEach(HaveField("Name", BeEmpty())))

		_, err := ParseIPList("1.1.1.1", "foobar")
		Expect(err).To(MatchError(ErrInvalidAddress))
	})

	It("creates lists of pre-resolved IPs", func() {
		l := Successful(NamedIPList(
			[2]string{"1.1.1.1", "one.one.one.one"},
			[2]string{"2606:4700:4700::1111", "one.one.one.one"},
			[2]string{"192.0.2.1", "some.host.invalid"},
		))
		Expect(l.Equal(NewIPList(
			MustIP("1.1.1.1").WithName("one.one.one.one"),
			MustIP("2606:4700:4700::1111").WithName("one.one.one.one"),
			MustIP("192.0.2.1").WithName("some.host.invalid"),
		))).To(BeTrue())

		_, err := NamedIPList([2]string{"::blah", "foo"})
		Expect(err).To(MatchError(ErrInvalidAddress))
	})

	It("hands out copies only", func() {
		l := Successful(ParseIPList("1.1.1.1", "192.0.2.1"))
		all := l.All()
		all[0] = MustIP("9.9.9.9")
		Expect(l.At(0)).To(Equal(MustIP("1.1.1.1")))

		c := l.Clone()
		c.Set(1, MustIP("8.8.8.8"))
		Expect(l.At(1)).To(Equal(MustIP("192.0.2.1")))
		Expect(c.At(1)).To(Equal(MustIP("8.8.8.8")))
		Expect(c.Equal(l)).To(BeFalse())
	})

	It("indexes and replaces", func() {
		l := Successful(ParseIPList("1.1.1.1", "2606:4700:4700::1111", "192.0.2.1"))
		l.Set(0, MustIP("9.9.9.9"))
		Expect(l.At(0).Addr.String()).To(Equal("9.9.9.9"))
		Expect(func() { _ = l.At(3) }).To(Panic())
	})

	It("sorts by address, then by name", func() {
		l := Successful(NamedIPList(
			[2]string{"2606:4700:4700::1111", "one.one.one.one"},
			[2]string{"192.0.2.1", "b.invalid"},
			[2]string{"1.1.1.1", "one.one.one.one"},
			[2]string{"192.0.2.1", "a.invalid"},
		))
		l.Sort()
		Expect(l.All()).To(Equal([]IP{
			MustIP("1.1.1.1").WithName("one.one.one.one"),
			MustIP("192.0.2.1").WithName("a.invalid"),
			MustIP("192.0.2.1").WithName("b.invalid"),
			MustIP("2606:4700:4700::1111").WithName("one.one.one.one"),
		}))
	})

})
