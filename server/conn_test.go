package server

import (
	"bufio"
	"io"
	"net"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/kvarena/pagecache/log"
	"github.com/kvarena/pagecache/policy"
	"github.com/kvarena/pagecache/store"
)

func newTestServer(st *store.Store) *Server {
	s := &Server{Store: st, Log: log.NewLogger(log.FatalLevel, GinkgoWriter)}
	s.init()
	return s
}

var _ = Describe("conn", func() {
	var (
		st           *store.Store
		client       net.Conn
		serverSide   net.Conn
		clientReader *bufio.Reader
	)

	BeforeEach(func() {
		st = store.New(10, policy.LRU)
		s := newTestServer(st)
		client, serverSide = net.Pipe()
		clientReader = bufio.NewReader(client)
		go newConn(s, serverSide, "test").serve()
	})

	AfterEach(func() {
		client.Close()
	})

	send := func(line string) {
		_, err := client.Write([]byte(line))
		Expect(err).NotTo(HaveOccurred())
	}

	readLine := func() string {
		line, err := clientReader.ReadString('\n')
		Expect(err).NotTo(HaveOccurred())
		return strings.TrimRight(line, "\r\n")
	}

	readData := func(n int) []byte {
		buf := make([]byte, n)
		_, err := io.ReadFull(clientReader, buf)
		Expect(err).NotTo(HaveOccurred())
		return buf
	}

	It("stores and retrieves a value", func() {
		send("ADD k1 alice 5\r\nhello\r\n")
		Expect(readLine()).To(Equal(StoredResponse))

		send("GET k1 alice\r\n")
		Expect(readLine()).To(Equal("VALUE 5"))
		Expect(readData(5)).To(Equal([]byte("hello")))
		Expect(readLine()).To(Equal(""))
	})

	It("reports EXISTS on a duplicate add", func() {
		send("ADD k1 alice 1\r\nx\r\n")
		Expect(readLine()).To(Equal(StoredResponse))
		send("ADD k1 alice 1\r\nx\r\n")
		Expect(readLine()).To(Equal(ExistsResponse))
	})

	It("reports NOT_FOUND on get/delete of an absent key", func() {
		send("GET missing alice\r\n")
		Expect(readLine()).To(Equal(NotFoundResponse))
		send("DELETE missing alice\r\n")
		Expect(readLine()).To(Equal(NotFoundResponse))
	})

	It("deletes a stored value", func() {
		send("ADD k1 alice 1\r\nx\r\n")
		Expect(readLine()).To(Equal(StoredResponse))
		send("DELETE k1 alice\r\n")
		Expect(readLine()).To(Equal(DeletedResponse))
		send("GET k1 alice\r\n")
		Expect(readLine()).To(Equal(NotFoundResponse))
	})

	It("defaults a command's owner to the IDENTIFY'd owner when omitted", func() {
		send("IDENTIFY alice\r\n")
		Expect(readLine()).To(Equal(OkResponse))
		send("ADD k1 3\r\nfoo\r\n")
		Expect(readLine()).To(Equal(StoredResponse))
	})

	It("reports every counter on STATS", func() {
		send("ADD k1 alice 1\r\nx\r\n")
		Expect(readLine()).To(Equal(StoredResponse))
		send("STATS\r\n")
		var lines []string
		for {
			l := readLine()
			if l == EndResponse {
				break
			}
			lines = append(lines, l)
		}
		Expect(lines).To(HaveLen(len(st.Stats().Snapshot())))
		Expect(lines).To(ContainElement("STAT adds 1"))
	})
})
