// Package config merges the JSON config file and CLI flags into the
// settings pagecached needs to construct a store.Store and
// server.Server, adapted from the teacher's cmd/memcached/config
// package: the file holds defaults, flags override the file, and
// human-readable sizes (64m, 10g) are parsed rather than taken as raw
// integers.
package config

import (
	"encoding/json"
	"net"
	"reflect"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/facebookgo/stackerr"

	"github.com/kvarena/pagecache/arena"
	"github.com/kvarena/pagecache/internal/util"
	"github.com/kvarena/pagecache/log"
	"github.com/kvarena/pagecache/policy"
)

// Config is the raw, JSON/flag-addressable shape of pagecached's
// settings. Size fields are human-readable strings ("64m", "10g") per
// SPEC_FULL §1.
type Config struct {
	Port           int    `json:"port,omitempty"`
	Host           string `json:"host,omitempty"`
	LogDestination string `json:"log-destination,omitempty"`
	LogLevel       string `json:"log-level,omitempty"`
	// ArenaSize is the total byte size of the page arena; it is
	// rounded up to a whole number of arena.PageSize pages.
	ArenaSize string `json:"arena-size,omitempty"`
	// MaxItemSize is parsed into Parsed.MaxItemSize; nothing reads that
	// field, so it does not limit value size. Values are rejected with
	// PayloadTooLarge only when they need more pages than the arena has.
	MaxItemSize string `json:"max-item-size,omitempty"`
	// EvictionPolicy names one of LRU, FIFO, SIEVE, CLOCK.
	EvictionPolicy string `json:"eviction-policy,omitempty"`
	Workers        int    `json:"workers,omitempty"`
}

func Default() *Config {
	return &Config{
		Port:           11311,
		Host:           "",
		LogDestination: "stderr",
		LogLevel:       "INFO",
		ArenaSize:      "64m",
		MaxItemSize:    "1m",
		EvictionPolicy: "LRU",
		Workers:        4,
	}
}

// Merge overwrites def's fields with override's non-zero fields,
// exactly like the teacher's mergeConfigs.
func Merge(def, override *Config) {
	defVal := reflect.ValueOf(def).Elem()
	overrideVal := reflect.ValueOf(override).Elem()
	for i, end := 0, defVal.NumField(); i < end; i++ {
		ov := overrideVal.Field(i)
		if !util.IsZeroVal(ov) {
			defVal.Field(i).Set(ov)
		}
	}
}

func Marshal(conf *Config) []byte {
	data, err := json.Marshal(conf)
	if err != nil {
		panic(err)
	}
	return data
}

// Parsed is the Config after validation: host/port joined into an
// address, the arena size converted to a page count and the max item
// size to bytes, the policy kind and log
// level resolved to their typed forms.
type Parsed struct {
	Addr           string
	LogDestination string
	LogLevel       log.Level
	TotalPages     int
	MaxItemSize    int
	EvictionPolicy policy.Kind
	Workers        int
}

func Parse(conf *Config) (p Parsed, err error) {
	arenaBytes, err := humanize.ParseBytes(conf.ArenaSize)
	if err != nil {
		err = stackerr.Newf("arena size parse error: %v", err)
		return
	}
	maxItemBytes, err := humanize.ParseBytes(conf.MaxItemSize)
	if err != nil {
		err = stackerr.Newf("max item size parse error: %v", err)
		return
	}
	p.TotalPages = arena.RequiredPages(int(arenaBytes))
	if p.TotalPages == 0 {
		p.TotalPages = 1
	}
	p.MaxItemSize = int(maxItemBytes)

	switch policy.Kind(conf.EvictionPolicy) {
	case policy.LRU, policy.FIFO, policy.SIEVE, policy.CLOCK:
		p.EvictionPolicy = policy.Kind(conf.EvictionPolicy)
	default:
		err = stackerr.Newf("unknown eviction policy %q", conf.EvictionPolicy)
		return
	}

	p.LogLevel, err = log.LevelFromString(conf.LogLevel)
	if err != nil {
		err = stackerr.Newf("log level parse error: %v", err)
		return
	}

	p.LogDestination = conf.LogDestination
	p.Addr = net.JoinHostPort(conf.Host, strconv.Itoa(conf.Port))
	p.Workers = conf.Workers
	return
}
