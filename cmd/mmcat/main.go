// Command mmcat maps a file, or anonymous memory, through the mmap package
// and prints its checksum and contents.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"

	mmap "github.com/shixiongfei/mmap-win32"
	"github.com/shixiongfei/mmap-win32/metrics"
)

var (
	protFlag    = flag.String("prot", "READ", "protection, e.g. READ|WRITE")
	flagsFlag   = flag.String("flags", "SHARED", "mapping flags, e.g. SHARED or PRIVATE")
	offset      = flag.Int64("offset", 0, "file offset, aligned to the allocation granularity")
	length      = flag.Int64("length", 0, "bytes to map (default: rest of the file)")
	fill        = flag.Int("fill", -1, "fill the mapping with this byte value")
	syncFlag    = flag.Bool("sync", false, "flush the mapping after filling")
	lock        = flag.Bool("lock", false, "lock the mapping in memory while it is used")
	sum         = flag.Bool("sum", true, "print the xxhash64 of the mapping")
	dump        = flag.Int("dump", 0, "hex dump the first N bytes")
	withMetrics = flag.Bool("metrics", false, "print system call counters on exit")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("mmcat: ")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: mmcat [flags] [file]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	prot, err := mmap.ParseProt(*protFlag)
	if err != nil {
		return err
	}
	flags, err := mmap.ParseFlags(*flagsFlag)
	if err != nil {
		return err
	}

	sys := mmap.Native()
	reg := prometheus.NewRegistry()
	if *withMetrics {
		inst, err := metrics.Instrument(sys, reg)
		if err != nil {
			return err
		}
		sys = inst
	}
	t := mmap.NewTranslator(sys)

	m, err := open(t, prot, flags)
	if err != nil {
		return err
	}
	log.Printf("mapped %d bytes at %#x (%s, %s)", m.Length(), m.Address(), mmap.FormatProt(prot), mmap.FormatFlags(flags))

	if err := use(m); err != nil {
		m.Close()
		return err
	}
	if err := m.Close(); err != nil {
		return err
	}
	if *withMetrics {
		return printMetrics(reg)
	}
	return nil
}

func open(t *mmap.Translator, prot, flags int) (*mmap.Mapping, error) {
	if flag.NArg() == 0 {
		if *length <= 0 {
			return nil, fmt.Errorf("-length is required for anonymous memory")
		}
		return t.Map(^uintptr(0), 0, uintptr(*length), prot, flags|mmap.MAP_ANONYMOUS)
	}

	name := flag.Arg(0)
	mode := os.O_RDONLY
	if prot&mmap.PROT_WRITE != 0 {
		mode = os.O_RDWR
	}
	f, err := os.OpenFile(name, mode, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	n := *length
	if n == 0 {
		fi, err := f.Stat()
		if err != nil {
			return nil, err
		}
		n = fi.Size() - *offset
	}
	if n <= 0 {
		return nil, fmt.Errorf("%s: nothing to map at offset %d", name, *offset)
	}
	return t.Map(f.Fd(), *offset, uintptr(n), prot, flags&^mmap.MAP_ANONYMOUS)
}

func use(m *mmap.Mapping) error {
	if *lock {
		if err := m.Lock(); err != nil {
			return err
		}
		defer m.Unlock()
	}
	if *fill >= 0 {
		if !m.Writable() {
			return fmt.Errorf("-fill needs WRITE protection")
		}
		mem := m.Memory()
		for i := range mem {
			mem[i] = byte(*fill)
		}
		if *syncFlag {
			if err := m.Sync(); err != nil {
				return err
			}
		}
	}
	mem := m.Memory()
	if *sum {
		fmt.Printf("%016x\n", xxhash.Sum64(mem))
	}
	if *dump > 0 {
		fmt.Print(hex.Dump(mem[:min(*dump, len(mem))]))
	}
	return nil
}

func printMetrics(g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		for _, metric := range mf.GetMetric() {
			labels := ""
			for _, lp := range metric.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", lp.GetName(), lp.GetValue())
			}
			switch {
			case metric.GetCounter() != nil:
				log.Printf("%s%s %v", mf.GetName(), labels, metric.GetCounter().GetValue())
			case metric.GetGauge() != nil:
				log.Printf("%s%s %v", mf.GetName(), labels, metric.GetGauge().GetValue())
			case metric.GetHistogram() != nil:
				log.Printf("%s%s count=%d sum=%gs", mf.GetName(), labels,
					metric.GetHistogram().GetSampleCount(), metric.GetHistogram().GetSampleSum())
			}
		}
	}
	return nil
}
