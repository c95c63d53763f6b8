// Bench is a benchmarking tool for measuring dynhash insert, locate, and
// delete throughput, memory usage, and the structural cost of rebuilds.
//
// Usage:
//
//	go run ./cmd/bench -n 1000000 -universe 4000000 -trials 4 -workers 4
//
// Flags:
//
//	-n         Number of keys inserted per trial (default: 1,000,000)
//	-universe  Largest admissible key, 0 for 4n (default: 0)
//	-trials    Number of independent trials (default: 1)
//	-workers   Number of trials run in parallel (default: 1)
//	-seed      Base seed; trial i uses seed+i (default: 1)
//	-keygen    Key generator: xxh3, murmur3 or rand (default: xxh3)
//	-policy    Delete policy: at-limit or shrink (default: at-limit)
//	-json      Print per-trial results as JSON (default: false)
package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	mrand "math/rand/v2"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/spaolacci/murmur3"
	"github.com/sugawarayuuta/sonnet"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/tamirms/dynhash"
	dynerrors "github.com/tamirms/dynhash/errors"
)

// keyGen maps a trial seed and counter to a key in [0, universe].
type keyGen func(seed uint64, i uint64, universe int64) int64

func xxh3Key(seed, i uint64, universe int64) int64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], i)
	return int64(xxh3.HashSeed(buf[:], seed) % uint64(universe+1))
}

func murmur3Key(seed, i uint64, universe int64) int64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], i)
	return int64(murmur3.Sum64WithSeed(buf[:], uint32(seed)) % uint64(universe+1))
}

func generate(gen string, seed uint64, n int, universe int64) ([]int64, error) {
	keys := make([]int64, n)
	switch gen {
	case "xxh3", "murmur3":
		f := keyGen(xxh3Key)
		if gen == "murmur3" {
			f = murmur3Key
		}
		for i := range keys {
			keys[i] = f(seed, uint64(i), universe)
		}
	case "rand":
		rng := mrand.New(mrand.NewPCG(seed, ^seed))
		for i := range keys {
			keys[i] = rng.Int64N(universe + 1)
		}
	default:
		return nil, fmt.Errorf("unknown key generator %q (use xxh3, murmur3 or rand)", gen)
	}
	return keys, nil
}

type trialResult struct {
	seed     uint64
	insert   time.Duration
	locate   time.Duration
	delete   time.Duration
	inserted dynhash.Stats // after the insert phase
	final    dynhash.Stats
	digest   uint64
}

// trialReport is the -json form of a trialResult.
type trialReport struct {
	Seed          uint64        `json:"seed"`
	InsertNsPerOp float64       `json:"insert_ns_per_op"`
	LocateNsPerOp float64       `json:"locate_ns_per_op"`
	DeleteNsPerOp float64       `json:"delete_ns_per_op"`
	Digest        uint64        `json:"digest"`
	Inserted      dynhash.Stats `json:"inserted"`
	Final         dynhash.Stats `json:"final"`
}

func runTrial(seed uint64, keys, probes []int64, universe int64, policy dynhash.DeletePolicy) (trialResult, error) {
	res := trialResult{seed: seed}
	t, err := dynhash.New(universe, dynhash.WithSeed(seed), dynhash.WithDeletePolicy(policy))
	if err != nil {
		return res, err
	}

	start := time.Now()
	for _, x := range keys {
		if err := t.Insert(x); err != nil {
			return res, fmt.Errorf("insert %d: %w", x, err)
		}
	}
	res.insert = time.Since(start)
	res.inserted = t.Stats()
	res.digest = t.Digest()

	start = time.Now()
	for _, x := range probes {
		if _, err := t.Locate(x); err != nil {
			return res, fmt.Errorf("locate %d: %w", x, err)
		}
	}
	res.locate = time.Since(start)

	// Every other key; duplicates in keys make some of these misses.
	start = time.Now()
	for i := 0; i < len(keys); i += 2 {
		if err := t.Delete(keys[i]); err != nil && !errors.Is(err, dynerrors.ErrNotFound) {
			return res, fmt.Errorf("delete %d: %w", keys[i], err)
		}
	}
	res.delete = time.Since(start)

	if err := t.Verify(); err != nil {
		return res, err
	}
	res.final = t.Stats()
	return res, nil
}

func main() {
	nFlag := flag.Int("n", 1_000_000, "number of keys inserted per trial")
	universeFlag := flag.Int64("universe", 0, "largest admissible key (0 for 4n)")
	trialsFlag := flag.Int("trials", 1, "number of independent trials")
	workersFlag := flag.Int("workers", 1, "number of trials run in parallel")
	seedFlag := flag.Uint64("seed", 1, "base seed; trial i uses seed+i")
	keygenFlag := flag.String("keygen", "xxh3", "key generator: xxh3, murmur3 or rand")
	policyFlag := flag.String("policy", "at-limit", "delete policy: at-limit or shrink")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile := flag.String("memprofile", "", "write memory profile to file")
	jsonFlag := flag.Bool("json", false, "print per-trial results as JSON")
	flag.Parse()

	n := *nFlag
	universe := *universeFlag
	if universe == 0 {
		universe = int64(4 * n)
	}

	var policy dynhash.DeletePolicy
	switch *policyFlag {
	case "at-limit":
		policy = dynhash.RebuildAtLimit
	case "shrink":
		policy = dynhash.RebuildOnShrink
	default:
		fmt.Printf("Unknown delete policy: %s (use 'at-limit' or 'shrink')\n", *policyFlag)
		return
	}

	fmt.Println("Generating keys...")
	genStart := time.Now()
	keysets := make([][]int64, *trialsFlag)
	for i := range keysets {
		keys, err := generate(*keygenFlag, *seedFlag+uint64(i), n, universe)
		if err != nil {
			fmt.Println(err)
			return
		}
		keysets[i] = keys
	}
	probes, _ := generate("rand", *seedFlag^0x5A5A5A5A, 100_000, universe) // rand never fails
	genDuration := time.Since(genStart)

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Printf("could not create CPU profile: %v\n", err)
			return
		}
		defer func() { _ = f.Close() }()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Printf("could not start CPU profile: %v\n", err)
			return
		}
	}

	runtime.GC()
	baselineRSS := getMaxRSS()

	fmt.Printf("Running %d trial(s) on %d worker(s)...\n", *trialsFlag, *workersFlag)
	results := make([]trialResult, *trialsFlag)
	var g errgroup.Group
	g.SetLimit(max(1, *workersFlag))
	wallStart := time.Now()
	for i := range results {
		g.Go(func() error {
			res, err := runTrial(*seedFlag+uint64(i), keysets[i], probes, universe, policy)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	err := g.Wait()
	wallDuration := time.Since(wallStart)

	if *cpuprofile != "" {
		pprof.StopCPUProfile()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			fmt.Printf("could not create memory profile: %v\n", err)
		} else {
			runtime.GC() // Get up-to-date statistics
			if err := pprof.WriteHeapProfile(f); err != nil {
				fmt.Printf("could not write memory profile: %v\n", err)
			}
			_ = f.Close()
		}
	}
	peakRSSMem := getMaxRSS() - baselineRSS

	if err != nil {
		fmt.Printf("Bench failed: %v\n", err)
		return
	}

	if *jsonFlag {
		reports := make([]trialReport, len(results))
		for i, r := range results {
			reports[i] = trialReport{
				Seed:          r.seed,
				InsertNsPerOp: perOp(r.insert, n),
				LocateNsPerOp: perOp(r.locate, len(probes)),
				DeleteNsPerOp: perOp(r.delete, (n+1)/2),
				Digest:        r.digest,
				Inserted:      r.inserted,
				Final:         r.final,
			}
		}
		out, err := sonnet.Marshal(reports)
		if err != nil {
			fmt.Printf("could not encode results: %v\n", err)
			return
		}
		fmt.Println(string(out))
		return
	}

	fmt.Printf("\n")
	fmt.Printf("Keys %d, universe %d, keygen %s, policy %s (gen %.2f sec)\n",
		n, universe, *keygenFlag, policy, genDuration.Seconds())
	fmt.Printf("%-6s %10s %10s %10s %8s %8s %8s %9s %9s %18s\n",
		"seed", "ins ns/op", "loc ns/op", "del ns/op", "rebuild", "reseat", "grow", "slots/key", "draws", "digest")
	for _, r := range results {
		fmt.Printf("%-6d %10.1f %10.1f %10.1f %8d %8d %8d %9.2f %9d %#018x\n",
			r.seed,
			perOp(r.insert, n),
			perOp(r.locate, len(probes)),
			perOp(r.delete, (n+1)/2),
			r.final.Rebuilds,
			r.final.BucketReseats,
			r.final.BucketGrowths,
			r.inserted.SlotsPerKey,
			r.final.SearchAttempts,
			r.digest)
	}
	fmt.Printf("\nWall time %.2f sec, peak RSS growth %.1f MB\n",
		wallDuration.Seconds(), float64(peakRSSMem)/1_000_000)
}

func perOp(d time.Duration, ops int) float64 {
	if ops == 0 {
		return 0
	}
	return float64(d.Nanoseconds()) / float64(ops)
}
