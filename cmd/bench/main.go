// Bench is a benchmarking tool for measuring the throughput of the streaming
// hashed-features pipeline.
//
// Usage:
//
//	go run ./cmd/bench -examples 1000000 -dim 262144 -quadratic
//
// Flags:
//
//	-examples   Number of examples to stream (default: 1,000,000)
//	-nnz        Non-zero entries per example (default: 32)
//	-dim        Target dimension (default: 262144)
//	-quadratic  Synthesize second-order interaction terms (default: false)
//	-algo       Hash algorithm: murmur3 or xxh3 (default: murmur3)
//	-buffer     Producer read-ahead buffer size (default: 1024)
package main

import (
	"flag"
	"fmt"
	mrand "math/rand/v2"
	"os"
	"time"

	"github.com/NanuSai/shogun"
)

func main() {
	examplesFlag := flag.Int("examples", 1_000_000, "number of examples")
	nnzFlag := flag.Int("nnz", 32, "non-zero entries per example")
	dimFlag := flag.Int("dim", 1<<18, "target dimension")
	quadraticFlag := flag.Bool("quadratic", false, "synthesize interaction terms")
	algoFlag := flag.String("algo", "murmur3", "hash algorithm: murmur3 or xxh3")
	bufferFlag := flag.Int("buffer", 1024, "producer read-ahead buffer size")
	flag.Parse()

	var algo shogun.HashAlgorithmID
	switch *algoFlag {
	case "murmur3":
		algo = shogun.AlgoMurmur3
	case "xxh3":
		algo = shogun.AlgoXXH3
	default:
		fmt.Fprintf(os.Stderr, "unknown algorithm %q\n", *algoFlag)
		os.Exit(1)
	}

	fmt.Println("Generating examples...")
	rng := mrand.New(mrand.NewPCG(0x5147, 0xbe57))
	vecs := make([]shogun.SparseVector[float64], *examplesFlag)
	labels := make([]float64, *examplesFlag)
	for i := range vecs {
		vec := make(shogun.SparseVector[float64], *nnzFlag)
		for j := range vec {
			vec[j] = shogun.Entry[float64]{
				Index: rng.Uint32(),
				Value: rng.NormFloat64(),
			}
		}
		vecs[i] = vec
		if rng.Float64() < 0.5 {
			labels[i] = 1
		} else {
			labels[i] = -1
		}
	}

	opts := []shogun.Option{
		shogun.WithHashAlgorithm(algo),
		shogun.WithBufferSize(*bufferFlag),
	}
	if *quadraticFlag {
		opts = append(opts, shogun.WithQuadratic(true))
	}
	p, err := shogun.NewPipelineFromSlice(vecs, labels, *dimFlag, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := p.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("Streaming...")
	start := time.Now()
	w := make([]float64, p.FeatureCount())
	mistakes := 0
	count := 0
	for p.Advance() {
		margin, err := p.DenseDot(w)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if p.Label()*margin <= 0 {
			mistakes++
			if err := p.AddToDense(w, p.Label(), false); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
		p.Release()
		count++
	}
	elapsed := time.Since(start)
	if err := p.Stop(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Streamed %d examples in %v (%.0f examples/sec)\n",
		count, elapsed, float64(count)/elapsed.Seconds())
	fmt.Printf("Perceptron mistakes: %d (%.2f%%)\n",
		mistakes, 100*float64(mistakes)/float64(count))
}
