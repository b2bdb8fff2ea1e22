// Package shogun implements streaming feature hashing: it folds unbounded
// sparse feature spaces into a fixed target dimension while examples are
// consumed one at a time, optionally synthesizing second-order interaction
// terms on the fly. The hashed representation feeds online learners without
// ever materializing the full feature space.
//
// # Basic Usage
//
// Streaming from a source:
//
//	src, err := shogun.OpenLibSVM[float64]("train.svm", true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p, err := shogun.NewPipeline(src, 1<<18, shogun.WithLabels(), shogun.WithQuadratic(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := p.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Stop()
//
//	w := make([]float64, p.FeatureCount())
//	for p.Advance() {
//	    margin, _ := p.DenseDot(w)
//	    if p.Label()*margin <= 0 {
//	        _ = p.AddToDense(w, p.Label(), false)
//	    }
//	    p.Release()
//	}
//	if err := p.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
// Hashing a vector directly:
//
//	h, err := shogun.NewHasher[float32](4096, shogun.WithQuadratic(false))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	hashed := h.Transform(raw)
//
// # Package Structure
//
// The implementation is organized as follows:
//
//   - Hash transform: hash.go (Hasher, Transform, HashAlgorithmID)
//   - Vector algebra: vector.go (SparseVector, SparseDot, DenseDot, AddToDense)
//   - Streaming lifecycle: pipeline.go (Pipeline), parser.go (producer pump)
//   - Sources: source.go (Source, SliceSource), recordfile.go (RecordWriter,
//     RecordSource), libsvm.go (LibSVMSource)
//   - Configuration: options.go (Option, With* functions)
//   - Platform: madvise_*.go (OS-specific read-ahead hints)
package shogun
