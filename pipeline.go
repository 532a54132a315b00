package quill

import (
	"sync"

	"github.com/akmonengine/quill/actor"
)

// Pair is a candidate body pair as reported by the external broad phase.
type Pair struct {
	BodyA *actor.Body
	BodyB *actor.Body
}

// NarrowPhase drains a channel of broad-phase candidate pairs through
// workersCount goroutines running the pairwise intersector, and collects
// the resulting contacts. Results are deduplicated by canonical pair key,
// so a broad phase that reports the same unordered pair twice costs one
// redundant test, never a duplicate contact. Safe because every test is
// read-only over its bodies and writes only its own contact record.
func (d *Detector) NarrowPhase(pairs <-chan Pair, workersCount int) []*Contact {
	contactChan := make(chan *Contact, workersCount)

	go func() {
		var wg sync.WaitGroup
		defer close(contactChan)

		for i := 0; i < workersCount; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				for pair := range pairs {
					if !ShouldTest(pair.BodyA, pair.BodyB) {
						continue
					}

					contact := &Contact{}
					if d.Intersect(pair.BodyA, pair.BodyB, contact) {
						contactChan <- contact
					}
				}
			}()
		}
		wg.Wait()
	}()

	seen := make(map[PairKey]struct{})
	contacts := make([]*Contact, 0)
	for contact := range contactChan {
		key := contact.Pair()
		if _, duplicate := seen[key]; duplicate {
			continue
		}
		seen[key] = struct{}{}
		contacts = append(contacts, contact)
	}
	return contacts
}

// DetectPairs is the slice-based convenience over NarrowPhase for callers
// holding the broad-phase output as a list.
func (d *Detector) DetectPairs(pairs []Pair, workersCount int) []*Contact {
	pairChan := make(chan Pair, workersCount)

	go func() {
		defer close(pairChan)
		for _, pair := range pairs {
			pairChan <- pair
		}
	}()

	return d.NarrowPhase(pairChan, workersCount)
}

// task splits a slice across workersCount goroutines in contiguous chunks.
func task[T any](workersCount int, data []T, fn func(data T)) {
	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(workerID*chunkSize, min((workerID+1)*chunkSize, dataSize))
	}
	wg.Wait()
}

// UpdateBroadphaseAABBs refreshes every body's conservative envelope, the
// input the external broad phase consumes. Run it after moving or reshaping
// bodies.
func (w *World) UpdateBroadphaseAABBs(workersCount int) {
	task(max(1, workersCount), w.Bodies, func(body *actor.Body) {
		body.UpdateBroadphaseAABB()
	})
}
