// Package observedseq provides an ordered, indexable sequence container whose every read and write
// is reported as a structured event on a per-instance, replaying event channel.
//
// Observers are attached through a caller-supplied Wiring function which runs exactly once,
// synchronously, during construction. Operations that produce a new sequence (Slice, Concat, Map,
// Filter, Flat, FlatMap and the removed segment of Splice) build the new sequence with the same
// Wiring, so events from derived sequences flow wherever the caller routed the original ones.
//
// Key types:
//   - Sequence: the observable container
//   - Channel: the replaying broadcast stream owned by one Sequence
//   - Event: the immutable record published for every operation
//   - StorableEvent and Filter: the scalar form of an Event and the criteria to query stored ones
//
// Events are classified by Kind:
//   - KindCreated: published once when a sequence is constructed
//   - KindAccessed: index reads, pure queries and read-like derivations
//   - KindModified: index writes, in-place mutations and Concat
//
// Common usage pattern:
//
//	wiring := func(channel *observedseq.Channel[int]) {
//		channel.Attach(observedseq.ObserverFunc[int](func(event observedseq.Event[int]) {
//			fmt.Println(event.Kind(), event.Operation(), event.Snapshot())
//		}))
//	}
//
//	seq, err := observedseq.New(wiring, 1, 2, 3)
//	if err != nil {
//		// handle error
//	}
//
//	seq.Append(4)                                       // modified append [1 2 3 4]
//	evens := seq.Filter(func(v, _ int) bool { return v%2 == 0 }) // created constructor [2 4]
//	                                                    // accessed filter [2 4]
//	_, _ = evens.Get(0)                                 // accessed index [2 4]
//
// A Sequence is not safe for concurrent use. All operations, including the delivery to every
// observer, run to completion on the calling goroutine before they return.
package observedseq
