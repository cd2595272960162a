// Package device provides the execution substrate for the simulation:
// fixed-capacity buffer allocation and parallel kernel dispatch.
//
// A frame is a strict sequence of dependent dispatches. Each dispatch
// runs one kernel over a contiguous index range and blocks until every
// chunk has completed, so kernels never observe a half-written pass:
//
//	backend := device.Get()
//	backend.Dispatch(n, func(start, end int) {
//		for i := start; i < end; i++ {
//			// one "thread" per particle
//		}
//	})
//
// Buffers come from an Arena sized once at construction. There is no
// reallocation; the arena is released in one shot at teardown.
package device
